package credentials

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

type fakeSource struct {
	cred   *Credential
	called bool
}

func (s *fakeSource) Load() (*Credential, bool) {
	s.called = true
	return s.cred, s.cred != nil
}

func writeCnf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mongodb.cnf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to write %s", path)
	return path
}

func TestResolve_ExplicitPair(t *testing.T) {
	src := &fakeSource{cred: &Credential{User: "file", Password: "file"}}

	cred, err := Resolve("admin", "secret", src)
	require.NoError(t, err)
	assert.Equal(t, &Credential{User: "admin", Password: "secret"}, cred)
	assert.False(t, src.called)
}

func TestResolve_HalfPair(t *testing.T) {
	_, err := Resolve("admin", "", nil)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "password", cfgErr.Missing)

	_, err = Resolve("", "secret", nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "user", cfgErr.Missing)
}

func TestResolve_Fallback(t *testing.T) {
	src := &fakeSource{cred: &Credential{User: "file", Password: "pw"}}

	cred, err := Resolve("", "", src)
	require.NoError(t, err)
	assert.True(t, src.called)
	assert.Equal(t, "file", cred.User)
}

func TestResolve_NothingAvailable(t *testing.T) {
	cred, err := Resolve("", "", &fakeSource{})
	require.NoError(t, err)
	assert.Nil(t, cred)

	cred, err = Resolve("", "", nil)
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestFile_Load(t *testing.T) {
	path := writeCnf(t, "[client]\nuser = admin\npass = s3cret\n")

	cred, ok := NewFile(path, "").Load()
	require.True(t, ok)
	assert.Equal(t, &Credential{User: "admin", Password: "s3cret"}, cred)
}

func TestFile_LoadPasswordKey(t *testing.T) {
	path := writeCnf(t, "[client]\nuser=admin\npassword=pw\n")

	cred, ok := NewFile(path, "client").Load()
	require.True(t, ok)
	assert.Equal(t, "pw", cred.Password)
}

func TestFile_LoadMissingOrIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
		section string
	}{
		{"other section only", "[server]\nuser=a\npass=b\n", "client"},
		{"no password", "[client]\nuser=admin\n", "client"},
		{"no user", "[client]\npass=pw\n", "client"},
		{"malformed", "[client\nuser", "client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCnf(t, tt.content)
			cred, ok := NewFile(path, tt.section).Load()
			assert.False(t, ok)
			assert.Nil(t, cred)
		})
	}
}

func TestFile_LoadAbsentFile(t *testing.T) {
	cred, ok := NewFile(filepath.Join(t.TempDir(), "nope.cnf"), "").Load()
	assert.False(t, ok)
	assert.Nil(t, cred)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got, err := expandHome("~/.mongodb.cnf")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.mongodb.cnf", got)

	got, err = expandHome("/etc/mongodb.cnf")
	require.NoError(t, err)
	assert.Equal(t, "/etc/mongodb.cnf", got)
}
