package credentials

import (
	"fmt"
	"gopkg.in/ini.v1"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultFile    = "~/.mongodb.cnf"
	DefaultSection = "client"
)

type Credential struct {
	User     string
	Password string
}

// ConfigurationError reports that only half of a user/password pair was
// given.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("login user and password must be given together, %s is missing", e.Missing)
}

// Source supplies a credential when none was given explicitly.
type Source interface {
	Load() (*Credential, bool)
}

// Resolve returns the explicit pair if complete, otherwise whatever fallback
// provides. A nil credential with a nil error means proceed unauthenticated.
func Resolve(user, password string, fallback Source) (*Credential, error) {
	switch {
	case user != "" && password != "":
		return &Credential{User: user, Password: password}, nil
	case user != "":
		return nil, &ConfigurationError{Missing: "password"}
	case password != "":
		return nil, &ConfigurationError{Missing: "user"}
	}

	if fallback == nil {
		return nil, nil
	}
	cred, ok := fallback.Load()
	if !ok {
		return nil, nil
	}
	return cred, nil
}

// File reads an ini formatted credential file:
//
//	[client]
//	user = admin
//	pass = secret
type File struct {
	Path    string
	Section string
}

func NewFile(path, section string) *File {
	if path == "" {
		path = DefaultFile
	}
	if section == "" {
		section = DefaultSection
	}
	return &File{Path: path, Section: section}
}

func (f *File) Load() (*Credential, bool) {
	path, err := expandHome(f.Path)
	if err != nil {
		slog.Debug("credential file path not usable", "path", f.Path, "reason", err)
		return nil, false
	}

	if _, err := os.Stat(path); err != nil {
		slog.Debug("no credential file", "path", path)
		return nil, false
	}

	cfg, err := ini.Load(path)
	if err != nil {
		slog.Warn("ignoring unreadable credential file", "path", path, "reason", err)
		return nil, false
	}

	sec, err := cfg.GetSection(f.Section)
	if err != nil {
		slog.Debug("credential file has no section", "path", path, "section", f.Section)
		return nil, false
	}

	user := sec.Key("user").String()
	password := sec.Key("pass").String()
	if password == "" {
		password = sec.Key("password").String()
	}
	if user == "" || password == "" {
		slog.Debug("credential file section is incomplete", "path", path, "section", f.Section)
		return nil, false
	}

	slog.Debug("loaded credentials from file", "path", path, "user", user)
	return &Credential{User: user, Password: password}, true
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
