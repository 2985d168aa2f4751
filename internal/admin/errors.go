package admin

import (
	"errors"
	"fmt"
	"replsync/internal/endpoint"
	"strings"
)

// ErrNotInitiated classifies a probe failure caused by nodes that are not
// yet members of any replica set.
var ErrNotInitiated = errors.New("replica set not initiated")

type ConnectionError struct {
	Mode  string
	Hosts []endpoint.Endpoint
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s in %s mode: %v",
		strings.Join(endpoint.Strings(e.Hosts), ","), e.Mode, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthenticationError is not fatal to a reconciliation; the admin user may
// not exist yet on a fresh cluster.
type AuthenticationError struct {
	User string
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication as %q failed: %v", e.User, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// CommandError is a rejection of an administrative command by the cluster.
// Reason is the server message, unmodified.
type CommandError struct {
	Command  string
	Code     int32
	CodeName string
	Reason   string
}

func (e *CommandError) Error() string {
	if e.CodeName != "" {
		return fmt.Sprintf("%s failed (%s, code %d): %s", e.Command, e.CodeName, e.Code, e.Reason)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Reason)
}
