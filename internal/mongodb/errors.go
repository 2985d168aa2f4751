package mongodb

import (
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/description"
	"go.mongodb.org/mongo-driver/x/mongo/driver/auth"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
	"replsync/internal/admin"
)

// server error codes
const (
	codeAuthenticationFailed = 18
	codeNotYetInitialized    = 94
)

// classifyProbeError maps a failed replica set aware ping to
// admin.ErrNotInitiated when the topology shows nodes that run with a
// replica set name but have no configuration (RSGhost), or when the server
// answers NotYetInitialized. Other errors are returned unchanged.
func classifyProbeError(err error) error {
	if err == nil {
		return nil
	}
	if hasGhostServer(err) || hasServerCode(err, codeNotYetInitialized) {
		return fmt.Errorf("%w: %w", admin.ErrNotInitiated, err)
	}
	return err
}

func hasGhostServer(err error) bool {
	var desc description.Topology
	var sse topology.ServerSelectionError
	var ssePtr *topology.ServerSelectionError

	switch {
	case errors.As(err, &sse):
		desc = sse.Desc
	case errors.As(err, &ssePtr) && ssePtr != nil:
		desc = ssePtr.Desc
	default:
		return false
	}

	for _, srv := range desc.Servers {
		if srv.Kind == description.RSGhost {
			return true
		}
	}
	return false
}

func hasServerCode(err error, code int) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(code)
}

func isAuthError(err error) bool {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return true
	}
	return hasServerCode(err, codeAuthenticationFailed)
}

// commandError keeps the server's message verbatim.
func commandError(command string, err error) *admin.CommandError {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return &admin.CommandError{
			Command:  command,
			Code:     ce.Code,
			CodeName: ce.Name,
			Reason:   ce.Message,
		}
	}
	return &admin.CommandError{Command: command, Reason: err.Error()}
}
