package replset

import (
	"errors"
	"fmt"
	"replsync/internal/endpoint"
)

// Mode selects the administrative command a configuration is submitted with.
type Mode int

const (
	ModeNone Mode = iota
	ModeInitiate
	ModeReconfigure
)

func (m Mode) String() string {
	switch m {
	case ModeInitiate:
		return "initiate"
	case ModeReconfigure:
		return "reconfigure"
	default:
		return "none"
	}
}

// ErrNameMismatch is returned when the live configuration belongs to a
// different replica set than the one requested.
var ErrNameMismatch = errors.New("replica set name mismatch")

// fields owned by the server that must not be echoed back on reconfig
var serverOwnedFields = []string{"term"}

// Plan is the outcome of building: either a document to submit with Mode,
// or a no-op when Mode is ModeNone.
type Plan struct {
	Mode   Mode
	Config *Config
	Added  []endpoint.Endpoint
}

func (p Plan) Noop() bool {
	return p.Mode == ModeNone
}

// NewInitial builds the first configuration of a replica set. Member ids
// follow the order of eps.
func NewInitial(name string, eps []endpoint.Endpoint) (*Config, error) {
	if name == "" {
		return nil, errors.New("replica set name is required")
	}
	if len(eps) == 0 {
		return nil, errors.New("at least one member is required")
	}

	cfg := &Config{
		Name:    name,
		Version: InitialVersion,
		Members: make([]Member, len(eps)),
	}
	for i, ep := range eps {
		cfg.Members[i] = Member{ID: i, Host: ep.String()}
	}
	return cfg, nil
}

// Extend returns a copy of cur with added appended as new members. New ids
// start at max(existing)+1 and the version goes up by exactly one. cur is
// not modified.
func Extend(cur *Config, added []endpoint.Endpoint) (*Config, error) {
	if cur == nil {
		return nil, errors.New("cannot extend a missing configuration")
	}
	if len(added) == 0 {
		return nil, errors.New("nothing to add")
	}

	next := cur.Clone()
	for _, f := range serverOwnedFields {
		delete(next.Extra, f)
	}

	nextID := cur.MaxMemberID() + 1
	for _, ep := range added {
		next.Members = append(next.Members, Member{ID: nextID, Host: ep.String()})
		nextID++
	}
	next.Version = cur.Version + 1

	return next, nil
}

// Build decides between bootstrap and extension. A nil current means the
// replica set has not been initiated yet.
func Build(desired DesiredState, current *Config, defaultPort int) (Plan, error) {
	if current == nil {
		cfg, err := NewInitial(desired.Name, desired.Endpoints)
		if err != nil {
			return Plan{}, err
		}
		return Plan{Mode: ModeInitiate, Config: cfg, Added: desired.Endpoints}, nil
	}

	if current.Name != desired.Name {
		return Plan{}, fmt.Errorf("%w: cluster reports %q, requested %q", ErrNameMismatch, current.Name, desired.Name)
	}

	live, err := current.Endpoints(defaultPort)
	if err != nil {
		return Plan{}, fmt.Errorf("read current members: %w", err)
	}

	delta, err := Diff(live, desired.Endpoints)
	if err != nil {
		return Plan{}, err
	}
	if len(delta.Added) == 0 {
		return Plan{Mode: ModeNone, Config: current}, nil
	}

	next, err := Extend(current, delta.Added)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Mode: ModeReconfigure, Config: next, Added: delta.Added}, nil
}
