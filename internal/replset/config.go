package replset

import (
	"go.mongodb.org/mongo-driver/bson"
	"replsync/internal/endpoint"
	"slices"
)

// InitialVersion is the version of a configuration created by initiate.
const InitialVersion = 1

// Member is one entry of a replica set configuration. Fields the
// reconciler does not manage (priority, votes, tags, ...) live in Extra
// and are written back unchanged.
type Member struct {
	ID    int    `bson:"_id" json:"id" yaml:"id"`
	Host  string `bson:"host" json:"host" yaml:"host"`
	Extra bson.M `bson:",inline" json:"-" yaml:"-"`
}

// Config is the replica set configuration document as returned by
// replSetGetConfig and accepted by replSetInitiate / replSetReconfig.
type Config struct {
	Name    string   `bson:"_id" json:"name" yaml:"name"`
	Version int      `bson:"version" json:"version" yaml:"version"`
	Members []Member `bson:"members" json:"members" yaml:"members"`
	Extra   bson.M   `bson:",inline" json:"-" yaml:"-"`
}

// DesiredState is what the caller asks the cluster to converge to.
// Endpoint order only matters for id assignment at bootstrap.
type DesiredState struct {
	Name      string
	Endpoints []endpoint.Endpoint
}

// Clone returns a deep copy of the document, nested Extra documents and
// arrays included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{
		Name:    c.Name,
		Version: c.Version,
		Members: make([]Member, len(c.Members)),
		Extra:   cloneDoc(c.Extra),
	}
	for i, m := range c.Members {
		out.Members[i] = Member{ID: m.ID, Host: m.Host, Extra: cloneDoc(m.Extra)}
	}
	return out
}

func cloneDoc(m bson.M) bson.M {
	if m == nil {
		return nil
	}
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return cloneDoc(t)
	case map[string]any:
		return map[string]any(cloneDoc(t))
	case bson.D:
		out := make(bson.D, len(t))
		for i, e := range t {
			out[i] = bson.E{Key: e.Key, Value: cloneValue(e.Value)}
		}
		return out
	case bson.A:
		out := make(bson.A, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []any:
		return []any(cloneValue(bson.A(t)).(bson.A))
	default:
		return v
	}
}

// Endpoints parses every member host. Hosts stored without a port get
// defaultPort so they compare equal to parsed desired endpoints.
func (c *Config) Endpoints(defaultPort int) ([]endpoint.Endpoint, error) {
	out := make([]endpoint.Endpoint, 0, len(c.Members))
	for _, m := range c.Members {
		ep, err := endpoint.Parse(m.Host, defaultPort)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

// MaxMemberID returns the largest member id, or -1 for an empty member list.
func (c *Config) MaxMemberID() int {
	maxID := -1
	for _, m := range c.Members {
		maxID = max(maxID, m.ID)
	}
	return maxID
}

// Hosts lists member hosts sorted by member id.
func (c *Config) Hosts() []string {
	members := slices.Clone(c.Members)
	slices.SortFunc(members, func(a, b Member) int { return a.ID - b.ID })

	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Host
	}
	return out
}
