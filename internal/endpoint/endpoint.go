package endpoint

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	DefaultPort = 27017
	Separator   = ","
)

// Endpoint is a host and port pair. Two endpoints are the same member when
// their String forms are equal; no name resolution is done.
type Endpoint struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

func New(host string, port int) Endpoint {
	return Endpoint{Host: host, Port: port}
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

type MalformedInputError struct {
	Token  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("malformed endpoint list: %s", e.Reason)
	}
	return fmt.Sprintf("malformed endpoint %q: %s", e.Token, e.Reason)
}

// ParseList splits a comma separated list of host[:port] tokens. Missing
// ports are filled with defaultPort. Order is kept and repeated endpoints
// only appear once, at their first position.
func ParseList(list string, defaultPort int) ([]Endpoint, error) {
	if strings.TrimSpace(list) == "" {
		return nil, &MalformedInputError{Reason: "empty"}
	}

	tokens := strings.Split(list, Separator)
	out := make([]Endpoint, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))

	for _, tok := range tokens {
		ep, err := Parse(tok, defaultPort)
		if err != nil {
			return nil, err
		}
		key := ep.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ep)
	}

	return out, nil
}

// Parse reads a single "host" or "host:port" token. Bracketed IPv6
// literals are accepted in both forms.
func Parse(token string, defaultPort int) (Endpoint, error) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return Endpoint{}, &MalformedInputError{Token: token, Reason: "empty token"}
	}

	host, portStr := tok, ""
	switch {
	case strings.HasPrefix(tok, "["):
		end := strings.Index(tok, "]")
		if end < 0 {
			return Endpoint{}, &MalformedInputError{Token: tok, Reason: "missing closing bracket"}
		}
		host = tok[1:end]
		rest := tok[end+1:]
		if rest != "" {
			if !strings.HasPrefix(rest, ":") {
				return Endpoint{}, &MalformedInputError{Token: tok, Reason: "unexpected text after address"}
			}
			portStr = rest[1:]
			if portStr == "" {
				return Endpoint{}, &MalformedInputError{Token: tok, Reason: "empty port"}
			}
		}
	case strings.Count(tok, ":") == 1:
		var err error
		host, portStr, err = net.SplitHostPort(tok)
		if err != nil {
			return Endpoint{}, &MalformedInputError{Token: tok, Reason: err.Error()}
		}
		if portStr == "" {
			return Endpoint{}, &MalformedInputError{Token: tok, Reason: "empty port"}
		}
	case strings.Contains(tok, ":"):
		return Endpoint{}, &MalformedInputError{Token: tok, Reason: "IPv6 addresses must be bracketed"}
	}

	if host == "" {
		return Endpoint{}, &MalformedInputError{Token: tok, Reason: "empty host"}
	}
	if strings.ContainsAny(host, " \t/") {
		return Endpoint{}, &MalformedInputError{Token: tok, Reason: "invalid host"}
	}

	port := defaultPort
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return Endpoint{}, &MalformedInputError{Token: tok, Reason: "port is not a number"}
		}
		port = p
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, &MalformedInputError{Token: tok, Reason: fmt.Sprintf("port %d out of range", port)}
	}

	return Endpoint{Host: host, Port: port}, nil
}

// Strings returns the member identity of every endpoint.
func Strings(eps []Endpoint) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.String()
	}
	return out
}
