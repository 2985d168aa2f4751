package replset

import (
	"fmt"
	"replsync/internal/endpoint"
	"strings"
)

// Delta is the difference between the live member set and the desired one.
type Delta struct {
	Added   []endpoint.Endpoint
	Removed []endpoint.Endpoint
}

func (d Delta) Unchanged() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

type UnsupportedRemovalError struct {
	Endpoints []endpoint.Endpoint
}

func (e *UnsupportedRemovalError) Error() string {
	return fmt.Sprintf("removing members is not supported, desired state omits: %s",
		strings.Join(endpoint.Strings(e.Endpoints), ", "))
}

// Diff computes added = desired - current and removed = current - desired.
// Added keeps the desired order, removed keeps the current order. A non
// empty removed set is returned together with an UnsupportedRemovalError.
func Diff(current, desired []endpoint.Endpoint) (Delta, error) {
	cur := keySet(current)
	want := keySet(desired)

	var delta Delta
	for _, ep := range desired {
		if _, ok := cur[ep.String()]; !ok {
			delta.Added = appendUnique(delta.Added, ep)
		}
	}
	for _, ep := range current {
		if _, ok := want[ep.String()]; !ok {
			delta.Removed = appendUnique(delta.Removed, ep)
		}
	}

	if len(delta.Removed) > 0 {
		return delta, &UnsupportedRemovalError{Endpoints: delta.Removed}
	}
	return delta, nil
}

func keySet(eps []endpoint.Endpoint) map[string]struct{} {
	set := make(map[string]struct{}, len(eps))
	for _, ep := range eps {
		set[ep.String()] = struct{}{}
	}
	return set
}

func appendUnique(eps []endpoint.Endpoint, ep endpoint.Endpoint) []endpoint.Endpoint {
	for _, e := range eps {
		if e.String() == ep.String() {
			return eps
		}
	}
	return append(eps, ep)
}
