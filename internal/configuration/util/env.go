package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ${NAME} or ${NAME:-fallback}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ExpandEnvStrict replaces ${NAME} references. A reference without a
// fallback whose variable is unset is an error; all such names are
// reported at once.
func ExpandEnvStrict(s string) (string, error) {
	var missing []string

	out := envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := envVarPattern.FindStringSubmatch(ref)
		name, hasFallback, fallback := m[1], m[2] != "", m[3]

		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if hasFallback {
			return fallback
		}
		missing = append(missing, name)
		return ""
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
