package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies one cached report variant.
type Key struct {
	// Report is the report name (e.g. "top-workplaces")
	Report string

	// Params are the report parameters (e.g. {"n": "3", "limit": "20"})
	Params map[string]string
}

// String generates a deterministic cache key string.
// Format: report:name:param1=val1:param2=val2 with params sorted by name.
//
// Example:
//
//	report:top-workplaces:limit=20:n=3
func (k Key) String() string {
	parts := []string{"report"}

	if name := strings.TrimSpace(k.Report); name != "" {
		parts = append(parts, name)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
		}
	}

	return strings.Join(parts, ":")
}
