package corpus

import (
	_ "embed"
	"sort"
	"strings"
)

// The bundled seed list ships with the binary so validation works before the
// first successful refresh and whenever the local snapshot is unavailable.

//go:embed seed_names.txt
var seedNames string

// SeedWatermark is the date through which the bundled list is complete.
const SeedWatermark = "01/01/2024"

// SeedList parses the bundled names into a sorted, de-duplicated list.
func SeedList() []string {
	raw := strings.ReplaceAll(seedNames, "\r", "")
	raw = strings.ReplaceAll(raw, "\n", "")
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
