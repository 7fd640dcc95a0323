package config

import (
	"embed"
	"path"
	"sort"
	"strings"
)

//go:embed scenarios/*.yaml
var builtinFS embed.FS

// DefaultScenario is the scenario used when none is named.
const DefaultScenario = "duel"

// BuiltinIDs returns the IDs of the embedded scenarios, sorted.
func BuiltinIDs() []string {
	entries, err := builtinFS.ReadDir("scenarios")
	if err != nil {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids
}

// GetDefaultYAML returns the embedded YAML for a scenario, or nil.
func GetDefaultYAML(id string) []byte {
	data, err := builtinFS.ReadFile(path.Join("scenarios", id+".yaml"))
	if err != nil {
		return nil
	}
	return data
}
