package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownScenario is returned when no file or built-in matches an ID.
var ErrUnknownScenario = errors.New("config: unknown scenario")

// Parse decodes a scenario document. Unknown keys are rejected so typos in
// hand-written files surface instead of silently falling back to defaults.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("config: parse scenario: %w", err)
	}
	return s, nil
}

// Load loads a scenario by ID.
// Search order: customPath -> ~/.battlesim/scenarios/<id>.yaml -> ./scenarios/<id>.yaml -> embedded default
//
// Only a missing file moves on to the next location. A file that exists but
// cannot be read or parsed is an error.
func Load(id, customPath string) (Scenario, error) {
	if customPath != "" {
		s, found, err := loadFile(customPath, id)
		if !found {
			return Scenario{}, fmt.Errorf("config: read scenario %s: %w", customPath, err)
		}
		return s, err
	}

	candidates := []string{filepath.Join("scenarios", id+".yaml")}
	if userPath := userScenarioPath(id + ".yaml"); userPath != "" {
		candidates = append([]string{userPath}, candidates...)
	}
	for _, path := range candidates {
		if s, found, err := loadFile(path, id); found {
			return s, err
		}
	}

	// Use embedded default
	data := GetDefaultYAML(id)
	if data == nil {
		return Scenario{}, fmt.Errorf("%w %q", ErrUnknownScenario, id)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, err
	}
	return finish(s, id)
}

// loadFile reads and validates the scenario at path. found is false only
// when the file does not exist; err then carries the lookup failure.
func loadFile(path, id string) (s Scenario, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Scenario{}, false, err
	}
	if err != nil {
		return Scenario{}, true, fmt.Errorf("config: read scenario %s: %w", path, err)
	}

	s, err = Parse(data)
	if err != nil {
		return Scenario{}, true, fmt.Errorf("%s: %w", path, err)
	}
	s, err = finish(s, id)
	if err != nil {
		return Scenario{}, true, fmt.Errorf("%s: %w", path, err)
	}
	return s, true, nil
}

// finish fills the ID and validates the scenario.
func finish(s Scenario, id string) (Scenario, error) {
	if s.ID == "" {
		s.ID = id
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// userScenarioPath returns the path to a user scenario file, or empty if home is unavailable.
func userScenarioPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".battlesim", "scenarios", filename)
}
