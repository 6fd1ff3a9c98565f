package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestProject is one entry in a project-import manifest: a YAML file
// listing several projects by name and repository path. LoadManifest
// parses such a file; tidyflowctl does not read manifests and imports one
// project per `projects import` invocation. Grounded in the teacher's
// internal/config/wing.go YAML settings pattern.
type ManifestProject struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Manifest is the top-level shape of a project-import manifest file.
type Manifest struct {
	Projects []ManifestProject `yaml:"projects"`
}

// LoadManifest reads and parses a YAML project-import manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
