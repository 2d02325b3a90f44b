// Package config loads the optional jbundle.yaml project file and
// resolves it against CLI flags into an immutable build configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project configuration file looked up in the
// project directory.
const ProjectFileName = "jbundle.yaml"

// ProjectConfig represents a jbundle.yaml file. All values are
// optional and act as defaults for jbundle build flags; pointer fields
// distinguish "absent" from an explicit zero value.
type ProjectConfig struct {
	JavaVersion   *int     `yaml:"java_version"`
	Target        *string  `yaml:"target"`
	JVMArgs       []string `yaml:"jvm_args"`
	Shrink        *bool    `yaml:"shrink"`
	Profile       *string  `yaml:"profile"`
	AppCDS        *bool    `yaml:"appcds"`
	CRaC          *bool    `yaml:"crac"`
	CompactBanner *bool    `yaml:"compact_banner"`
}

// LoadProject reads jbundle.yaml from dir. A missing file is not an
// error: it returns (nil, nil) and resolution falls through to the
// fixed defaults.
func LoadProject(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read project config %q: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return &cfg, nil
}
