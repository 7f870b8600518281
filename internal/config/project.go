package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional snuggle.yaml a project root may carry:
// builtin-type name overrides and reflected host-class registry entries,
// loaded once by the CLI before a compile run starts. The CLI applies
// ReflectedClasses through reflectbridge.ApplyConfig; BuiltinOverrides is
// parsed but not applied to the builtin table. Mirrors the
// teacher's own funxy.yaml-based extension config shape (ext.Config).
type ProjectConfig struct {
	BuiltinOverrides map[string]string      `yaml:"builtin_overrides,omitempty"`
	ReflectedClasses []ReflectedClassConfig `yaml:"reflected_classes,omitempty"`
}

// ReflectedClassConfig declares one host class to register with the
// reflected-type bridge, expressed in terms of the same annotation names
// the bridge recognizes on an in-tree registry entry.
type ReflectedClassConfig struct {
	HostClass           string            `yaml:"host_class"`
	As                  string             `yaml:"as,omitempty"`
	Deny                []string           `yaml:"deny,omitempty"`
	Rename              map[string]string  `yaml:"rename,omitempty"`
	Static              bool               `yaml:"static,omitempty"`
	StaticInstanceField string             `yaml:"static_instance_field,omitempty"`
	AcknowledgeGenerics bool               `yaml:"acknowledge_generics,omitempty"`
}

// LoadProjectConfig reads path as YAML. A missing file is not an error —
// snuggle.yaml is optional; the CLI falls back to the built-in registry
// and builtin table untouched.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
