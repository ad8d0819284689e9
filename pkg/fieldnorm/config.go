package fieldnorm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bindingFile is the on-disk shape of the normalization binding config:
//
//	normalization:
//	  windows-cli: dotted-prefix
//	  git: identity
type bindingFile struct {
	Normalization map[string]string `yaml:"normalization"`
}

// LoadBindings reads a YAML file mapping server names to strategy names and
// applies the bindings to the registry. A missing file is not an error; the
// registry simply keeps its identity defaults.
func (r *Registry) LoadBindings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("fieldnorm: read bindings %s: %w", path, err)
	}
	var file bindingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("fieldnorm: parse bindings %s: %w", path, err)
	}
	for server, strategy := range file.Normalization {
		r.Bind(server, strategy)
	}
	return nil
}
