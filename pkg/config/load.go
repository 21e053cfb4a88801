package config

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"

	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
	"github.com/nasa-fornax/fornax-images/pkg/util/files"
)

//go:embed data/images_schema.json
var schema []byte

// Load reads the config at path. An explicitly given path must exist; an
// empty path means images.yaml in root, falling back to defaults when absent.
func Load(root, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, global.ConfigFilename)
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", path, err)
	}

	exists, err := files.Exists(expanded)
	if err != nil {
		return nil, err
	}
	if !exists {
		if explicit {
			return nil, fmt.Errorf("%s does not exist", expanded)
		}
		console.Debugf("No %s in %s, using the default build order", global.ConfigFilename, root)
		return Default(), nil
	}

	contents, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	cfg, err := FromYAML(expanded, contents)
	if err != nil {
		return nil, err
	}
	console.Debugf("Loaded %s: order %v", expanded, cfg.Order)
	return cfg, nil
}

// FromYAML parses and validates config contents. filename is only used in errors.
func FromYAML(filename string, contents []byte) (*Config, error) {
	asJSON, err := yaml.YAMLToJSON(contents)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if err := validateSchema(filename, asJSON); err != nil {
		return nil, err
	}

	cfg := &Config{Registry: DefaultRegistry}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	cfg.filename = filename
	cfg.complete()
	return cfg, nil
}

func validateSchema(filename string, asJSON []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(asJSON),
	)
	if err != nil {
		return &SchemaError{Filename: filename, Field: "(root)", Message: err.Error()}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return &SchemaError{Filename: filename, Field: first.Field(), Message: first.Description()}
	}
	return nil
}
