package model

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var defaults map[Domain]Fields

func init() {
	parsed, err := parseDefaults(defaultsYAML)
	if err != nil {
		panic(err)
	}
	defaults = parsed
}

func parseDefaults(raw []byte) (map[Domain]Fields, error) {
	var doc map[string]Fields
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content defaults: %w", err)
	}
	out := make(map[Domain]Fields, len(doc))
	for name, fields := range doc {
		d, err := ParseDomain(name)
		if err != nil {
			return nil, err
		}
		out[d] = fields
	}
	for _, d := range AllDomains {
		if _, ok := out[d]; !ok {
			return nil, fmt.Errorf("content defaults missing domain %q", d)
		}
	}
	return out, nil
}

// Defaults returns a fresh copy of the default document for d.
func Defaults(d Domain) Fields {
	return CloneFields(defaults[d])
}
