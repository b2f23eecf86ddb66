package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// ApplyOverrides sets individual fields from "section.field=value" assignments, for example
// "growth.levels=4" or "growth.attractor.z=15". Keys use the JSON field names. The result is
// validated.
func ApplyOverrides(cfg *Config, assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}
	tree := map[string]interface{}{}
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return errors.Errorf("override %q must look like key=value", a)
		}
		parts := strings.Split(key, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Metadata:         &md,
		Result:           cfg,
	})
	if err != nil {
		return errors.Wrap(err, "error creating decoder")
	}
	if err := decoder.Decode(tree); err != nil {
		return errors.Wrap(err, "cannot apply overrides")
	}
	return cfg.Validate("")
}
