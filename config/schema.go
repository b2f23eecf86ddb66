package config

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the config document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return r.Reflect(&Config{})
}
