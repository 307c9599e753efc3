package config

import "github.com/invopop/jsonschema"

// JSONSchema describes Duration as a Go duration string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Go duration string, e.g. \"30s\" or \"1m30s\"",
	}
}

// JSONSchema describes ChatMode as one of its wire names.
func (ChatMode) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{"", ChatModeStudent.String(), ChatModePro.String()},
	}
}
