package descriptor

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns a JSON Schema for devshell.json, suitable for editor
// integration via `snekctl schema`.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true}
	sch := r.Reflect(&Descriptor{})
	sch.Title = "snekctl dev shell descriptor"
	sch.Description = "Declarative development shell: pinned package snapshot, tools, and projected environment variables."
	return sch
}

// MarshalSchema indents the schema to JSON bytes.
func MarshalSchema(sch *jsonschema.Schema) ([]byte, error) {
	return json.MarshalIndent(sch, "", "  ")
}
