package protocol

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// clientSchemas validates client -> server messages at the transport
// edge before they reach the world loop.
var clientSchemas = map[string]*jsonschema.Schema{}

func init() {
	for typ, name := range map[string]string{
		TypeHello: "hello",
		TypeInput: "input",
		TypeLook:  "look",
		TypePick:  "pick",
	} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			panic(fmt.Sprintf("protocol: missing schema %s: %v", name, err))
		}
		s, err := jsonschema.CompileString(name+".schema.json", string(raw))
		if err != nil {
			panic(fmt.Sprintf("protocol: compile schema %s: %v", name, err))
		}
		clientSchemas[typ] = s
	}
}

// ValidateClient checks a raw client message of the given type against
// its schema. Unknown types pass; routing rejects them separately.
func ValidateClient(msgType string, raw []byte) error {
	s, ok := clientSchemas[msgType]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
