package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://fruit-mukbang.local/schemas/"

// inboundSchemas maps each inbound message type to its schema file.
var inboundSchemas = map[string]string{
	TypeUpdateData:  "update_data.schema.json",
	TypeSpawnFruit:  "spawn.schema.json",
	TypeSpawnBanana: "spawn.schema.json",
	TypeClear:       "clear.schema.json",
	TypeResize:      "resize.schema.json",
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	files := map[string]bool{}
	for _, name := range inboundSchemas {
		files[name] = true
	}
	for name := range files {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			schemasErr = fmt.Errorf("protocol: read schema %s: %w", name, err)
			return
		}
		if err := c.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			schemasErr = fmt.Errorf("protocol: add schema %s: %w", name, err)
			return
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(files))
	for name := range files {
		s, err := c.Compile(schemaBase + name)
		if err != nil {
			schemasErr = fmt.Errorf("protocol: compile schema %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
	schemas = compiled
}

// Validate checks raw against the schema of its message type.
func Validate(msgType string, raw []byte) error {
	name, ok := inboundSchemas[msgType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schemas[name].Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, msgType, err)
	}
	return nil
}
