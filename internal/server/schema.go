package server

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed schemas/create_bug.json
	createBugSchemaJSON []byte

	//go:embed schemas/patch_bug.json
	patchBugSchemaJSON []byte
)

var (
	createBugSchema = mustCompileSchema("create_bug.json", createBugSchemaJSON)
	patchBugSchema  = mustCompileSchema("patch_bug.json", patchBugSchemaJSON)
)

// bodySchema is a compiled JSON schema for a request body.
type bodySchema struct {
	schema *gojsonschema.Schema
}

func mustCompileSchema(name string, raw []byte) *bodySchema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("server: compile embedded schema %s: %v", name, err))
	}
	return &bodySchema{schema: schema}
}

// validate returns one message per validation failure, or nil if body is valid.
func (b *bodySchema) validate(body []byte) []string {
	result, err := b.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// body is not JSON at all
		return []string{fmt.Sprintf("invalid JSON: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" || field == "" {
			field = desc.Context().String()
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return problems
}
