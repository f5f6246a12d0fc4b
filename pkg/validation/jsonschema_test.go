package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowSchema = `{
	"type": "object",
	"properties": {
		"interval": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1}
	},
	"required": ["interval", "title"]
}`

func TestValidate_Valid(t *testing.T) {
	sch, err := CompileSchema("row.json", rowSchema)
	require.NoError(t, err)

	assert.NoError(t, Validate(sch, map[string]interface{}{"interval": "maandelijks", "title": "X"}))
}

func TestValidate_Invalid(t *testing.T) {
	sch, err := CompileSchema("row.json", rowSchema)
	require.NoError(t, err)

	err = Validate(sch, map[string]interface{}{"interval": "maandelijks"})
	assert.Error(t, err)
	if err != nil { assert.Contains(t, err.Error(), "missing properties: 'title'") }

	err = Validate(sch, map[string]interface{}{"interval": "", "title": "X"})
	assert.Error(t, err)
}

func TestValidate_NilSchema(t *testing.T) {
	assert.NoError(t, Validate(nil, map[string]interface{}{}))
}

func TestCompileSchema_InvalidSchema(t *testing.T) {
	_, err := CompileSchema("bad.json", `{"type": "object", "properties": {"name": {"type": "str"}}}`)
	assert.Error(t, err)
	if err != nil { assert.Contains(t, err.Error(), "failed to compile JSON schema") }
}
