package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/schema"
)

func TestValidateInputString(t *testing.T) {
	v := schema.NewValidator()
	err := v.ValidateInput(&schema.ParamSchema{Kind: schema.StringKind}, "anything")
	require.NoError(t, err)
}

func TestValidateInputNumber(t *testing.T) {
	v := schema.NewValidator()
	require.NoError(t, v.ValidateInput(&schema.ParamSchema{Kind: schema.NumberKind}, "42"))
	require.Error(t, v.ValidateInput(&schema.ParamSchema{Kind: schema.NumberKind}, "nope"))
}

func TestValidateInputBoolean(t *testing.T) {
	v := schema.NewValidator()
	require.NoError(t, v.ValidateInput(&schema.ParamSchema{Kind: schema.BooleanKind}, "true"))
	require.Error(t, v.ValidateInput(&schema.ParamSchema{Kind: schema.BooleanKind}, "maybe"))
}

func TestValidateInputEnum(t *testing.T) {
	v := schema.NewValidator()
	p := &schema.ParamSchema{Kind: schema.EnumKind, Enum: []string{"a", "b"}}
	require.NoError(t, v.ValidateInput(p, "a"))
	require.Error(t, v.ValidateInput(p, "c"))
}

func TestValidateInputCachesCompiledSchema(t *testing.T) {
	v := schema.NewValidator()
	p := &schema.ParamSchema{Kind: schema.StringKind}
	require.NoError(t, v.ValidateInput(p, "x"))
	require.NoError(t, v.ValidateInput(p, "y")) // exercises the cache path
}
