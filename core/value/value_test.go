package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/value"
)

func TestTruthiness(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"null", value.Null{}, false},
		{"bool true", value.Bool(true), true},
		{"bool false", value.Bool(false), false},
		{"float zero", value.Float(0), false},
		{"float nan", value.Float(math.NaN()), false},
		{"float nonzero", value.Float(1.5), true},
		{"empty string", value.NewString(""), false},
		{"nonempty string", value.NewString("x"), true},
		{"empty array", value.Array{}, false},
		{"nonempty array", value.Array{value.Bool(true)}, true},
		{"mapping", value.NewMapping(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, value.Truthy(tc.v))
		})
	}
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := value.NewMapping()
	m.Set("b", value.Bool(true))
	m.Set("a", value.Bool(false))
	m.Set("b", value.Bool(false)) // update, must not move position

	require.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, value.Bool(false), v)
}

func TestMappingCloneIsDeepForNestedMappings(t *testing.T) {
	inner := value.NewMapping()
	inner.Set("x", value.Bool(true))
	outer := value.NewMapping()
	outer.Set("inner", inner)

	clone := outer.Clone()
	cloneInner, _ := clone.Get("inner")
	cloneInner.(*value.Mapping).Set("x", value.Bool(false))

	v, _ := inner.Get("x")
	require.Equal(t, value.Bool(true), v, "mutating the clone must not affect the original")
}
