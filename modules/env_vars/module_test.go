package env_vars

import (
	"context"
	"testing"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newEnv(t *testing.T, vars map[string]string, operands ...cty.Value) operator.Operator {
	t.Helper()
	r := registry.New()
	(&Module{LookupEnv: func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}}).Register(r)

	class, ok := r.Lookup(LibrarySystem, "env")
	require.True(t, ok)

	ops := make([]operator.Operand, len(operands))
	for i, v := range operands {
		ops[i] = operator.Literal(v)
	}
	op, err := class.New(ops, nil)
	require.NoError(t, err)
	return op
}

func TestEnv(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"RISK": "0.02"}

	testCases := []struct {
		name     string
		operands []cty.Value
		want     cty.Value
		msg      string
	}{
		{
			name:     "set variable",
			operands: []cty.Value{cty.StringVal("RISK")},
			want:     cty.StringVal("0.02"),
		},
		{
			name:     "set variable ignores default",
			operands: []cty.Value{cty.StringVal("RISK"), cty.StringVal("1")},
			want:     cty.StringVal("0.02"),
		},
		{
			name:     "default keeps its type",
			operands: []cty.Value{cty.StringVal("MISSING"), cty.NumberIntVal(5)},
			want:     cty.NumberIntVal(5),
		},
		{
			name:     "unset without default",
			operands: []cty.Value{cty.StringVal("MISSING")},
			msg:      `environment variable "MISSING" is not set`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			op := newEnv(t, vars, tc.operands...)

			// Act
			err := op.Prepare(context.Background())

			// Assert
			if tc.msg != "" {
				require.ErrorContains(t, err, tc.msg)
				return
			}
			require.NoError(t, err)
			got, err := op.Compute()
			require.NoError(t, err)
			assert.True(t, got.RawEquals(tc.want), "got %#v", got)
		})
	}
}

func TestEnv_NotPrepared(t *testing.T) {
	t.Parallel()

	op := newEnv(t, nil, cty.StringVal("RISK"))

	_, err := op.Compute()

	require.ErrorIs(t, err, operator.ErrNotPrepared)
}

func TestEnv_IsInSystemLibrary(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)

	assert.Len(t, r.GetAllOperators(LibrarySystem), 1)
	assert.Len(t, r.GetAllOperators(operator.LibraryBase), 0)
}
