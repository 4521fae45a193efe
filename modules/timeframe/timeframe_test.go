package timeframe

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestToSeconds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		code string
		want int64
	}{
		{"1m", 60},
		{"15m", 900},
		{"4h", 14400},
		{"1d", 86400},
		{"1w", 604800},
		{"1M", 2592000},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			t.Parallel()

			// Arrange
			op, err := ToSeconds.New([]operator.Operand{operator.Literal(cty.StringVal(tc.code))}, nil)
			require.NoError(t, err)

			// Act
			got, err := op.Compute()

			// Assert
			require.NoError(t, err)
			assert.True(t, got.RawEquals(cty.NumberIntVal(tc.want)), "got %#v", got)
		})
	}
}

func TestToSeconds_UnknownCode(t *testing.T) {
	t.Parallel()

	op, err := ToSeconds.New([]operator.Operand{operator.Literal(cty.StringVal("2m"))}, nil)
	require.NoError(t, err)

	_, err = op.Compute()

	var target *operator.InvalidArgumentError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "time_frame", target.Parameter)
	assert.Contains(t, err.Error(), `must be one of "1m"`)
}

func TestFramesAndCodesAgree(t *testing.T) {
	t.Parallel()

	require.Len(t, codes, len(Frames))
	for i := 1; i < len(codes); i++ {
		assert.Less(t, Frames[codes[i-1]], Frames[codes[i]], codes[i])
	}
}

func TestToSeconds_Dependencies(t *testing.T) {
	t.Parallel()

	op, err := ToSeconds.New([]operator.Operand{operator.Literal(cty.StringVal("1m"))}, nil)
	require.NoError(t, err)

	assert.Equal(t, []dependency.Dependency{TimeChannel}, op.Dependencies())
}

func TestNow(t *testing.T) {
	t.Parallel()

	// Arrange
	times := []time.Time{
		time.Unix(1700000000, 500_000_000),
		time.Unix(1700000060, 0),
	}
	calls := 0
	clock := func() time.Time {
		defer func() { calls++ }()
		return times[calls]
	}
	r := registry.New()
	(&Module{Clock: clock}).Register(r)
	class, ok := r.Lookup(operator.LibraryBase, "now")
	require.True(t, ok)
	op, err := class.New(nil, nil)
	require.NoError(t, err)

	// Act & Assert
	_, err = op.Compute()
	require.ErrorIs(t, err, operator.ErrNotPrepared)

	require.NoError(t, op.Prepare(context.Background()))
	first, err := op.Compute()
	require.NoError(t, err)
	again, err := op.Compute()
	require.NoError(t, err)
	assert.True(t, first.RawEquals(cty.NumberFloatVal(1700000000.5)))
	assert.True(t, again.RawEquals(first), "the clock is read once per preparation")

	require.NoError(t, op.Prepare(context.Background()))
	second, err := op.Compute()
	require.NoError(t, err)
	assert.True(t, second.RawEquals(cty.NumberFloatVal(1700000060)))
	assert.Equal(t, []dependency.Dependency{TimeChannel}, op.Dependencies())
}
