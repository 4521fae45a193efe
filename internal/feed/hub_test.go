package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type fakeSource struct {
	name   string
	value  cty.Value
	err    error
	calls  int
	closed bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Refresh(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeSource) Latest() (cty.Value, bool) { return f.value, f.value != cty.NilVal }

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func TestHub_AddAndLookup(t *testing.T) {
	t.Parallel()

	// Arrange
	h := NewHub()

	// Act
	require.NoError(t, h.Add(NewStatic("b", cty.NumberIntVal(1))))
	require.NoError(t, h.Add(NewStatic("a", cty.NilVal)))
	err := h.Add(NewStatic("a", cty.NilVal))

	// Assert
	require.ErrorContains(t, err, `feed "a" is already defined`)
	assert.Equal(t, []string{"a", "b"}, h.Names())
	v, ok := h.Latest("b")
	require.True(t, ok)
	assert.True(t, v.RawEquals(cty.NumberIntVal(1)))
	_, ok = h.Latest("a")
	assert.False(t, ok, "a static feed without a value is not filled")
	_, ok = h.Latest("missing")
	assert.False(t, ok)
}

func TestHub_Filled(t *testing.T) {
	t.Parallel()

	// Arrange
	clock := dependency.Dependency{"channel": "time_channel"}
	h := NewHub(clock, clock)
	require.NoError(t, h.Add(NewStatic("price", cty.NumberIntVal(1))))
	require.NoError(t, h.Add(NewStatic("volume", cty.NilVal)))

	// Act
	filled := h.Filled()

	// Assert
	assert.Equal(t, []dependency.Dependency{clock, Dependency("price")}, filled.Dependencies())
	assert.True(t, dependency.NewBundle(Dependency("price")).IsFilledBy(filled))
	assert.False(t, dependency.NewBundle(Dependency("volume")).IsFilledBy(filled))
}

func TestHub_Publish(t *testing.T) {
	t.Parallel()

	h := NewHub()
	require.NoError(t, h.Add(&fakeSource{name: "remote"}))

	require.NoError(t, h.Publish("spread", cty.NumberIntVal(3)))
	require.NoError(t, h.Publish("spread", cty.NumberIntVal(4)))
	err := h.Publish("remote", cty.True)

	require.ErrorContains(t, err, "cannot be published")
	v, ok := h.Latest("spread")
	require.True(t, ok)
	assert.True(t, v.RawEquals(cty.NumberIntVal(4)))
}

func TestHub_Refresh(t *testing.T) {
	t.Parallel()

	// Arrange
	boom := errors.New("boom")
	good := &fakeSource{name: "good"}
	bad := &fakeSource{name: "bad", err: boom}
	h := NewHub()
	require.NoError(t, h.Add(good))
	require.NoError(t, h.Add(bad))

	// Act
	err := h.RefreshAll(context.Background())

	// Assert
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `failed to refresh feed "bad"`)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, 1, bad.calls)
	assert.ErrorIs(t, h.Refresh(context.Background(), "nope"), ErrUnknownFeed)
}

func TestHub_Close(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "x"}
	h := NewHub()
	require.NoError(t, h.Add(src))
	require.NoError(t, h.Add(NewStatic("y", cty.NilVal)))

	require.NoError(t, h.Close())

	assert.True(t, src.closed)
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	h := NewHub()
	got, ok := FromContext(WithHub(context.Background(), h))
	require.True(t, ok)
	assert.Same(t, h, got)
}
