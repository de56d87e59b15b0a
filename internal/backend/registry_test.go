package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct{ name string }

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("a")
	r.Register(&stubGenerator{name: "a"})
	r.Register(&stubGenerator{name: "b"})

	def, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "a", def.Name())

	got, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name())

	_, err = r.Get("missing")
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, r.List())
}

func TestRegistry_MissingDefault(t *testing.T) {
	r := NewRegistry("nope")
	_, err := r.Default()
	assert.Error(t, err)
}
