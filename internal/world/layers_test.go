package world

import (
	"fmt"
	"testing"

	"github.com/san-kum/gravwell/internal/grab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayersDefine(t *testing.T) {
	l, err := NewLayers("Grabbable", "Scenery")
	require.NoError(t, err)

	assert.Equal(t, 0, l.NameToLayer(DefaultLayer))
	assert.Equal(t, 1, l.NameToLayer("Grabbable"))
	assert.Equal(t, 2, l.NameToLayer("Scenery"))
	assert.Equal(t, -1, l.NameToLayer("Missing"))
	assert.Equal(t, -1, l.NameToLayer(""))

	i, err := l.Define("Grabbable")
	require.NoError(t, err)
	assert.Equal(t, 1, i, "redefining returns the existing slot")
	assert.Equal(t, []string{"Default", "Grabbable", "Scenery"}, l.Names())
}

func TestLayersRejectBlankName(t *testing.T) {
	l, err := NewLayers()
	require.NoError(t, err)

	_, err = l.Define("   ")
	assert.ErrorIs(t, err, ErrLayerName)
}

func TestLayersFull(t *testing.T) {
	l, err := NewLayers()
	require.NoError(t, err)
	for i := 1; i < MaxLayers; i++ {
		_, err := l.Define(fmt.Sprintf("L%d", i))
		require.NoError(t, err)
	}

	_, err = l.Define("one-too-many")
	assert.ErrorIs(t, err, ErrLayersFull)
}

func TestLayersMask(t *testing.T) {
	l, err := NewLayers("A", "B")
	require.NoError(t, err)

	m, err := l.Mask("A", "B")
	require.NoError(t, err)
	assert.Equal(t, grab.Mask(0b110), m)

	_, err = l.Mask("C")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}
