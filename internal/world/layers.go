package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/gravwell/internal/grab"
)

// MaxLayers is the number of addressable layers, one per mask bit.
const MaxLayers = 32

// DefaultLayer is always defined at index 0.
const DefaultLayer = "Default"

var (
	ErrLayersFull    = errors.New("world: no free layer slots")
	ErrLayerName     = errors.New("world: invalid layer name")
	ErrUnknownLayer  = errors.New("world: unknown layer")
	ErrInvalidRadius = errors.New("world: radius must be positive")
)

// Layers names the collision layers of a world.
type Layers struct {
	names [MaxLayers]string
}

func NewLayers(names ...string) (*Layers, error) {
	l := &Layers{}
	l.names[0] = DefaultLayer
	for _, name := range names {
		if _, err := l.Define(name); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Define assigns name to the first free slot. Defining an existing name
// returns its index.
func (l *Layers) Define(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, ErrLayerName
	}
	if i := l.NameToLayer(name); i >= 0 {
		return i, nil
	}
	for i := range l.names {
		if l.names[i] == "" {
			l.names[i] = name
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: cannot define %q", ErrLayersFull, name)
}

// NameToLayer returns the layer index of name, or -1.
func (l *Layers) NameToLayer(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range l.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (l *Layers) LayerName(i int) string {
	if i < 0 || i >= MaxLayers {
		return ""
	}
	return l.names[i]
}

// Mask combines the named layers. Unknown names are an error.
func (l *Layers) Mask(names ...string) (grab.Mask, error) {
	var m grab.Mask
	for _, name := range names {
		i := l.NameToLayer(name)
		if i < 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
		}
		m |= grab.MaskOf(i)
	}
	return m, nil
}

func (l *Layers) Names() []string {
	var out []string
	for _, n := range l.names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
