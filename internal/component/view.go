package component

import "github.com/roach88/rangeslider/internal/surface"

// View is a render target on the surface.
type View interface {
	// Init builds the view's native node and mounts it under parent when
	// parent is not nil. Init is called once.
	Init(parent surface.Node) error

	// Native returns the node built by Init.
	Native() surface.Node

	// Render pushes props into the native node. Views may keep local
	// presentation state but never touch a store.
	Render(props Props)
}

// ElementView is a View with no behaviour beyond owning one element. It is
// embedded by concrete views and used on its own for structural containers.
type ElementView struct {
	Tag     string
	Classes []string

	node surface.Node
}

// Init implements View.
func (v *ElementView) Init(parent surface.Node) error {
	v.node = surface.NewElement(v.Tag, v.Classes...)
	if parent != nil {
		parent.AppendChild(v.node)
	}
	return nil
}

// Native implements View.
func (v *ElementView) Native() surface.Node { return v.node }

// Render implements View. ElementView ignores props.
func (v *ElementView) Render(Props) {}
