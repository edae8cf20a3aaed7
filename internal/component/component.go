package component

import (
	"fmt"
	"log/slog"

	"github.com/roach88/rangeslider/internal/engine"
	"github.com/roach88/rangeslider/internal/initdata"
	"github.com/roach88/rangeslider/internal/surface"
)

// Component is one node of the tree.
type Component struct {
	Model      Model
	View       View
	Controller Controller
	Children   []*Component

	// subs holds the subscriptions this component registered, on its own
	// model (root only) and on each child's model.
	subs     []*engine.Subscription
	attached surface.Node
	logger   *slog.Logger
}

// New creates a component. controller may be nil for views without props.
func New(model Model, view View, controller Controller, children ...*Component) *Component {
	return &Component{
		Model:      model,
		View:       view,
		Controller: controller,
		Children:   children,
		logger:     slog.Default(),
	}
}

// Init initialises the subtree rooted at c, mounting views under parent's
// native node. On failure every subscription registered by the subtree is
// cancelled and the error is returned.
func (c *Component) Init(data initdata.Data, parent View) error {
	if err := c.init(data, parent); err != nil {
		c.release()
		return err
	}
	return nil
}

func (c *Component) init(data initdata.Data, parent View) error {
	name := c.Model.Name()
	entry, ok := data.Lookup(name)
	if !ok {
		return &InitError{Code: ErrCodeMissingInitData, Model: name}
	}
	if err := c.Model.Init(entry); err != nil {
		return err
	}

	var mount surface.Node
	if parent != nil {
		mount = parent.Native()
	}
	if err := c.View.Init(mount); err != nil {
		return &InitError{Code: ErrCodeViewFailed, Model: name, Err: err}
	}

	for _, child := range c.Children {
		if err := child.init(data, c.View); err != nil {
			return err
		}
		c.Model.Link(child.Model)
		if err := c.AddSubscriber(child); err != nil {
			return &InitError{Code: ErrCodeViewFailed, Model: child.Model.Name(), Err: err}
		}
	}

	c.logger.Debug("component initialized", "model", name, "children", len(c.Children))
	return nil
}

// AddSubscriber subscribes c to target's model. On every notification the
// target's controller maps the state and the target's view renders it.
//
// The first render happens synchronously. A props collision on that render
// is returned; a collision on a later render panics, since the controller
// changed shape after attachment.
func (c *Component) AddSubscriber(target *Component) error {
	first, err := props(target.Controller, target.Model.State(), target.Model.Dispatch)
	if err != nil {
		return fmt.Errorf("render %s: %w", target.Model.Name(), err)
	}

	initial := true
	sub := target.Model.Subscribe(func(state any) {
		if initial {
			initial = false
			target.View.Render(first)
			return
		}
		p, err := props(target.Controller, state, target.Model.Dispatch)
		if err != nil {
			panic(fmt.Errorf("render %s: %w", target.Model.Name(), err))
		}
		target.View.Render(p)
	})
	c.subs = append(c.subs, sub)
	return nil
}

// Refresh renders c's view from its model's current state, outside of any
// notification. Event handlers use it to redraw after layout changes.
func (c *Component) Refresh() error {
	p, err := props(c.Controller, c.Model.State(), c.Model.Dispatch)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", c.Model.Name(), err)
	}
	c.View.Render(p)
	return nil
}

// Attach initialises the tree, mounts the root view under root, subscribes
// the root component to its own model and cold-starts every model.
func (c *Component) Attach(root surface.Node, data initdata.Data) error {
	if err := c.Init(data, nil); err != nil {
		return err
	}
	if root != nil {
		root.AppendChild(c.View.Native())
		c.attached = root
	}
	if err := c.AddSubscriber(c); err != nil {
		c.Detach()
		return &InitError{Code: ErrCodeViewFailed, Model: c.Model.Name(), Err: err}
	}
	if err := c.Model.ColdStart(); err != nil {
		c.Detach()
		return fmt.Errorf("attach %s: %w", c.Model.Name(), err)
	}
	return nil
}

// Detach cancels every subscription in the tree, unlinks every model and
// unmounts the root view.
func (c *Component) Detach() {
	c.release()
	if c.attached != nil {
		c.attached.ReplaceChildren(without(c.attached.Children(), c.View.Native())...)
		c.attached = nil
	}
}

func (c *Component) release() {
	for _, child := range c.Children {
		child.release()
	}
	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil
	c.Model.Unlink()
}

// Subscriptions returns how many subscriptions the subtree currently holds.
func (c *Component) Subscriptions() int {
	n := len(c.subs)
	for _, child := range c.Children {
		n += child.Subscriptions()
	}
	return n
}

func without(nodes []surface.Node, drop surface.Node) []surface.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
