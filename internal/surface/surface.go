// Package surface is the rendering target views draw into: a small
// in-memory element tree with attribute, style, class and text primitives.
//
// Views only ever touch the Node interface. Element is the implementation used
// by the CLI and tests; its Dump output is deterministic so render traces can
// be compared as golden files.
package surface

import (
	"fmt"
	"html"
	"slices"
	"sort"
	"strings"
)

// Node is a mountable element.
type Node interface {
	Tag() string
	AppendChild(child Node)
	ReplaceChildren(children ...Node)
	Children() []Node
	Parent() Node

	SetAttr(name, value string)
	RemoveAttr(name string)
	Attr(name string) (string, bool)
	SetStyle(property, value string)
	Style(property string) string
	ToggleClass(class string, on bool)
	HasClass(class string) bool
	SetText(text string)
	Text() string

	AddListener(event string, fn Listener)
	Fire(event string, e Event) int
}

// Event is delivered to listeners by Fire.
type Event struct {
	// Value carries text input, such as a typed number or a label's text.
	Value string

	// Ratio is the pointer position along the element, 0 at the start and
	// 1 at the end.
	Ratio float64
}

// Listener handles one event.
type Listener func(e Event)

// Element is the in-memory Node implementation.
//
// Thread-safety: Element is not safe for concurrent use. Views render from the
// single dispatching goroutine.
type Element struct {
	tag       string
	parent    *Element
	children  []*Element
	attrs     map[string]string
	styles    map[string]string
	classes   []string
	text      string
	listeners map[string][]Listener
}

var _ Node = (*Element)(nil)

// NewElement creates a detached element, optionally with initial classes.
func NewElement(tag string, classes ...string) *Element {
	e := &Element{
		tag:       tag,
		attrs:     make(map[string]string),
		styles:    make(map[string]string),
		listeners: make(map[string][]Listener),
	}
	for _, c := range classes {
		e.ToggleClass(c, true)
	}
	return e
}

// Tag returns the element name.
func (e *Element) Tag() string { return e.tag }

// AppendChild moves child under e, detaching it from any previous parent.
// Nodes that are not *Element are ignored.
func (e *Element) AppendChild(child Node) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	c.detach()
	c.parent = e
	e.children = append(e.children, c)
}

// ReplaceChildren removes every child of e and appends children in order.
func (e *Element) ReplaceChildren(children ...Node) {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
	for _, c := range children {
		e.AppendChild(c)
	}
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.detach()
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Children returns the children of e in order.
func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Parent returns the parent of e, or nil.
func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// SetAttr sets an attribute. The attribute "class" is routed to the class
// list so that ToggleClass and SetAttr agree.
func (e *Element) SetAttr(name, value string) {
	if name == "class" {
		e.classes = nil
		for _, c := range strings.Fields(value) {
			e.ToggleClass(c, true)
		}
		return
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute. Removing "class" clears every class.
func (e *Element) RemoveAttr(name string) {
	if name == "class" {
		e.classes = nil
		return
	}
	delete(e.attrs, name)
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	if name == "class" {
		return strings.Join(e.classes, " "), len(e.classes) > 0
	}
	v, ok := e.attrs[name]
	return v, ok
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(property, value string) {
	if value == "" {
		delete(e.styles, property)
		return
	}
	e.styles[property] = value
}

// Style returns an inline style property, or "".
func (e *Element) Style(property string) string {
	return e.styles[property]
}

// ToggleClass adds or removes class. Classes keep their insertion order.
func (e *Element) ToggleClass(class string, on bool) {
	has := slices.Contains(e.classes, class)
	switch {
	case on && !has:
		e.classes = append(e.classes, class)
	case !on && has:
		e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == class })
	}
}

// HasClass reports whether class is set.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// SetText sets the text content rendered before the children.
func (e *Element) SetText(text string) { e.text = text }

// Text returns the text content.
func (e *Element) Text() string { return e.text }

// AddListener registers fn for event. Listeners run in registration order.
func (e *Element) AddListener(event string, fn Listener) {
	e.listeners[event] = append(e.listeners[event], fn)
}

// Fire calls every listener registered for event on e and returns how many
// ran. Events do not bubble.
func (e *Element) Fire(event string, ev Event) int {
	fns := slices.Clone(e.listeners[event])
	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

// FindByClass returns the first element in depth-first order, e included,
// carrying class.
func FindByClass(root Node, class string) Node {
	if root == nil {
		return nil
	}
	if root.HasClass(class) {
		return root
	}
	for _, c := range root.Children() {
		if found := FindByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

// FindAllByClass returns every element carrying class in depth-first order.
func FindAllByClass(root Node, class string) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		if n.HasClass(class) {
			out = append(out, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Dump renders the tree rooted at n as indented markup. Attributes and
// styles are sorted by name; classes keep insertion order.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s<%s%s>", indent, n.Tag(), attrString(n))

	children := n.Children()
	if len(children) == 0 {
		fmt.Fprintf(b, "%s</%s>\n", html.EscapeString(n.Text()), n.Tag())
		return
	}
	b.WriteString("\n")
	if t := n.Text(); t != "" {
		fmt.Fprintf(b, "%s  %s\n", indent, html.EscapeString(t))
	}
	for _, c := range children {
		dump(b, c, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, n.Tag())
}

func attrString(n Node) string {
	e, ok := n.(*Element)
	if !ok {
		return ""
	}
	var parts []string
	if len(e.classes) > 0 {
		parts = append(parts, fmt.Sprintf("class=%q", strings.Join(e.classes, " ")))
	}

	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%q", k, e.attrs[k]))
	}

	if len(e.styles) > 0 {
		props := make([]string, 0, len(e.styles))
		for k := range e.styles {
			props = append(props, k)
		}
		sort.Strings(props)
		decls := make([]string, len(props))
		for i, k := range props {
			decls[i] = k + ": " + e.styles[k]
		}
		parts = append(parts, fmt.Sprintf("style=%q", strings.Join(decls, "; ")))
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
