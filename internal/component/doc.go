// Package component composes Model/View/Controller triples into a reactive
// tree.
//
// Each Component owns one Model (a wrapper around an engine.Store), one View
// (a render target on the surface) and one Controller (pure mapping from the
// model's state to view props). Children are initialised depth-first, parent
// before children:
//
//  1. the model is initialised from its init-data entry
//  2. the view is initialised under the parent view's native node
//  3. each child runs steps 1-3, then the parent links the child's model and
//     subscribes to it, rendering the child's view on every notification
//
// Attach runs Init on the root, mounts the root view, subscribes the root to
// its own model and cold-starts the tree.
//
// Attachment is all-or-nothing. If any model is missing its init data, or any
// store fails to build, every subscription registered so far is cancelled and
// the error is returned.
package component
