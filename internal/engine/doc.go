// Package engine implements the reactive state container behind every
// component model.
//
// A Store owns exactly one state value. Every change goes through Dispatch,
// which runs a fixed pipeline and then notifies subscribers:
//
//  1. Validators, in registration order, may replace the action
//  2. The reducer computes the candidate next state
//  3. Post-plugins, in registration order, transform the candidate
//  4. The candidate is committed as the current state
//  5. A snapshot of the listener list is notified in insertion order
//
// Nothing is committed until every stage has returned. A failing post-plugin
// leaves the previous state in place and notifies nobody; a panicking reducer
// unwinds before step 4 for the same reason.
//
// EXECUTION MODEL:
//
// A Store is single-threaded and not safe for concurrent use. Dispatch runs
// to completion before it returns, including nested dispatches made by
// listeners. External asynchronous triggers (input, resize, timers) must be
// serialised onto one goroutine; Loop does that.
//
// Re-entrancy: a listener may call Dispatch. The nested dispatch commits and
// notifies its own snapshot before the outer pass resumes. The outer pass keeps
// iterating the snapshot it took before notifying, so listeners added or
// cancelled meanwhile do not change which listeners it visits. Each listener is
// handed the store's state at the moment it is called, so the last value any
// listener observes is always the latest committed state.
package engine
