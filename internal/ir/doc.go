// Package ir provides the action and value types shared by the state engine,
// the component tree and the applications built on them.
//
// ir imports nothing internal. Every other internal package may import it,
// which keeps actions the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Actions are immutable value types tagged by Kind
//   - Reducers switch over concrete action types, never over Kind strings
//   - Generic is produced only at the framework boundary (scenario files, CLI)
//     for kinds no registered decoder understands
//   - Value is the only untyped payload representation; it rejects NaN and
//     infinities at serialization time
package ir
