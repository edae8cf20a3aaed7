// Package slider composes the range-slider widget from the component
// framework.
//
// The tree has three models:
//
//	slider    State, the source of truth; validated, persisted
//	├─ track     TrackState, the scale labels
//	└─ progress  ProgressState, the highlighted range
//
// Only the slider model receives user actions. Every committed slider state
// is forwarded to both children as a Sync action, so each child store holds a
// projection of the slider state and its view re-renders when that projection
// is recomputed.
//
// Event handlers (track clicks, window resizes) hold a handle to the model
// they read, never a copy of its state.
package slider

// Model names, which are also the init-data keys.
const (
	ModelName         = "slider"
	TrackModelName    = "track"
	ProgressModelName = "progress"
)
