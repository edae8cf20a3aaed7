package harness

import "github.com/roach88/rangeslider/internal/slider"

// TraceEvent is one committed dispatch in any of the slider's stores.
type TraceEvent struct {
	Store string `json:"store"`
	Seq   int64  `json:"seq"`

	// Applied is the kind the reducer saw. Received is set only when a
	// validator replaced the dispatched action.
	Applied  string `json:"applied"`
	Received string `json:"received,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Frames holds the rendered tree after attach and after every step.
	Frames []string `json:"frames"`

	State slider.State `json:"state"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Frames: []string{},
		Errors: []string{},
	}
}

// AddError records a failed assertion.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many commits of kind store made.
func (r *Result) Count(store, kind string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Store == store && e.Applied == kind {
			n++
		}
	}
	return n
}
