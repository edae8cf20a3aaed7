package slider

import (
	"log/slog"

	"github.com/roach88/rangeslider/internal/component"
	"github.com/roach88/rangeslider/internal/surface"
)

// ResizeHandler redraws the track and corrects thumb positions after the
// window is resized.
//
// It holds the components, not their state, and every call re-reads each
// model's current state, so a resize after any number of dispatches draws
// the latest values.
type ResizeHandler struct {
	Components []*component.Component
	Logger     *slog.Logger

	active bool
}

// Handle implements the resize listener.
func (h *ResizeHandler) Handle(surface.Event) {
	if !h.active {
		return
	}
	for _, c := range h.Components {
		if err := c.Refresh(); err != nil {
			h.logger().Error("resize refresh failed", "model", c.Model.Name(), "error", err)
		}
	}
}

func (h *ResizeHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
