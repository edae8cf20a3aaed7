package cli

import (
	"fmt"

	"github.com/roach88/rangeslider/internal/engine"
	"github.com/roach88/rangeslider/internal/slider"
)

// Codecs names the supported snapshot encodings.
var Codecs = []string{"json", "yaml"}

func stateCodec(name string) (engine.Codec[slider.State], error) {
	switch name {
	case "json":
		return engine.JSONCodec[slider.State]{}, nil
	case "yaml":
		return engine.YAMLCodec[slider.State]{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q: must be one of %v", name, Codecs)
	}
}
