package ir

import (
	"fmt"
	"sort"
	"sync"
)

// DecodeFunc turns a boundary payload into a typed action.
type DecodeFunc func(v Value) (Action, error)

// Registry maps action kinds to decoders. It is the framework boundary where
// untyped input (scenario files, CLI arguments) becomes typed actions.
//
// Thread-safety: Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[Kind]DecodeFunc
}

// NewRegistry creates a registry that already understands the reserved kinds.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[Kind]DecodeFunc)}
	r.decoders[KindColdStart] = func(Value) (Action, error) { return ColdStart{}, nil }
	r.decoders[KindValidationRejected] = decodeRejected
	return r
}

// Register adds a decoder for kind. Registering a reserved kind or the same
// kind twice is an error.
func (r *Registry) Register(kind Kind, decode DecodeFunc) error {
	if kind == "" {
		return fmt.Errorf("register action: empty kind")
	}
	if kind.IsReserved() {
		return fmt.Errorf("register action %q: kind is reserved", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decoders[kind]; ok {
		return fmt.Errorf("register action %q: already registered", kind)
	}
	r.decoders[kind] = decode
	return nil
}

// MustRegister is Register for package initialisation; it panics on error.
func (r *Registry) MustRegister(kind Kind, decode DecodeFunc) {
	if err := r.Register(kind, decode); err != nil {
		panic(err)
	}
}

// Decode converts (kind, payload) into an action. Kinds without a decoder
// become Generic so that reducers can ignore them.
func (r *Registry) Decode(kind Kind, v Value) (Action, error) {
	if v == nil {
		v = Null{}
	}
	r.mu.RLock()
	decode, ok := r.decoders[kind]
	r.mu.RUnlock()
	if !ok {
		return Generic{Type: kind, Value: v}, nil
	}
	a, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("decode action %q: %w", kind, err)
	}
	return a, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.decoders))
	for k := range r.decoders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func decodeRejected(v Value) (Action, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("payload must be an object with a \"from\" field")
	}
	from, ok := obj["from"].(String)
	if !ok {
		return nil, fmt.Errorf("field \"from\" must be a string")
	}
	return ValidationRejected{From: Kind(from)}, nil
}

// NumberPayload is a helper for decoders of single-number actions. Strings
// are not coerced; a payload that is not a Number is an error.
func NumberPayload(v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, fmt.Errorf("payload must be a number, got %T", v)
	}
	return float64(n), nil
}

// BoolPayload is a helper for decoders of single-flag actions.
func BoolPayload(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, fmt.Errorf("payload must be a bool, got %T", v)
	}
	return bool(b), nil
}

// StringPayload is a helper for decoders of single-string actions.
func StringPayload(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", fmt.Errorf("payload must be a string, got %T", v)
	}
	return string(s), nil
}
