package component

import (
	"fmt"
	"maps"
	"slices"
)

// Props are the render inputs a controller derives for a view.
type Props map[string]any

// Merge returns a new Props holding p and other. Keys present in both are
// reported as ErrPropsCollision.
func (p Props) Merge(other Props) (Props, error) {
	out := make(Props, len(p)+len(other))
	maps.Copy(out, p)
	var dup []string
	for k, v := range other {
		if _, ok := out[k]; ok {
			dup = append(dup, k)
			continue
		}
		out[k] = v
	}
	if len(dup) > 0 {
		slices.Sort(dup)
		return nil, fmt.Errorf("%w: %v", ErrPropsCollision, dup)
	}
	return out, nil
}

// Prop returns p[key] as T.
func Prop[T any](p Props, key string) (T, bool) {
	v, ok := p[key].(T)
	return v, ok
}

// Controller maps a model's state and dispatcher to view props.
type Controller interface {
	MapState(state any) Props
	MapDispatch(dispatch DispatchFunc) Props
}

// ControllerFuncs adapts typed mapping functions to Controller. Either
// function may be nil.
type ControllerFuncs[S any] struct {
	State    func(state S) Props
	Dispatch func(dispatch DispatchFunc) Props
}

var _ Controller = ControllerFuncs[int]{}

// MapState implements Controller. It panics if state is not an S, which
// means the controller was paired with the wrong model.
func (c ControllerFuncs[S]) MapState(state any) Props {
	if c.State == nil {
		return Props{}
	}
	s, ok := state.(S)
	if !ok {
		var zero S
		panic(fmt.Sprintf("component: controller for %T received %T", zero, state))
	}
	return c.State(s)
}

// MapDispatch implements Controller.
func (c ControllerFuncs[S]) MapDispatch(dispatch DispatchFunc) Props {
	if c.Dispatch == nil {
		return Props{}
	}
	return c.Dispatch(dispatch)
}

// props derives the render props for a model state. A nil controller yields
// empty props.
func props(c Controller, state any, dispatch DispatchFunc) (Props, error) {
	if c == nil {
		return Props{}, nil
	}
	return c.MapState(state).Merge(c.MapDispatch(dispatch))
}
