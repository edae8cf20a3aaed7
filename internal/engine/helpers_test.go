package engine

import (
	"github.com/roach88/rangeslider/internal/ir"
)

// inc is the counter action used throughout these tests.
type inc struct{}

func (inc) Kind() ir.Kind { return "INC" }

// setTo carries a numeric payload, so RejectNaN inspects it.
type setTo struct{ N float64 }

func (setTo) Kind() ir.Kind     { return "SET" }
func (a setTo) Number() float64 { return a.N }

// counter returns the INC reducer and a pointer to its call count.
func counter() (Reducer[int], *int) {
	calls := 0
	return func(a ir.Action, s int) int {
		calls++
		switch act := a.(type) {
		case inc:
			return s + 1
		case setTo:
			return int(act.N)
		}
		return s
	}, &calls
}

// tagged is a state that records which action the reducer last saw.
type tagged struct {
	N    int
	Last ir.Kind
	From ir.Kind
}

func taggingReducer(a ir.Action, s tagged) tagged {
	s.Last = a.Kind()
	switch act := a.(type) {
	case inc:
		s.N++
	case setTo:
		s.N = int(act.N)
	case ir.ValidationRejected:
		s.From = act.From
	}
	return s
}
