package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rangeslider/internal/ir"
	"github.com/roach88/rangeslider/internal/testutil"
)

func newCounter(t *testing.T, opts ...Option[int]) (*Store[int], *int) {
	t.Helper()
	reducer, calls := counter()
	s, err := New(0, reducer, append([]Option[int]{WithID[int]("counter")}, opts...)...)
	require.NoError(t, err)
	return s, calls
}

func TestStore_New_RequiresReducer(t *testing.T) {
	_, err := New[int](0, nil)
	require.Error(t, err)

	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrCodeInvalidStore, re.Code)
}

func TestStore_IncScenario(t *testing.T) {
	s, _ := newCounter(t)

	require.NoError(t, s.ColdStart())
	assert.Equal(t, 0, s.GetState(), "cold start leaves the state unchanged")

	rec := testutil.NewRecorder[int]()
	s.Subscribe(rec.Listen)

	require.NoError(t, s.Dispatch(ir.Generic{Type: "INC", Value: ir.Null{}}))
	require.NoError(t, s.Dispatch(inc{}))

	assert.Equal(t, 2, s.GetState())
	assert.Equal(t, []int{0, 1, 2}, rec.Values())
}

func TestStore_ReducerCallsMatchDispatches(t *testing.T) {
	s, calls := newCounter(t)

	require.NoError(t, s.ColdStart())
	assert.Equal(t, 1, *calls, "cold start is one reducer call")

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Dispatch(inc{}))
		assert.Equal(t, i+2, *calls)
	}
	assert.Equal(t, int64(6), s.Seq())
}

func TestStore_GetStateIsPure(t *testing.T) {
	s, calls := newCounter(t)
	require.NoError(t, s.Dispatch(inc{}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, s.GetState())
	}
	assert.Equal(t, 1, *calls)
}

func TestStore_UnknownActionIsNoop(t *testing.T) {
	s, _ := newCounter(t)
	require.NoError(t, s.Dispatch(ir.Generic{Type: "UNKNOWN", Value: ir.String("x")}))
	assert.Equal(t, 0, s.GetState())
}

func TestStore_NilAction(t *testing.T) {
	s, calls := newCounter(t)
	err := s.Dispatch(nil)

	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrCodeInvalidAction, re.Code)
	assert.Equal(t, 0, *calls)
}

func TestStore_Subscribe_ReplaysCurrentState(t *testing.T) {
	s, _ := newCounter(t)
	require.NoError(t, s.Dispatch(inc{}))
	require.NoError(t, s.Dispatch(inc{}))

	rec := testutil.NewRecorder[int]()
	s.Subscribe(rec.Listen)

	assert.Equal(t, []int{2}, rec.Values(), "late subscriber sees the current snapshot")
	assert.Equal(t, 1, len(s.listeners))
}

func TestStore_Subscribe_InsertionOrder(t *testing.T) {
	s, _ := newCounter(t)
	var log testutil.Log

	for _, name := range []string{"a", "b", "c"} {
		s.Subscribe(func(n int) { log.Add(fmt.Sprintf("%s:%d", name, n)) })
	}
	require.NoError(t, s.Dispatch(inc{}))

	assert.Equal(t, []string{
		"a:0", "b:0", "c:0",
		"a:1", "b:1", "c:1",
	}, log.Entries())
}

func TestStore_Cancel_StopsNotifications(t *testing.T) {
	s, _ := newCounter(t)
	rec := testutil.NewRecorder[int]()
	other := testutil.NewRecorder[int]()

	sub := s.Subscribe(rec.Listen)
	s.Subscribe(other.Listen)

	require.NoError(t, s.Dispatch(inc{}))
	sub.Cancel()
	sub.Cancel()
	require.NoError(t, s.Dispatch(inc{}))

	assert.Equal(t, []int{0, 1}, rec.Values())
	assert.Equal(t, []int{0, 1, 2}, other.Values(), "cancelling one handle must not affect another")
	assert.Equal(t, 1, len(s.listeners))
}

func TestStore_Cancel_SameListenerTwice(t *testing.T) {
	s, _ := newCounter(t)
	rec := testutil.NewRecorder[int]()

	first := s.Subscribe(rec.Listen)
	s.Subscribe(rec.Listen)
	first.Cancel()

	rec.Reset()
	require.NoError(t, s.Dispatch(inc{}))
	assert.Equal(t, []int{1}, rec.Values())
}

func TestSubscription_NilCancel(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Cancel)
}

func TestStore_RejectNaN_ObservedByListeners(t *testing.T) {
	calls := 0
	reducer := func(a ir.Action, s tagged) tagged {
		calls++
		return taggingReducer(a, s)
	}
	s, err := New(tagged{}, reducer, WithValidators[tagged](RejectNaN))
	require.NoError(t, err)

	rec := testutil.NewRecorder[tagged]()
	s.Subscribe(rec.Listen)

	require.NoError(t, s.Dispatch(setTo{N: math.NaN()}))
	require.NoError(t, s.Dispatch(ir.Generic{Type: "SET", Value: ir.Number(math.NaN())}))
	require.NoError(t, s.Dispatch(setTo{N: 4}))

	got := rec.Values()
	require.Len(t, got, 4)
	assert.Equal(t, tagged{Last: ir.KindValidationRejected, From: "SET"}, got[1])
	assert.Equal(t, tagged{Last: ir.KindValidationRejected, From: "SET"}, got[2])
	assert.Equal(t, tagged{N: 4, Last: "SET", From: "SET"}, got[3])
	assert.Equal(t, 3, calls, "rejected actions still reach the reducer, as the marker")
}

func TestStore_ValidatorsRunInOrder(t *testing.T) {
	var log testutil.Log
	first := func(a ir.Action) ir.Action {
		log.Add("first:" + string(a.Kind()))
		return inc{}
	}
	second := func(a ir.Action) ir.Action {
		log.Add("second:" + string(a.Kind()))
		return a
	}

	s, _ := newCounter(t, WithValidators[int](first, second))
	require.NoError(t, s.Dispatch(setTo{N: 10}))

	assert.Equal(t, []string{"first:SET", "second:INC"}, log.Entries())
	assert.Equal(t, 1, s.GetState(), "second validator received the replacement")
}

func TestStore_RejectKinds(t *testing.T) {
	s, err := New(tagged{}, taggingReducer, WithValidators[tagged](RejectKinds("INC")))
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(inc{}))
	assert.Equal(t, tagged{Last: ir.KindValidationRejected, From: "INC"}, s.GetState())
}

func TestStore_ValidatorReturningNil(t *testing.T) {
	s, calls := newCounter(t, WithValidators[int](func(ir.Action) ir.Action { return nil }))

	err := s.Dispatch(inc{})
	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrCodeInvalidAction, re.Code)
	assert.Equal(t, "INC", re.Kind)
	assert.Equal(t, 0, *calls)
}

func TestStore_PluginOrderAndCounts(t *testing.T) {
	var log testutil.Log
	plugin := func(name string, delta int) Plugin[int] {
		return func(s int) (int, error) {
			log.Add(fmt.Sprintf("%s(%d)", name, s))
			return s + delta, nil
		}
	}

	reducer := func(a ir.Action, s int) int {
		log.Add(fmt.Sprintf("reduce(%d)", s))
		if a.Kind() == "INC" {
			return s + 1
		}
		return s
	}

	s, err := New(0, reducer, WithPlugins(Plugins[int]{
		Pre:  []Plugin[int]{plugin("pre1", 10), plugin("pre2", 100)},
		Post: []Plugin[int]{plugin("post1", 1000), plugin("post2", 0)},
	}))
	require.NoError(t, err)
	assert.Equal(t, 110, s.GetState())
	assert.Equal(t, []string{"pre1(0)", "pre2(10)"}, log.Entries())

	require.NoError(t, s.ColdStart())
	require.NoError(t, s.Dispatch(inc{}))

	assert.Equal(t, []string{
		"pre1(0)", "pre2(10)",
		"reduce(110)", "post1(110)", "post2(1110)",
		"reduce(1110)", "post1(1111)", "post2(2111)",
	}, log.Entries())
	assert.Equal(t, 2111, s.GetState())
}

func TestStore_PreAndPostOptionsAppend(t *testing.T) {
	double := func(s int) (int, error) { return s * 2, nil }
	addOne := func(s int) (int, error) { return s + 1, nil }

	reducer, _ := counter()
	s, err := New(1, reducer,
		WithPre(double), WithPre(addOne),
		WithPost(addOne), WithPost(double),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, s.GetState())

	require.NoError(t, s.Dispatch(inc{}))
	assert.Equal(t, 10, s.GetState(), "(3+1+1)*2")
}

func TestStore_PreFailureAbortsNew(t *testing.T) {
	boom := errors.New("boom")
	reducer, _ := counter()

	_, err := New(0, reducer, WithPre(func(int) (int, error) { return 0, boom }))
	require.Error(t, err)
	assert.True(t, IsPluginError(err))
	assert.ErrorIs(t, err, boom)
}

func TestStore_PostFailureDoesNotCommit(t *testing.T) {
	boom := errors.New("disk full")
	fail := false
	post := func(s int) (int, error) {
		if fail {
			return 0, boom
		}
		return s, nil
	}

	s, _ := newCounter(t, WithPost(post))
	rec := testutil.NewRecorder[int]()
	s.Subscribe(rec.Listen)
	require.NoError(t, s.Dispatch(inc{}))

	fail = true
	err := s.Dispatch(inc{})
	require.Error(t, err)
	assert.True(t, IsPluginError(err))
	assert.ErrorIs(t, err, boom)

	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "counter", re.StoreID)
	assert.Equal(t, "INC", re.Kind)

	assert.Equal(t, 1, s.GetState(), "failed dispatch must not commit")
	assert.Equal(t, []int{0, 1}, rec.Values(), "failed dispatch must not notify")
	assert.Equal(t, int64(1), s.Seq(), "failed dispatch must not advance the clock")
}

func TestStore_ReducerPanicDoesNotCommit(t *testing.T) {
	reducer := func(a ir.Action, s int) int {
		if a.Kind() == "BOOM" {
			panic("reducer bug")
		}
		return s + 1
	}
	s, err := New(0, reducer)
	require.NoError(t, err)
	require.NoError(t, s.Dispatch(inc{}))

	assert.Panics(t, func() { _ = s.Dispatch(ir.Generic{Type: "BOOM", Value: ir.Null{}}) })
	assert.Equal(t, 1, s.GetState())
}

func TestStore_ColdStartExactlyOnce(t *testing.T) {
	s, calls := newCounter(t)
	assert.False(t, s.ColdStarted())

	require.NoError(t, s.ColdStart())
	assert.True(t, s.ColdStarted())

	err := s.ColdStart()
	require.Error(t, err)
	assert.True(t, IsColdStartRepeated(err))
	assert.Equal(t, 1, *calls, "repeated cold start must not dispatch")
}

func TestStore_ColdStartRetryAfterFailure(t *testing.T) {
	fail := true
	post := func(s int) (int, error) {
		if fail {
			return s, errors.New("unavailable")
		}
		return s, nil
	}
	s, _ := newCounter(t, WithPost(post))

	require.Error(t, s.ColdStart())
	assert.False(t, s.ColdStarted())

	fail = false
	require.NoError(t, s.ColdStart())
	assert.True(t, s.ColdStarted())
}

func TestStore_ReentrantDispatch(t *testing.T) {
	s, _ := newCounter(t)
	var log testutil.Log

	var late *Subscription
	s.Subscribe(func(n int) {
		log.Add(fmt.Sprintf("a:%d", n))
		if n == 1 {
			require.NoError(t, s.Dispatch(inc{}))
		}
	})
	s.Subscribe(func(n int) {
		log.Add(fmt.Sprintf("b:%d", n))
		if n >= 1 && late == nil {
			late = s.Subscribe(func(n int) { log.Add(fmt.Sprintf("late:%d", n)) })
		}
	})

	require.NoError(t, s.Dispatch(inc{}))

	// The outer pass visits a, which dispatches. The nested pass runs a and
	// b to completion (b subscribes late, which replays immediately). The
	// outer pass then resumes with b only: late was not in its snapshot.
	assert.Equal(t, []string{
		"a:0", "b:0",
		"a:1",
		"a:2", "b:2", "late:2",
		"b:2",
	}, log.Entries())
	assert.Equal(t, 2, s.GetState())
	assert.Equal(t, 3, len(s.listeners))
}

func TestStore_CancelDuringNotification(t *testing.T) {
	s, _ := newCounter(t)
	var log testutil.Log

	var victim *Subscription
	s.Subscribe(func(n int) {
		log.Add(fmt.Sprintf("a:%d", n))
		if n == 1 {
			victim.Cancel()
		}
	})
	victim = s.Subscribe(func(n int) { log.Add(fmt.Sprintf("b:%d", n)) })

	require.NoError(t, s.Dispatch(inc{}))
	require.NoError(t, s.Dispatch(inc{}))

	assert.Equal(t, []string{
		"a:0", "b:0",
		"a:1", "b:1",
		"a:2",
	}, log.Entries(), "the cancelling pass still visits its snapshot")
}

func TestStore_Trace(t *testing.T) {
	var events []TraceEvent
	s, err := New(tagged{}, taggingReducer,
		WithID[tagged]("traced"),
		WithValidators[tagged](RejectNaN),
		WithTrace[tagged](func(e TraceEvent) { events = append(events, e) }),
	)
	require.NoError(t, err)

	require.NoError(t, s.ColdStart())
	require.NoError(t, s.Dispatch(setTo{N: math.NaN()}))

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, ir.ColdStart{}, events[0].Applied)
	assert.Equal(t, "traced", events[1].StoreID)
	assert.Equal(t, ir.Kind("SET"), events[1].Received.Kind())
	assert.Equal(t, ir.ValidationRejected{From: "SET"}, events[1].Applied)
}

func TestStore_IDGenerators(t *testing.T) {
	reducer, _ := counter()

	s, err := New(0, reducer, WithIDGenerator[int](NewFixedGenerator("fixed-1")))
	require.NoError(t, err)
	assert.Equal(t, "fixed-1", s.ID())

	s, err = New(0, reducer, WithIDGenerator[int](NewFixedGenerator("ignored")), WithID[int]("explicit"))
	require.NoError(t, err)
	assert.Equal(t, "explicit", s.ID())

	s, err = New(0, reducer)
	require.NoError(t, err)
	assert.Len(t, s.ID(), 36, "default IDs are hyphenated UUIDs")
}

func TestRuntimeError_Message(t *testing.T) {
	err := &RuntimeError{
		Code:    ErrCodePluginFailed,
		Message: "post-plugin failed",
		StoreID: "s1",
		Kind:    "INC",
		Err:     errors.New("io"),
	}
	assert.Equal(t, "PLUGIN_FAILED: post-plugin failed (store=s1, kind=INC): io", err.Error())

	wrapped := fmt.Errorf("render: %w", err)
	assert.True(t, IsPluginError(wrapped))
	assert.False(t, IsColdStartRepeated(wrapped))
	assert.False(t, IsPluginError(errors.New("plain")))
}
