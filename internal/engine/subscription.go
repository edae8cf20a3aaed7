package engine

import "sync"

// Subscription is the revocation handle returned by Store.Subscribe.
// The zero value is not usable; a nil *Subscription is safe to Cancel.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel removes exactly the listener this handle was created for.
// Cancel is idempotent: calls after the first are no-ops.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// subscriber pairs a listener with an identity, so that cancelling removes
// the right entry even when the same function was subscribed twice.
type subscriber[S any] struct {
	id uint64
	fn Listener[S]
}
