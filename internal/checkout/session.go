package checkout

import (
	"sync"
	"time"
)

// State is where a checkout session sits in the funnel. Validating and
// Submitting are transient (held only inside Initiate); a registered
// session is AwaitingGateway until exactly one of close/callback moves
// it to a terminal state.
type State string

const (
	StateIdle            State = "idle"
	StateValidating      State = "validating"
	StateSubmitting      State = "submitting"
	StateAwaitingGateway State = "awaiting_gateway"
	StateSucceeded       State = "succeeded"
	StateCancelled       State = "cancelled"
	StateFailed          State = "failed"
	StateErrored         State = "errored"
)

// Terminal reports whether the state ends the session. Errored is
// terminal for the session but the attempt behind it stays unresolved
// until support reconciles it.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateCancelled, StateFailed, StateErrored:
		return true
	}
	return false
}

// Session tracks one gateway invocation. The processing flag is the
// funnel's mutex-by-convention: while true, the same checkout cannot
// submit again.
type Session struct {
	mu sync.Mutex

	Reference string
	OrderID   int64
	Selection SelectionState

	state       State
	processing  bool
	inflightKey string
	createdAt   time.Time
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// finish moves the session to a terminal state and clears the
// processing flag. The first caller wins; later calls report false,
// which is how close/callback mutual exclusivity and the idempotent
// terminal transition are enforced.
func (s *Session) finish(to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return false
	}
	s.state = to
	s.processing = false
	return true
}

// sessions is the in-memory registry of in-flight gateway invocations,
// keyed by reference, with a secondary in-flight index per checkout so
// a second submission is refused while one is pending. A janitor expires
// sessions whose popup was never resolved.
type sessions struct {
	mu       sync.Mutex
	byRef    map[string]*Session
	inflight map[string]string // selection key -> reference ("" = reserved)
	ttl      time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func newSessions(ttl time.Duration) *sessions {
	s := &sessions{
		byRef:    make(map[string]*Session),
		inflight: make(map[string]string),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.cleanup()
	return s
}

func (r *sessions) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-r.ttl)
		r.mu.Lock()
		for ref, sess := range r.byRef {
			if sess.createdAt.Before(cutoff) {
				delete(r.byRef, ref)
				if r.inflight[sess.inflightKey] == ref {
					delete(r.inflight, sess.inflightKey)
				}
			}
		}
		r.mu.Unlock()
	}
}

// stop ends the janitor. Safe to call more than once.
func (r *sessions) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// begin reserves the in-flight slot for a checkout. Returns false while
// another submission for the same selection+payer is pending.
func (r *sessions) begin(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.inflight[key]; ok {
		if ref == "" {
			return false // reserved by a submission still in flight
		}
		if sess, live := r.byRef[ref]; live && !sess.State().Terminal() {
			return false
		}
	}
	r.inflight[key] = ""
	return true
}

// register attaches the gateway reference to a reserved slot.
func (r *sessions) register(key string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess.createdAt = time.Now()
	sess.state = StateAwaitingGateway
	sess.processing = true
	sess.inflightKey = key
	r.byRef[sess.Reference] = sess
	r.inflight[key] = sess.Reference
}

// release frees the in-flight slot, either after a failed submission or
// once its session reaches a terminal state.
func (r *sessions) release(key, reference string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.inflight[key]; ok && ref == reference {
		delete(r.inflight, key)
	}
}

func (r *sessions) get(reference string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.byRef[reference]
	return sess, ok
}
