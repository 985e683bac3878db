package checkout

import (
	"context"
	"errors"
	"time"

	"triversa/internal/store"
)

// Outcome is the terminal result of a gateway invocation, keyed by the
// reference the success view is navigated with.
type Outcome struct {
	State     State  `json:"status"`
	Reference string `json:"reference"`
}

// HandleClose records that the user abandoned the popup. Not a failure:
// no verification call is made, the attempt is discarded, and the
// checkout may be resubmitted. Idempotent, and mutually exclusive with
// HandleCallback per opened widget.
func (f *Flow) HandleClose(ctx context.Context, reference string) (Outcome, error) {
	sess, ok := f.sessions.get(reference)
	if !ok {
		resolved, err := f.storage.Attempts.Resolved(ctx, reference)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return Outcome{}, ErrUnknownReference
			}
			return Outcome{}, &BackendError{Op: "load attempt", Err: err}
		}
		if resolved {
			return f.storedOutcome(ctx, reference)
		}
	} else if !sess.finish(StateCancelled) {
		// Already terminal; report what it became.
		return Outcome{State: sess.State(), Reference: reference}, nil
	}

	if err := f.storage.Attempts.SetOutcome(ctx, reference, store.AttemptCancelled, nil); err != nil && !errors.Is(err, store.ErrConflict) {
		f.logger.Errorw("record cancelled attempt", "reference", reference, "error", err)
	}
	// The order must reach cancelled even without a live session (a close
	// arriving after a restart), so resolve it through the store fallback.
	if orderID, ok := f.orderID(ctx, sess, reference); ok {
		if err := f.storage.Orders.SetStatus(ctx, orderID, store.OrderStatusCancelled); err != nil {
			f.logger.Errorw("mark order cancelled", "order_id", orderID, "error", err)
		}
	}
	if sess != nil {
		f.sessions.release(sess.inflightKey, reference)
	}

	f.logger.Infow("payment cancelled by user", "reference", reference)
	return Outcome{State: StateCancelled, Reference: reference}, nil
}

// HandleCallback reconciles a completed popup with the authoritative
// gateway status. Exactly three outcomes:
//
//   - gateway says success  -> Succeeded, order marked paid
//   - gateway says anything else -> Failed, resubmission allowed (a
//     resubmission creates a fresh order and reference; references are
//     never reused)
//   - the verify call itself fails -> Errored and a VerifyError: the
//     charge may have landed, so this is never retried automatically;
//     the attempt is parked unresolved for support.
//
// A second callback for an already-resolved reference returns the stored
// outcome without verifying again.
func (f *Flow) HandleCallback(ctx context.Context, reference string) (Outcome, error) {
	sess, hasSession := f.sessions.get(reference)
	if hasSession && sess.State().Terminal() {
		return Outcome{State: sess.State(), Reference: reference}, nil
	}

	resolved, err := f.storage.Attempts.Resolved(ctx, reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, ErrUnknownReference
		}
		return Outcome{}, &BackendError{Op: "load attempt", Err: err}
	}
	if resolved {
		return f.storedOutcome(ctx, reference)
	}

	verifyRes, err := f.gateway.Verify(ctx, reference)
	if err != nil {
		f.settle(ctx, sess, reference, StateErrored, store.AttemptUnresolved, nil)
		f.logger.Errorw("payment verification errored", "reference", reference, "error", err)
		return Outcome{State: StateErrored, Reference: reference}, &VerifyError{Reference: reference, Err: err}
	}

	if verifyRes.Success() {
		if f.settle(ctx, sess, reference, StateSucceeded, store.AttemptSuccess, verifyRes.Raw) {
			f.markPaid(ctx, sess, reference, verifyRes.PaidAt)
			f.logger.Infow("payment verified", "reference", reference, "amount_cents", verifyRes.AmountCents)
			if f.OnSucceeded != nil {
				f.OnSucceeded(reference)
			}
		}
		return Outcome{State: StateSucceeded, Reference: reference}, nil
	}

	if f.settle(ctx, sess, reference, StateFailed, store.AttemptFailed, verifyRes.Raw) {
		f.markFailed(ctx, sess, reference)
		f.logger.Infow("payment declined", "reference", reference, "gateway_status", verifyRes.Status)
	}
	return Outcome{State: StateFailed, Reference: reference}, nil
}

// Status answers the authoritative outcome for a reference: stored
// outcome if the attempt is resolved, a fresh verification otherwise.
// Backs the success view and post-hoc status queries.
func (f *Flow) Status(ctx context.Context, reference string) (Outcome, error) {
	resolved, err := f.storage.Attempts.Resolved(ctx, reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, ErrUnknownReference
		}
		return Outcome{}, &BackendError{Op: "load attempt", Err: err}
	}
	if resolved {
		return f.storedOutcome(ctx, reference)
	}
	return f.HandleCallback(ctx, reference)
}

func (f *Flow) storedOutcome(ctx context.Context, reference string) (Outcome, error) {
	attempt, err := f.storage.Attempts.GetByReference(ctx, reference)
	if err != nil {
		return Outcome{}, &BackendError{Op: "load attempt", Err: err}
	}
	state := StateErrored
	switch attempt.Status {
	case store.AttemptSuccess:
		state = StateSucceeded
	case store.AttemptFailed:
		state = StateFailed
	case store.AttemptCancelled:
		state = StateCancelled
	}
	return Outcome{State: state, Reference: reference}, nil
}

// settle applies the terminal transition to the session (first caller
// wins) and records the attempt outcome. Reports whether this caller
// won the transition.
func (f *Flow) settle(ctx context.Context, sess *Session, reference string, state State, attemptStatus string, raw any) bool {
	if sess != nil {
		if !sess.finish(state) {
			return false
		}
		f.sessions.release(sess.inflightKey, reference)
	}
	if err := f.storage.Attempts.SetOutcome(ctx, reference, attemptStatus, raw); err != nil && !errors.Is(err, store.ErrConflict) {
		f.logger.Errorw("record attempt outcome", "reference", reference, "status", attemptStatus, "error", err)
	}
	return true
}

func (f *Flow) markPaid(ctx context.Context, sess *Session, reference string, paidAt *time.Time) {
	orderID, ok := f.orderID(ctx, sess, reference)
	if !ok {
		return
	}
	at := time.Now()
	if paidAt != nil {
		at = *paidAt
	}
	if err := f.storage.Orders.MarkPaid(ctx, orderID, at); err != nil && !errors.Is(err, store.ErrNotFound) {
		f.logger.Errorw("mark order paid", "order_id", orderID, "error", err)
	}
}

func (f *Flow) markFailed(ctx context.Context, sess *Session, reference string) {
	orderID, ok := f.orderID(ctx, sess, reference)
	if !ok {
		return
	}
	if err := f.storage.Orders.SetStatus(ctx, orderID, store.OrderStatusFailed); err != nil {
		f.logger.Errorw("mark order failed", "order_id", orderID, "error", err)
	}
}

// orderID resolves the order behind a reference, via the session when
// live, via the store after a restart.
func (f *Flow) orderID(ctx context.Context, sess *Session, reference string) (int64, bool) {
	if sess != nil {
		return sess.OrderID, true
	}
	order, err := f.storage.Orders.GetByReference(ctx, reference)
	if err != nil {
		f.logger.Errorw("load order by reference", "reference", reference, "error", err)
		return 0, false
	}
	return order.ID, true
}
