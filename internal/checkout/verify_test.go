package checkout

import (
	"context"
	"testing"

	"triversa/internal/store"

	"github.com/stretchr/testify/require"
)

func initiated(t *testing.T, fx *flowFixture) *InitiateResult {
	t.Helper()
	res, err := fx.flow.Initiate(context.Background(), InitiateInput{
		Selection:      mtnSelection(),
		PaymentNetwork: "mtn",
		PaymentNumber:  "0551234567",
	})
	require.NoError(t, err)
	return res
}

func TestCloseBeforeCallbackCancels(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	out, err := fx.flow.HandleClose(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateCancelled, out.State)

	// Abandoning the popup never triggers verification.
	require.Zero(t, fx.gateway.verifyCalls)

	order, err := fx.orders.GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusCancelled, order.Status)

	// The late callback loses: the terminal state sticks and still no
	// verification happens.
	out, err = fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateCancelled, out.State)
	require.Zero(t, fx.gateway.verifyCalls)
}

func TestCallbackVerifiesSuccess(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	out, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, res.Reference, out.Reference)

	order, err := fx.orders.GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusPaid, order.Status)
	require.NotNil(t, order.PaidAt)

	sess, ok := fx.flow.Session(res.Reference)
	require.True(t, ok)
	require.False(t, sess.Processing())
}

func TestSecondCallbackIsIdempotent(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	_, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, 1, fx.gateway.verifyCalls)

	// The duplicate callback reports the same outcome without a second
	// verification round trip.
	out, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 1, fx.gateway.verifyCalls)
}

func TestCallbackDeclinedAllowsFreshAttempt(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	fx.gateway.verifyStatus = "abandoned"
	out, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateFailed, out.State)

	order, err := fx.orders.GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusFailed, order.Status)

	// Resubmission produces a new order and a reference distinct from
	// the first; references are never reused.
	fx.gateway.verifyStatus = "success"
	res2 := initiated(t, fx)
	require.NotEqual(t, res.Reference, res2.Reference)
	require.NotEqual(t, res.OrderID, res2.OrderID)
}

func TestCallbackVerifyTransportError(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	fx.gateway.verifyErr = errBoom
	out, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	var vErr *VerifyError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, StateErrored, out.State)

	// Parked for support, not retried: a repeat callback does not verify
	// again even after the gateway recovers.
	attempt, aerr := fx.attempts.GetByReference(context.Background(), res.Reference)
	require.NoError(t, aerr)
	require.Equal(t, store.AttemptUnresolved, attempt.Status)

	fx.gateway.verifyErr = nil
	out, err = fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateErrored, out.State)
	require.Equal(t, 1, fx.gateway.verifyCalls)

	// The UI stays usable: the processing flag is cleared.
	sess, ok := fx.flow.Session(res.Reference)
	require.True(t, ok)
	require.False(t, sess.Processing())
}

func TestStatusReturnsStoredOutcome(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	_, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)

	out, err := fx.flow.Status(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 1, fx.gateway.verifyCalls)
}

func TestStatusVerifiesUnresolvedReference(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	// The browser never delivered the callback; a status query settles
	// the attempt through the same verification path.
	out, err := fx.flow.Status(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, 1, fx.gateway.verifyCalls)
}

func TestUnknownReference(t *testing.T) {
	fx := newFlowFixture(t)

	_, err := fx.flow.HandleCallback(context.Background(), "trv_ref_ghost")
	require.ErrorIs(t, err, ErrUnknownReference)

	_, err = fx.flow.HandleClose(context.Background(), "trv_ref_ghost")
	require.ErrorIs(t, err, ErrUnknownReference)

	_, err = fx.flow.Status(context.Background(), "trv_ref_ghost")
	require.ErrorIs(t, err, ErrUnknownReference)
}

func TestCloseAfterRestartFallsBackToStore(t *testing.T) {
	fx := newFlowFixture(t)
	res := initiated(t, fx)

	// Simulate a restart: the in-memory session is gone but the attempt
	// row survives.
	fx.flow.sessions.stop()
	fx.flow.sessions = newSessions(fx.flow.sessions.ttl)

	out, err := fx.flow.HandleClose(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateCancelled, out.State)

	attempt, err := fx.attempts.GetByReference(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, store.AttemptCancelled, attempt.Status)

	// The order behind the reference reaches cancelled too, resolved
	// through the store rather than the lost session.
	order, err := fx.orders.GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	require.Equal(t, store.OrderStatusCancelled, order.Status)
}

func TestReceiptHookFiresOnStatusQuery(t *testing.T) {
	fx := newFlowFixture(t)
	var receipts []string
	fx.flow.OnSucceeded = func(ref string) { receipts = append(receipts, ref) }
	res := initiated(t, fx)

	// The success view reaches the server through the status query, not
	// the callback; the receipt must still go out.
	out, err := fx.flow.Status(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, out.State)
	require.Equal(t, []string{res.Reference}, receipts)

	// Neither a repeat query nor a late callback produces a second one.
	_, err = fx.flow.Status(context.Background(), res.Reference)
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestReceiptHookFiresOnceOnCallback(t *testing.T) {
	fx := newFlowFixture(t)
	fired := 0
	fx.flow.OnSucceeded = func(string) { fired++ }
	res := initiated(t, fx)

	_, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, 1, fired)

	_, err = fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, 1, fired)
}

func TestReceiptHookSkipsDeclines(t *testing.T) {
	fx := newFlowFixture(t)
	fired := 0
	fx.flow.OnSucceeded = func(string) { fired++ }
	res := initiated(t, fx)

	fx.gateway.verifyStatus = "abandoned"
	out, err := fx.flow.HandleCallback(context.Background(), res.Reference)
	require.NoError(t, err)
	require.Equal(t, StateFailed, out.State)
	require.Zero(t, fired)
}
