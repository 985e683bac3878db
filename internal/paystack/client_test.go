package paystack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{
			"authorization_url":"https://checkout.paystack.com/abc123",
			"access_code":"abc123",
			"reference":"trv_ref_1"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	res, err := c.Initialize(context.Background(), InitializeRequest{
		Email:       "customer42@triversa.com",
		AmountCents: 1200,
		Currency:    "GHS",
		OrderNumber: "TRV-AAAA-BBBB",
	})
	require.NoError(t, err)
	require.Equal(t, "trv_ref_1", res.Reference)
	require.Equal(t, "abc123", res.AccessCode)
	require.Equal(t, "Bearer sk_test_x", gotAuth)
}

func TestInitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid amount"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	_, err := c.Initialize(context.Background(), InitializeRequest{AmountCents: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid amount")
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/trv_ref_1", r.URL.Path)
		w.Write([]byte(`{"status":true,"data":{"status":"success","reference":"trv_ref_1","amount":1200,"currency":"GHS"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	res, err := c.Verify(context.Background(), "trv_ref_1")
	require.NoError(t, err)
	require.True(t, res.Success())
	require.Equal(t, int64(1200), res.AmountCents)
}

func TestVerifyDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"status":"abandoned","reference":"trv_ref_2","amount":1200}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	res, err := c.Verify(context.Background(), "trv_ref_2")
	require.NoError(t, err)
	require.False(t, res.Success())
	require.Equal(t, "abandoned", res.Status)
}

func TestVerifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	_, err := c.Verify(context.Background(), "trv_ref_3")
	require.Error(t, err)

	_, err = c.Verify(context.Background(), "")
	require.Error(t, err)
}

func TestPopupUsesPublicKey(t *testing.T) {
	c := NewClient("sk_test_x", "pk_test_x", "")
	cfg := c.Popup("customer7@triversa.com", 250, "GHS", "ref-7")
	require.Equal(t, PopupConfig{
		Key:      "pk_test_x",
		Email:    "customer7@triversa.com",
		Amount:   250,
		Currency: "GHS",
		Ref:      "ref-7",
	}, cfg)
}

func TestReadinessProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", "pk_test_x", srv.URL)
	rd := c.Readiness()
	require.Equal(t, Loading, rd.State())

	rd.Start(context.Background())
	require.Eventually(t, func() bool { return rd.State() == Ready }, time.Second, 10*time.Millisecond)
}

func TestReadinessFailsAndRetries(t *testing.T) {
	calls := 0
	rd := newReadiness(func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("unreachable")
		}
		return nil
	})

	rd.Start(context.Background())
	require.Eventually(t, func() bool { return rd.State() == Failed }, time.Second, 10*time.Millisecond)

	rd.Retry(context.Background())
	require.Eventually(t, func() bool { return rd.State() == Ready }, time.Second, 10*time.Millisecond)

	// Retry from Ready is a no-op
	rd.Retry(context.Background())
	require.Equal(t, Ready, rd.State())
	require.Equal(t, 2, calls)
}
