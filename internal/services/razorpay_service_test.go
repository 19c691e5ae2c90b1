package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreatePaymentLink_SendsAmountInPaise(t *testing.T) {
	var got paymentLinkAPIRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_links" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Errorf("basic auth not forwarded")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"plink_1","short_url":"https://rzp.io/abc","status":"created"}`))
	}))
	defer ts.Close()

	svc, err := NewRazorpayService(RazorpayConfig{
		BaseURL:   ts.URL,
		KeyID:     "key",
		KeySecret: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	result, err := svc.CreatePaymentLink(context.Background(), PaymentLinkRequest{
		Amount:      decimal.RequireFromString("1250.50"),
		Currency:    "INR",
		ReferenceID: 42,
		CallbackURL: "https://example.com/payments/callback",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Amount != 125050 {
		t.Errorf("amount in paise mismatch: %d", got.Amount)
	}
	if got.ReferenceID != "42" {
		t.Errorf("reference id mismatch: %q", got.ReferenceID)
	}
	if got.CallbackMethod != "get" {
		t.Errorf("callback method mismatch: %q", got.CallbackMethod)
	}
	if result.PaymentLink != "https://rzp.io/abc" {
		t.Errorf("payment link mismatch: %q", result.PaymentLink)
	}
	if result.GatewayID != "plink_1" {
		t.Errorf("gateway id mismatch: %q", result.GatewayID)
	}
}

func TestCreatePaymentLink_Non2xxReturnsRazorpayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer ts.Close()

	svc, err := NewRazorpayService(RazorpayConfig{
		BaseURL:   ts.URL,
		KeyID:     "key",
		KeySecret: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	_, err = svc.CreatePaymentLink(context.Background(), PaymentLinkRequest{
		Amount:   decimal.NewFromInt(1),
		Currency: "INR",
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	apiErr, ok := err.(*RazorpayError)
	if !ok {
		t.Fatalf("expected RazorpayError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code: %d", apiErr.StatusCode)
	}
	if apiErr.Description != "amount too small" {
		t.Errorf("unexpected description: %q", apiErr.Description)
	}
}

func TestParseCallback_ReadsPaymentLinkEntity(t *testing.T) {
	body := `{
        "payload": {
            "payment_link": {
                "entity": {
                    "id": "plink_1",
                    "reference_id": "7",
                    "amount_paid": 125050,
                    "currency": "INR",
                    "status": "paid"
                }
            }
        }
    }`

	svc, err := NewRazorpayService(RazorpayConfig{
		BaseURL:   "https://api.razorpay.com",
		KeyID:     "key",
		KeySecret: "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	payload, err := svc.ParseCallback(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.GatewayPaymentID != "plink_1" {
		t.Errorf("gateway payment id mismatch: %q", payload.GatewayPaymentID)
	}
	if payload.ReferenceID != "7" {
		t.Errorf("reference id mismatch: %q", payload.ReferenceID)
	}
	if !payload.Amount.Equal(decimal.RequireFromString("1250.50")) {
		t.Errorf("amount mismatch: %s", payload.Amount)
	}
	if payload.Status != "paid" {
		t.Errorf("status mismatch: %q", payload.Status)
	}
}

func TestValidateCallbackSignature(t *testing.T) {
	svc, err := NewRazorpayService(RazorpayConfig{
		BaseURL:       "https://api.razorpay.com",
		KeyID:         "key",
		KeySecret:     "secret",
		WebhookSecret: "webhook-secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	body := []byte(`{"event":"payment_link.paid"}`)
	mac := hmac.New(sha256.New, []byte("webhook-secret"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	if !svc.ValidateCallbackSignature(body, signature) {
		t.Errorf("expected valid signature to pass")
	}
	if svc.ValidateCallbackSignature(body, "deadbeef") {
		t.Errorf("expected forged signature to fail")
	}
	if svc.ValidateCallbackSignature(body, "") {
		t.Errorf("expected empty signature to fail")
	}
}
