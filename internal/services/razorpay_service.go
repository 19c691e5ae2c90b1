package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentLinkRequest is everything the gateway needs to issue a link.
type PaymentLinkRequest struct {
	Amount        decimal.Decimal
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
	ReferenceID   int
	CallbackURL   string
}

type PaymentLinkResult struct {
	PaymentLink string
	GatewayID   string
	Status      string
}

// PaymentGateway is the outbound boundary for payment-link creation. The
// invoice core never talks to the payment network directly.
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLinkResult, error)
}

type RazorpayConfig struct {
	// База API, прод: https://api.razorpay.com
	BaseURL   string
	KeyID     string
	KeySecret string

	// Секрет для проверки подписи вебхука
	WebhookSecret string

	Client *http.Client
	Logger *slog.Logger
}

type RazorpayService struct {
	baseURL       *url.URL
	keyID         string
	keySecret     string
	webhookSecret string

	httpClient *http.Client
	logger     *slog.Logger
}

func NewRazorpayService(cfg RazorpayConfig) (*RazorpayService, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("razorpay: key_id/key_secret/base_url are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	s := &RazorpayService{
		baseURL:       u,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    client,
		logger:        logger,
	}
	logger.Info("Razorpay initialized",
		"baseURL", u.Redacted(),
		"webhookSecret_set", s.webhookSecret != "",
	)
	return s, nil
}

// RazorpayError carries the provider's status so handlers can pass 4xx
// through and map everything else to a bad gateway.
type RazorpayError struct {
	StatusCode  int
	Status      string
	Description string
}

func (e *RazorpayError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay: %s: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("razorpay: %s", e.Status)
}

type paymentLinkAPIRequest struct {
	// Razorpay принимает сумму в минимальных единицах валюты
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"reference_id"`
	Customer    struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	} `json:"customer"`
	CallbackURL    string `json:"callback_url,omitempty"`
	CallbackMethod string `json:"callback_method,omitempty"`
}

type paymentLinkAPIResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Error    struct {
		Description string `json:"description"`
	} `json:"error"`
}

func (s *RazorpayService) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLinkResult, error) {
	logger := s.logger.With("op", "CreatePaymentLink")

	endpoint := *s.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/payment_links")

	apiReq := paymentLinkAPIRequest{
		Amount:      req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    req.Currency,
		Description: req.Description,
		ReferenceID: strconv.Itoa(req.ReferenceID),
	}
	apiReq.Customer.Name = req.CustomerName
	apiReq.Customer.Email = req.CustomerEmail
	if req.CallbackURL != "" {
		apiReq.CallbackURL = req.CallbackURL
		apiReq.CallbackMethod = "get"
	}
	body, _ := json.Marshal(apiReq)

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	httpReq.SetBasicAuth(s.keyID, s.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return PaymentLinkResult{}, fmt.Errorf("payment_links request: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	logger.Debug("payment_links raw", "status", resp.Status, "body", trimBody(string(b), 2000))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var out paymentLinkAPIResponse
		_ = json.Unmarshal(b, &out)
		return PaymentLinkResult{}, &RazorpayError{
			StatusCode:  resp.StatusCode,
			Status:      resp.Status,
			Description: out.Error.Description,
		}
	}

	var out paymentLinkAPIResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return PaymentLinkResult{}, fmt.Errorf("decode payment_links: %w", err)
	}
	if strings.TrimSpace(out.ShortURL) == "" || strings.TrimSpace(out.ID) == "" {
		return PaymentLinkResult{}, fmt.Errorf("payment_links: empty short_url or id")
	}

	return PaymentLinkResult{
		PaymentLink: out.ShortURL,
		GatewayID:   out.ID,
		Status:      out.Status,
	}, nil
}

// WebhookPayload is the callback body for a paid payment link.
type WebhookPayload struct {
	GatewayPaymentID string
	ReferenceID      string
	Amount           decimal.Decimal
	Currency         string
	Status           string
	Raw              json.RawMessage
}

func (s *RazorpayService) ParseCallback(r io.Reader) (*WebhookPayload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var body struct {
		Payload struct {
			PaymentLink struct {
				Entity struct {
					ID          string          `json:"id"`
					ReferenceID string          `json:"reference_id"`
					AmountPaid  json.RawMessage `json:"amount_paid"`
					Currency    string          `json:"currency"`
					Status      string          `json:"status"`
				} `json:"entity"`
			} `json:"payment_link"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode callback: %w", err)
	}
	entity := body.Payload.PaymentLink.Entity

	amount := decimal.Zero
	if len(entity.AmountPaid) > 0 {
		var paise int64
		if err := json.Unmarshal(entity.AmountPaid, &paise); err == nil {
			amount = decimal.NewFromInt(paise).Div(decimal.NewFromInt(100))
		}
	}

	return &WebhookPayload{
		GatewayPaymentID: entity.ID,
		ReferenceID:      entity.ReferenceID,
		Amount:           amount,
		Currency:         entity.Currency,
		Status:           entity.Status,
		Raw:              raw,
	}, nil
}

// ValidateCallbackSignature checks the X-Razorpay-Signature header: an
// HMAC-SHA256 of the raw body keyed with the webhook secret.
func (s *RazorpayService) ValidateCallbackSignature(rawBody []byte, signature string) bool {
	if strings.TrimSpace(signature) == "" || s.webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func trimBody(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
