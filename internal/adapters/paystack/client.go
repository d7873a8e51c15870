// Package paystack is the Paystack implementation of the payment gateway port.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.paystack.co"

	// SignatureHeader carries the HMAC-SHA512 of the webhook body.
	SignatureHeader = "x-paystack-signature"

	maxResponseBytes = 1 << 20
)

// Client talks to the Paystack transaction API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

var _ gateways.PaymentGateway = (*Client)(nil)

// NewClient returns a client whose requests are traced and bounded by timeout.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Channels    []string       `json:"channels,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
}

type webhookBody struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *Client) InitializeTransaction(ctx context.Context, req domain.PaymentInitRequest) (*domain.PaymentAuthorization, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    req.Currency.String(),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Channels:    req.Channels,
		Metadata:    req.Metadata,
	}
	env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: initialize rejected: %s", apperrors.ErrPaymentGateway, env.Message)
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed initialize response: %v", apperrors.ErrPaymentGateway, err)
	}
	if data.Reference == "" {
		data.Reference = req.Reference
	}
	return &domain.PaymentAuthorization{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyTransaction reports a rejected lookup (unknown reference and the like) as
// Ok=false rather than an error; only transport and server failures are errors.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*domain.GatewayVerification, error) {
	env, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	result := &domain.GatewayVerification{
		Ok:        env.Status,
		Message:   env.Message,
		Reference: reference,
	}
	if !env.Status {
		return result, nil
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response: %v", apperrors.ErrPaymentGateway, err)
	}
	if data.Reference != "" {
		result.Reference = data.Reference
	}
	result.Status = data.Status
	result.AmountMinor = data.Amount
	result.Currency = data.Currency
	result.Channel = data.Channel
	result.PaidAt = data.PaidAt
	return result, nil
}

func (c *Client) IsSignatureValid(rawBody []byte, signature string) bool {
	if signature == "" || c.secretKey == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), expected)
}

func (c *Client) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, fmt.Errorf("%w: webhook body is not JSON: %v", apperrors.ErrValidation, err)
	}
	event := &domain.WebhookEvent{Event: body.Event}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return event, nil
	}
	if err := json.Unmarshal(body.Data, &event.Data); err != nil {
		return nil, fmt.Errorf("%w: webhook data is not an object: %v", apperrors.ErrValidation, err)
	}
	event.Reference, _ = event.Data["reference"].(string)
	event.Status, _ = event.Data["status"].(string)
	return event, nil
}

// do sends one API call. 4xx answers carrying the Paystack envelope are returned
// as-is; anything else that is not 2xx is a gateway failure.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: secret key not configured", apperrors.ErrPaymentGateway)
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrPaymentGateway, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperrors.ErrPaymentGateway, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s %s returned %d", apperrors.ErrPaymentGateway, method, path, resp.StatusCode)
	case decodeErr != nil:
		return nil, fmt.Errorf("%w: %s %s returned %d with unreadable body", apperrors.ErrPaymentGateway, method, path, resp.StatusCode)
	case resp.StatusCode >= 300 && env.Status:
		return nil, fmt.Errorf("%w: %s %s returned %d", apperrors.ErrPaymentGateway, method, path, resp.StatusCode)
	}
	return &env, nil
}
