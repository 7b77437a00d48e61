package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrAcquirerUnavailable marks an infrastructure failure toward the
	// acquiring bank (5xx, timeout, transport error). It is never a decline.
	ErrAcquirerUnavailable = errors.New("acquirer unavailable")
)

// Authorization is the acquirer's answer to an authorization attempt.
// Approved carries the code issued by the bank; a non-approved value is a
// business decline. Infrastructure failures travel on the error channel.
type Authorization struct {
	Approved bool
	Code     uuid.UUID
}

type authRequest struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	CVV         string `json:"cvv"`
	ExpiryDate  string `json:"expiry_date"`
}

type authResponse struct {
	Authorized        bool   `json:"authorized"`
	AuthorizationCode string `json:"authorization_code"`
}

// AcquirerClient talks to the bank simulator over HTTP. One endpoint, one
// synchronous call per payment, no retries.
type AcquirerClient struct {
	acquirerURL string
	httpClient  *http.Client
}

func NewAcquirerClient(httpClient *http.Client, acquirerURL string) *AcquirerClient {
	return &AcquirerClient{
		acquirerURL: acquirerURL,
		httpClient:  httpClient,
	}
}

// Authorize submits the payment to the acquirer and classifies the outcome.
// A 2xx response with an authorization code approves the payment; a 2xx
// without a code declines it; everything else wraps ErrAcquirerUnavailable.
func (c *AcquirerClient) Authorize(ctx context.Context, payment PaymentRequest) (Authorization, error) {
	tracer := otel.Tracer("acquirer-client")
	ctx, span := tracer.Start(ctx, "authorize-payment", trace.WithAttributes(
		attribute.String("acquirer.url", c.acquirerURL),
		attribute.Int64("payment.amount", payment.Amount),
		attribute.String("payment.currency", payment.Currency),
	))
	defer span.End()

	body := authRequest{
		CardNumber:  payment.CardNumber,
		ExpiryMonth: payment.ExpiryMonth,
		ExpiryYear:  payment.ExpiryYear,
		Currency:    payment.Currency,
		Amount:      payment.Amount,
		CVV:         payment.CVV,
		ExpiryDate:  fmt.Sprintf("%d/%d", payment.ExpiryMonth, payment.ExpiryYear),
	}

	bodyJSON, err := sonic.Marshal(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to serialize request body")
		return Authorization{}, fmt.Errorf("failed to serialize the request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.acquirerURL, bytes.NewReader(bodyJSON))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create HTTP request")
		return Authorization{}, fmt.Errorf("unable to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	span.AddEvent("sending-http-request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error sending HTTP request")
		return Authorization{}, fmt.Errorf("%w: %v", ErrAcquirerUnavailable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "Acquirer returned non-2xx status")
		return Authorization{}, fmt.Errorf("%w: acquirer responded with status %d", ErrAcquirerUnavailable, resp.StatusCode)
	}

	var auth authResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&auth); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode acquirer response")
		return Authorization{}, fmt.Errorf("%w: malformed response body: %v", ErrAcquirerUnavailable, err)
	}

	if auth.AuthorizationCode == "" {
		span.SetStatus(codes.Ok, "Payment declined by acquirer")
		return Authorization{Approved: false}, nil
	}

	code, err := uuid.Parse(auth.AuthorizationCode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Acquirer returned malformed authorization code")
		return Authorization{}, fmt.Errorf("%w: malformed authorization code %q", ErrAcquirerUnavailable, auth.AuthorizationCode)
	}

	span.SetStatus(codes.Ok, "Payment authorized by acquirer")
	return Authorization{Approved: true, Code: code}, nil
}
