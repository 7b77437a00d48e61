package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate/internal/payments"
)

type stubAuthorizer struct {
	auth  payments.Authorization
	err   error
	calls int
}

func (s *stubAuthorizer) Authorize(ctx context.Context, payment payments.PaymentRequest) (payments.Authorization, error) {
	s.calls++
	return s.auth, s.err
}

type testEnv struct {
	echo       *echo.Echo
	authorizer *stubAuthorizer
	store      *payments.PaymentStore
	payment    *PaymentHandler
	getPayment *GetPaymentHandler
}

func newTestEnv(authorizer *stubAuthorizer) *testEnv {
	e := echo.New()
	e.JSONSerializer = SonicSerializer{}
	e.Validator = NewRequestValidator()

	store := payments.NewPaymentStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := payments.NewMetrics(prometheus.NewRegistry())
	service := payments.NewPaymentService(authorizer, store, logger, metrics)

	return &testEnv{
		echo:       e,
		authorizer: authorizer,
		store:      store,
		payment:    NewPaymentHandler(service),
		getPayment: NewGetPaymentHandler(service),
	}
}

func (env *testEnv) postPayment(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.payment.Handle(c))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func (env *testEnv) getPaymentByID(t *testing.T, id string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/payment/"+id, nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetPath("/payment/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, env.getPayment.Handle(c))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func validBody() string {
	return `{
		"card_number": "4111111111113456",
		"expiry_month": 12,
		"expiry_year": 2030,
		"currency": "USD",
		"amount": 1000,
		"cvv": "123"
	}`
}

func TestPostPaymentAuthorizedThenRetrievable(t *testing.T) {
	code := uuid.New()
	env := newTestEnv(&stubAuthorizer{auth: payments.Authorization{Approved: true, Code: code}})

	rec, payload := env.postPayment(t, validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, code.String(), payload["id"])
	assert.Equal(t, "Authorized", payload["status"])
	assert.Equal(t, "3456", payload["card_number_last_four"])
	assert.Equal(t, float64(12), payload["expiry_month"])
	assert.Equal(t, float64(2030), payload["expiry_year"])
	assert.Equal(t, "USD", payload["currency"])
	assert.Equal(t, float64(1000), payload["amount"])

	record, err := env.store.Get(code)
	require.NoError(t, err)
	assert.Equal(t, "3456", record.CardLastFour, "store must hold the truncated number only")

	getRec, getPayload := env.getPaymentByID(t, code.String())

	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, code.String(), getPayload["id"])
	assert.Equal(t, "Authorized", getPayload["status"])
	assert.Equal(t, "3456", getPayload["card_number_last_four"])
	assert.Equal(t, float64(12), getPayload["expiry_month"])
	assert.Equal(t, float64(2030), getPayload["expiry_year"])
	assert.Equal(t, "USD", getPayload["currency"])
	assert.Equal(t, float64(1000), getPayload["amount"])
}

func TestPostPaymentExpiredCardIsDeclined(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{auth: payments.Authorization{Approved: true, Code: uuid.New()}})

	body := strings.Replace(validBody(), `"expiry_year": 2030`, `"expiry_year": 1990`, 1)
	rec, payload := env.postPayment(t, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Declined", payload["status"])
	assert.Nil(t, payload["id"])
	assert.Equal(t, "3456", payload["card_number_last_four"])
	assert.Equal(t, 0, env.authorizer.calls)
}

func TestPostPaymentUnsupportedCurrencyIsDeclinedWithoutDownstreamCall(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{auth: payments.Authorization{Approved: true, Code: uuid.New()}})

	body := strings.Replace(validBody(), `"currency": "USD"`, `"currency": "XYZ"`, 1)
	rec, payload := env.postPayment(t, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Declined", payload["status"])
	assert.Nil(t, payload["id"])
	assert.Equal(t, 0, env.authorizer.calls, "no downstream call may be observed")
}

func TestPostPaymentAcquirerDecline(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{auth: payments.Authorization{Approved: false}})

	rec, payload := env.postPayment(t, validBody())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Declined", payload["status"])
	assert.Nil(t, payload["id"])
	assert.Equal(t, 1, env.authorizer.calls)
}

func TestPostPaymentAcquirerFailureIsServiceError(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{err: fmt.Errorf("authorize: %w", payments.ErrAcquirerUnavailable)})

	rec, payload := env.postPayment(t, validBody())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Bank service unavailable", payload["message"])
}

func TestPostPaymentValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "card number too short",
			body: strings.Replace(validBody(), "4111111111113456", "41111", 1),
		},
		{
			name: "card number too long",
			body: strings.Replace(validBody(), "4111111111113456", "41111111111134567890", 1),
		},
		{
			name: "card number not numeric",
			body: strings.Replace(validBody(), "4111111111113456", "41111111111134ab", 1),
		},
		{
			name: "card number with sign prefix",
			body: strings.Replace(validBody(), "4111111111113456", "+41111111111345", 1),
		},
		{
			name: "cvv with decimal point",
			body: strings.Replace(validBody(), `"cvv": "123"`, `"cvv": "1.5"`, 1),
		},
		{
			name: "expiry month out of range",
			body: strings.Replace(validBody(), `"expiry_month": 12`, `"expiry_month": 13`, 1),
		},
		{
			name: "currency wrong length",
			body: strings.Replace(validBody(), `"currency": "USD"`, `"currency": "USDD"`, 1),
		},
		{
			name: "amount below minimum",
			body: strings.Replace(validBody(), `"amount": 1000`, `"amount": 0`, 1),
		},
		{
			name: "cvv too long",
			body: strings.Replace(validBody(), `"cvv": "123"`, `"cvv": "12345"`, 1),
		},
		{
			name: "missing cvv",
			body: strings.Replace(validBody(), `"cvv": "123"`, `"cvv": ""`, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(&stubAuthorizer{auth: payments.Authorization{Approved: true, Code: uuid.New()}})

			rec, payload := env.postPayment(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Validation failed", payload["message"])
			assert.Equal(t, 0, env.authorizer.calls, "malformed requests must not reach the core")
		})
	}
}

func TestGetPaymentUnknownID(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{})

	rec, payload := env.getPaymentByID(t, uuid.New().String())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", payload["message"])
}

func TestGetPaymentMalformedID(t *testing.T) {
	env := newTestEnv(&stubAuthorizer{})

	rec, payload := env.getPaymentByID(t, "not-a-uuid")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", payload["message"])
}
