package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paygate/internal/payments"
)

type PaymentHandler struct {
	service *payments.PaymentService
}

func NewPaymentHandler(service *payments.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type postPaymentRequest struct {
	CardNumber  string `json:"card_number" validate:"required,number,min=14,max=19"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,gte=1,lte=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Amount      int64  `json:"amount" validate:"required,gte=1"`
	CVV         string `json:"cvv" validate:"required,number,min=3,max=4"`
}

type paymentResponse struct {
	ID           *uuid.UUID             `json:"id"`
	Status       payments.PaymentStatus `json:"status"`
	CardLastFour string                 `json:"card_number_last_four"`
	ExpiryMonth  int                    `json:"expiry_month"`
	ExpiryYear   int                    `json:"expiry_year"`
	Currency     string                 `json:"currency"`
	Amount       int64                  `json:"amount"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Handle accepts a payment submission. Declines are 200s with status
// "Declined"; only acquirer unavailability surfaces as a 503.
func (h *PaymentHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("payment-handler")
	ctx, span := tracer.Start(ctx, "process-payment", trace.WithAttributes(
		attribute.String("handler", "payment"),
	))
	defer span.End()

	var req postPaymentRequest
	if err := c.Bind(&req); err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Validation failed"})
	}
	if err := c.Validate(&req); err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Validation failed"})
	}

	span.SetAttributes(
		attribute.Int64("payment.amount", req.Amount),
		attribute.String("payment.currency", req.Currency),
	)

	result, err := h.service.Process(ctx, payments.PaymentRequest{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Currency:    req.Currency,
		Amount:      req.Amount,
		CVV:         req.CVV,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, payments.ErrAcquirerUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "Bank service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, paymentResponse{
		ID:           result.ID,
		Status:       result.Status,
		CardLastFour: result.CardLastFour,
		ExpiryMonth:  result.ExpiryMonth,
		ExpiryYear:   result.ExpiryYear,
		Currency:     result.Currency,
		Amount:       result.Amount,
	})
}
