package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"paygate/internal/payments"
)

type GetPaymentHandler struct {
	service *payments.PaymentService
}

func NewGetPaymentHandler(service *payments.PaymentService) *GetPaymentHandler {
	return &GetPaymentHandler{service: service}
}

// Handle returns the recorded payment for the path id. Unknown and
// unparseable ids are both a miss.
func (h *GetPaymentHandler) Handle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Page not found"})
	}

	record, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Message: "Page not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	recordID := record.ID
	return c.JSON(http.StatusOK, paymentResponse{
		ID:           &recordID,
		Status:       record.Status,
		CardLastFour: record.CardLastFour,
		ExpiryMonth:  record.ExpiryMonth,
		ExpiryYear:   record.ExpiryYear,
		Currency:     record.Currency,
		Amount:       record.Amount,
	})
}
