package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var errInvalidPaymentID = errors.New("invalid payment id")

type PaymentsHandler struct {
	paymentSvs  PaymentServicer
	checkoutSvs CheckoutServicer
}

func NewPaymentsHandler(paymentSvs PaymentServicer, checkoutSvs CheckoutServicer) *PaymentsHandler {
	return &PaymentsHandler{
		paymentSvs:  paymentSvs,
		checkoutSvs: checkoutSvs,
	}
}

// CheckoutParams тело запроса оформления. Все поля, кроме courseIds, необязательные.
type CheckoutParams struct {
	CourseIDs      []int64          `json:"courseIds"`
	StudentID      *int64           `json:"studentId"`
	Amount         *decimal.Decimal `json:"amount"`
	TaxAmount      *decimal.Decimal `json:"taxAmount"`
	TotalAmount    *decimal.Decimal `json:"totalAmount"`
	Currency       string           `binding:"omitempty,len=3,alpha"         json:"currency"`
	Method         string           `binding:"omitempty,max_bytes=32"        json:"method"`
	Provider       string           `binding:"omitempty,max_bytes=32"        json:"provider"`
	ProviderTxnID  string           `binding:"omitempty,max_bytes=128"       json:"providerTxnId"`
	Status         string           `binding:"omitempty,max_bytes=32"        json:"status"`
	CardBrand      string           `binding:"omitempty,max_bytes=32"        json:"cardBrand"`
	CardLast4      string           `binding:"omitempty,len=4,numeric"       json:"cardLast4"`
	BillingName    string           `binding:"omitempty,max_bytes=255"       json:"billingName"`
	BillingEmail   string           `binding:"omitempty,email,max_bytes=255" json:"billingEmail"`
	BillingAddress map[string]any   `json:"billingAddress"`
}

type CheckoutResponse struct {
	PaymentID     int64  `json:"paymentId"`
	ReceiptNumber string `json:"receiptNumber"`
}

// Checkout POST RouteGroup + CheckoutRoute. Повтор запроса с тем же provider/providerTxnId возвращает
// уже созданный платеж.
func (h *PaymentsHandler) Checkout(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CheckoutParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.checkoutSvs.Checkout(reqCtx, service.CheckoutArgs{
		UserID:         currentUserID,
		StudentID:      params.StudentID,
		CourseIDs:      params.CourseIDs,
		Amount:         params.Amount,
		TaxAmount:      params.TaxAmount,
		TotalAmount:    params.TotalAmount,
		Currency:       params.Currency,
		Method:         params.Method,
		Provider:       params.Provider,
		ProviderTxnID:  params.ProviderTxnID,
		Status:         params.Status,
		CardBrand:      params.CardBrand,
		CardLast4:      params.CardLast4,
		BillingName:    params.BillingName,
		BillingEmail:   params.BillingEmail,
		BillingAddress: params.BillingAddress,
	})
	if err != nil {
		abortWithCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		PaymentID:     result.PaymentID,
		ReceiptNumber: result.ReceiptNumber,
	})
}

// abortWithCheckoutError ошибки запроса - 400 с текстом ошибки, конфликт записи - 409, остальное - 500.
func abortWithCheckoutError(c *gin.Context, err error) {
	for _, badRequestErr := range []error{
		domain.ErrInvalidRequest,
		domain.ErrInvalidUser,
		domain.ErrInvalidStudent,
	} {
		if errors.Is(err, badRequestErr) {
			_ = c.AbortWithError(http.StatusBadRequest, badRequestErr).SetType(gin.ErrorTypePublic)
			return
		}
	}
	if errors.Is(err, domain.ErrPersistenceConflict) {
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePrivate)
		return
	}
	_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
}

type PaymentResponse struct {
	ID             int64          `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	StudentID      *int64         `json:"studentId"`
	Amount         float64        `json:"amount"`
	TaxAmount      float64        `json:"taxAmount"`
	TotalAmount    float64        `json:"totalAmount"`
	Currency       string         `json:"currency"`
	Method         string         `json:"method,omitempty"`
	Provider       string         `json:"provider,omitempty"`
	ProviderTxnID  string         `json:"providerTxnId,omitempty"`
	Status         string         `json:"status"`
	ReceiptNumber  string         `json:"receiptNumber"`
	CardBrand      string         `json:"cardBrand,omitempty"`
	CardLast4      string         `json:"cardLast4,omitempty"`
	BillingName    string         `json:"billingName,omitempty"`
	BillingEmail   string         `json:"billingEmail,omitempty"`
	BillingAddress map[string]any `json:"billingAddress,omitempty"`
}

func newPaymentResponse(payment domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		CreatedAt:      payment.CreatedAt,
		StudentID:      payment.StudentID,
		Amount:         payment.Amount.InexactFloat64(),
		TaxAmount:      payment.TaxAmount.InexactFloat64(),
		TotalAmount:    payment.TotalAmount.InexactFloat64(),
		Currency:       payment.Currency,
		Method:         payment.Method,
		Provider:       payment.Provider,
		ProviderTxnID:  payment.ProviderTxnID,
		Status:         payment.Status,
		ReceiptNumber:  payment.ReceiptNumber,
		CardBrand:      payment.CardBrand,
		CardLast4:      payment.CardLast4,
		BillingName:    payment.BillingName,
		BillingEmail:   payment.BillingEmail,
		BillingAddress: payment.BillingAddress,
	}
}

// Index GET RouteGroup + PaymentsRoute. Платежи текущего юзера, новые первыми.
func (h *PaymentsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	payments, err := h.paymentSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		response[i] = newPaymentResponse(payment)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + PaymentRoute.
func (h *PaymentsHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	paymentID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, errInvalidPaymentID).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	payment, err := h.paymentSvs.GetByID(reqCtx, currentUserID, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, err).SetType(gin.ErrorTypePrivate)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(*payment))
}
