package repoargs

import (
	"github.com/shopspring/decimal"
)

type CreatePayment struct {
	UserID         int64
	StudentID      *int64
	Amount         decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	Currency       string
	Method         string
	Provider       string
	ProviderTxnID  string
	Status         string
	ReceiptNumber  string
	CardBrand      string
	CardLast4      string
	BillingName    string
	BillingEmail   string
	BillingAddress map[string]any
}

type CreateEnrollment struct {
	UserID    int64
	CourseID  int64
	StudentID *int64
	PaymentID int64
}
