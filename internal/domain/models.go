package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultUserRole = "PARENT"

type User struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
}

type StudentProfile struct {
	ID           int64
	CreatedAt    time.Time
	ParentUserID int64
	Name         string
	Age          *int32
	AvatarURL    string
}

// StudentWithStats профиль ученика с количеством курсов, на которые он записан.
type StudentWithStats struct {
	StudentProfile
	CoursesEnrolled int64
}

type Course struct {
	ID          int64
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	IsActive    bool
}

type Payment struct {
	ID             int64
	CreatedAt      time.Time
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

// UserCourse запись о зачислении пользователя (и, опционально, его ученика) на курс.
type UserCourse struct {
	ID          int64
	PurchasedAt time.Time
	UserID      int64
	CourseID    int64
	StudentID   *int64
	PaymentID   int64
}
