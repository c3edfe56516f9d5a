package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type CatalogServicer interface {
	ActiveCourses(ctx context.Context) ([]domain.Course, error)
	UserCourses(ctx context.Context, userID int64, studentID *int64) ([]domain.Course, error)
}

type StudentServicer interface {
	Create(ctx context.Context, args service.CreateStudentArgs) (*domain.StudentProfile, error)
	GetByParent(ctx context.Context, parentID int64) ([]domain.StudentProfile, error)
	GetByParentWithStats(ctx context.Context, parentID int64) ([]domain.StudentWithStats, error)
}

type PaymentServicer interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.Payment, error)
	GetByID(ctx context.Context, userID, paymentID int64) (*domain.Payment, error)
}

type CheckoutServicer interface {
	Checkout(ctx context.Context, args service.CheckoutArgs) (*service.CheckoutResult, error)
}
