package service

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// ReceiptGenerator выдает кандидатов в номера чеков. Уникальность гарантирует база.
type ReceiptGenerator interface {
	Generate() (string, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student repoargs.CreateStudent) (*domain.StudentProfile, error)
	FindByID(ctx context.Context, id int64) (*domain.StudentProfile, error)
	GetByParentID(ctx context.Context, parentID int64) ([]domain.StudentProfile, error)
}

type CourseRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Course, error)
	GetActive(ctx context.Context) ([]domain.Course, error)
	GetEnrolled(ctx context.Context, userID int64, studentID *int64) ([]domain.Course, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment repoargs.CreatePayment) (*domain.Payment, error)
	FindByIdempotencyKey(ctx context.Context, userID int64, provider, providerTxnID string) (*domain.Payment, error)
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Payment, error)
}

type EnrollmentRepository interface {
	Exists(ctx context.Context, key domain.EnrollmentKey) (bool, error)
	Create(ctx context.Context, enrollment repoargs.CreateEnrollment) (*domain.UserCourse, error)
	CountByStudentIDs(ctx context.Context, studentIDs []int64) (map[int64]int64, error)
}
