package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCurrency      = "USD"
	DefaultPaymentStatus = "completed"

	// receiptAttempts общее количество попыток сохранить платеж с новым номером чека.
	receiptAttempts = 3
)

// CheckoutService оформляет покупку курсов: записывает платеж и зачисляет юзера (или его ученика) на курсы.
type CheckoutService struct {
	uow      uow.UOW
	receipts ReceiptGenerator
	l        *logrus.Entry
}

func NewCheckoutService(u uow.UOW, receipts ReceiptGenerator, l *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		uow:      u,
		receipts: receipts,
		l: l.WithFields(logrus.Fields{
			"component": "checkout",
			"module":    "service",
		}),
	}
}

// CheckoutArgs аргументы оформления. Nil суммы и пустые строки считаются не переданными.
type CheckoutArgs struct {
	UserID         int64
	StudentID      *int64
	CourseIDs      []int64
	Amount         *decimal.Decimal
	TaxAmount      *decimal.Decimal
	TotalAmount    *decimal.Decimal
	Currency       string
	Method         string
	Provider       string
	ProviderTxnID  string
	Status         string
	CardBrand      string
	CardLast4      string
	BillingName    string
	BillingEmail   string
	BillingAddress map[string]any
}

// hasIdempotencyKey ключ идемпотентности действует только когда заданы и провайдер, и id его транзакции.
func (a CheckoutArgs) hasIdempotencyKey() bool {
	return a.Provider != "" && a.ProviderTxnID != ""
}

// paymentArgs применяет значения по умолчанию: amount и taxAmount - 0, totalAmount - amount+taxAmount,
// currency - USD, status - completed.
func (a CheckoutArgs) paymentArgs(userID int64, studentID *int64) repoargs.CreatePayment {
	amount := valueOrZero(a.Amount)
	taxAmount := valueOrZero(a.TaxAmount)
	total := amount.Add(taxAmount)
	if a.TotalAmount != nil {
		total = *a.TotalAmount
	}

	return repoargs.CreatePayment{
		UserID:         userID,
		StudentID:      studentID,
		Amount:         amount,
		TaxAmount:      taxAmount,
		TotalAmount:    total,
		Currency:       defaultIfBlank(a.Currency, DefaultCurrency),
		Method:         a.Method,
		Provider:       a.Provider,
		ProviderTxnID:  a.ProviderTxnID,
		Status:         defaultIfBlank(a.Status, DefaultPaymentStatus),
		CardBrand:      a.CardBrand,
		CardLast4:      a.CardLast4,
		BillingName:    a.BillingName,
		BillingEmail:   a.BillingEmail,
		BillingAddress: a.BillingAddress,
	}
}

type CheckoutResult struct {
	PaymentID     int64
	ReceiptNumber string
	// Replayed true, если платеж найден по ключу идемпотентности и новый не создавался.
	Replayed bool
}

// checkoutRepos репозитории одной транзакции оформления.
type checkoutRepos struct {
	users       UserRepository
	students    StudentRepository
	courses     CourseRepository
	payments    PaymentRepository
	enrollments EnrollmentRepository
}

func checkoutReposFromTX(tx uow.TX) (*checkoutRepos, error) {
	var repos checkoutRepos
	var err error
	if repos.users, err = uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if repos.students, err = uow.GetAs[StudentRepository](tx, uow.RepositoryName(repoargs.StudentRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if repos.courses, err = uow.GetAs[CourseRepository](tx, uow.RepositoryName(repoargs.CourseRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if repos.payments, err = uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	repos.enrollments, err = uow.GetAs[EnrollmentRepository](tx, uow.RepositoryName(repoargs.EnrollmentRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &repos, nil
}

// Checkout оформляет покупку курсов args.CourseIDs.
//
// Алгоритм работы (все шаги в одной транзакции):
//  1. Проверяет запрос: пустой список курсов - domain.ErrInvalidRequest, неизвестный юзер - domain.ErrInvalidUser,
//     чужой или несуществующий ученик - domain.ErrInvalidStudent.
//  2. Если передан ключ идемпотентности и платеж по нему уже есть, дозачисляет недостающие курсы на существующий
//     платеж и возвращает его.
//  3. Иначе создает платеж с новым номером чека, повторяя попытку при коллизии номера (не более receiptAttempts раз,
//     затем domain.ErrReceiptGenerationExhausted).
//  4. Зачисляет на каждый курс, на который еще нет зачисления. Несуществующие курсы молча пропускаются.
//
// Нарушение уникальности, не объяснимое повторным зачислением или коллизией номера чека, возвращается как
// domain.ErrPersistenceConflict.
func (s *CheckoutService) Checkout(ctx context.Context, args CheckoutArgs) (*CheckoutResult, error) {
	if len(args.CourseIDs) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	var result *CheckoutResult
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repos, reposErr := checkoutReposFromTX(tx)
		if reposErr != nil {
			return reposErr
		}

		user, userErr := resolveUser(c, repos.users, args.UserID)
		if userErr != nil {
			return userErr
		}
		studentID, studentErr := resolveStudent(c, repos.students, user.ID, args.StudentID)
		if studentErr != nil {
			return studentErr
		}

		if args.hasIdempotencyKey() {
			existing, findErr := repos.payments.FindByIdempotencyKey(c, user.ID, args.Provider, args.ProviderTxnID)
			switch {
			case findErr == nil:
				s.l.WithFields(logrus.Fields{
					"userID":    user.ID,
					"paymentID": existing.ID,
					"provider":  args.Provider,
				}).Info("idempotent checkout replay")

				if err := s.enroll(c, repos, existing.ID, user.ID, studentID, args.CourseIDs); err != nil {
					return err
				}
				result = &CheckoutResult{
					PaymentID:     existing.ID,
					ReceiptNumber: existing.ReceiptNumber,
					Replayed:      true,
				}
				return nil
			case !errors.Is(findErr, domain.ErrRecordNotFound):
				return findErr
			}
		}

		payment, paymentErr := s.createPayment(c, repos.payments, args.paymentArgs(user.ID, studentID))
		if paymentErr != nil {
			return paymentErr
		}

		if err := s.enroll(c, repos, payment.ID, user.ID, studentID, args.CourseIDs); err != nil {
			return err
		}
		result = &CheckoutResult{
			PaymentID:     payment.ID,
			ReceiptNumber: payment.ReceiptNumber,
		}
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("checkout: %w", txErr)
	}
	return result, nil
}

func resolveUser(ctx context.Context, repo UserRepository, userID int64) (*domain.User, error) {
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidUser
		}
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// resolveStudent проверяет, что ученик существует и принадлежит родителю parentID. Возвращает id ученика
// или nil, если ученик не передан.
func resolveStudent(ctx context.Context, repo StudentRepository, parentID int64, studentID *int64) (*int64, error) {
	if studentID == nil {
		return nil, nil //nolint:nilnil
	}
	student, err := repo.FindByID(ctx, *studentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidStudent
		}
		return nil, err //nolint:wrapcheck
	}
	if student.ParentUserID != parentID {
		return nil, domain.ErrInvalidStudent
	}
	return &student.ID, nil
}

// createPayment сохраняет платеж, генерируя новый номер чека на каждую попытку.
func (s *CheckoutService) createPayment(
	ctx context.Context,
	repo PaymentRepository,
	args repoargs.CreatePayment,
) (*domain.Payment, error) {
	isReceiptCollision := func(err error) bool {
		return domain.IsDuplicateOf(err, domain.PaymentReceiptUniqueIndex)
	}

	payment, err := retryOnConflict(ctx, receiptAttempts, isReceiptCollision, domain.ErrReceiptGenerationExhausted,
		func(c context.Context, attempt int) (*domain.Payment, error) {
			receipt, genErr := s.receipts.Generate()
			if genErr != nil {
				return nil, genErr //nolint:wrapcheck
			}
			args.ReceiptNumber = receipt

			created, createErr := repo.Create(c, args)
			if isReceiptCollision(createErr) {
				s.l.WithFields(logrus.Fields{
					"receipt": receipt,
					"attempt": fmt.Sprintf("#%d / %d", attempt, receiptAttempts),
				}).Warn("receipt number collision")
			}
			return created, createErr //nolint:wrapcheck
		},
	)
	if err != nil {
		if !errors.Is(err, domain.ErrReceiptGenerationExhausted) && errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceConflict, err)
		}
		return nil, err
	}
	return payment, nil
}

// enroll зачисляет юзера на курсы courseIDs в рамках платежа paymentID. Курсы, на которые зачисление уже
// есть, пропускаются. Несуществующие курсы также пропускаются без ошибки.
func (s *CheckoutService) enroll(
	ctx context.Context,
	repos *checkoutRepos,
	paymentID, userID int64,
	studentID *int64,
	courseIDs []int64,
) error {
	for _, courseID := range courseIDs {
		if courseID <= 0 {
			continue
		}
		key := domain.NewEnrollmentKey(userID, courseID, studentID)

		exists, existsErr := repos.enrollments.Exists(ctx, key)
		if existsErr != nil {
			return existsErr //nolint:wrapcheck
		}
		if exists {
			continue
		}

		course, courseErr := repos.courses.FindByID(ctx, courseID)
		if courseErr != nil {
			if errors.Is(courseErr, domain.ErrRecordNotFound) {
				s.l.WithFields(logrus.Fields{
					"userID":   userID,
					"courseID": courseID,
				}).Debug("skip enrollment to unknown course")
				continue
			}
			return courseErr //nolint:wrapcheck
		}

		_, createErr := repos.enrollments.Create(ctx, repoargs.CreateEnrollment{
			UserID:    userID,
			CourseID:  course.ID,
			StudentID: studentID,
			PaymentID: paymentID,
		})
		if createErr != nil {
			// конкурентный запрос успел зачислить по тому же ключу.
			if domain.IsDuplicateOf(createErr, key.UniqueIndex()) {
				continue
			}
			if errors.Is(createErr, domain.ErrDuplicateKey) {
				return fmt.Errorf("%w: %w", domain.ErrPersistenceConflict, createErr)
			}
			return createErr //nolint:wrapcheck
		}
	}
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
