package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/internal/service/mocks"
	"github.com/fsdevblog/learn2code/pkg/uow"
	uowmocks "github.com/fsdevblog/learn2code/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	mockCtrl           *gomock.Controller
	mockUOW            *uowmocks.MockUOW
	mockTX             *uowmocks.MockTX
	mockUserRepo       *mocks.MockUserRepository
	mockStudentRepo    *mocks.MockStudentRepository
	mockCourseRepo     *mocks.MockCourseRepository
	mockPaymentRepo    *mocks.MockPaymentRepository
	mockEnrollmentRepo *mocks.MockEnrollmentRepository
	mockReceipts       *mocks.MockReceiptGenerator
	checkoutService    *CheckoutService
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

func (s *CheckoutServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockStudentRepo = mocks.NewMockStudentRepository(s.mockCtrl)
	s.mockCourseRepo = mocks.NewMockCourseRepository(s.mockCtrl)
	s.mockPaymentRepo = mocks.NewMockPaymentRepository(s.mockCtrl)
	s.mockEnrollmentRepo = mocks.NewMockEnrollmentRepository(s.mockCtrl)
	s.mockReceipts = mocks.NewMockReceiptGenerator(s.mockCtrl)

	// Репозитории транзакции.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.StudentRepoName)).Return(s.mockStudentRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CourseRepoName)).Return(s.mockCourseRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.PaymentRepoName)).Return(s.mockPaymentRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.EnrollmentRepoName)).
		Return(s.mockEnrollmentRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)
	s.checkoutService = NewCheckoutService(s.mockUOW, s.mockReceipts, l)
}

func (s *CheckoutServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTransaction мок uow.Do, выполняющий fn с транзакцией-моком.
func (s *CheckoutServiceTestSuite) expectTransaction() {
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).Times(1)
}

func (s *CheckoutServiceTestSuite) expectUser(userID int64) {
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
}

func (s *CheckoutServiceTestSuite) expectCourse(courseID int64) {
	s.mockCourseRepo.EXPECT().FindByID(gomock.Any(), courseID).Return(&domain.Course{ID: courseID}, nil)
}

func (s *CheckoutServiceTestSuite) expectEnrollment(userID, courseID int64, studentID *int64, paymentID int64) {
	s.mockEnrollmentRepo.EXPECT().
		Exists(gomock.Any(), domain.NewEnrollmentKey(userID, courseID, studentID)).
		Return(false, nil)
	s.expectCourse(courseID)
	s.mockEnrollmentRepo.EXPECT().
		Create(gomock.Any(), repoargs.CreateEnrollment{
			UserID:    userID,
			CourseID:  courseID,
			StudentID: studentID,
			PaymentID: paymentID,
		}).
		Return(&domain.UserCourse{UserID: userID, CourseID: courseID, StudentID: studentID, PaymentID: paymentID}, nil)
}

func (s *CheckoutServiceTestSuite) TestEmptyCourses() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{UserID: 1})
	s.Require().ErrorIs(err, domain.ErrInvalidRequest)
	s.Nil(res)
}

func (s *CheckoutServiceTestSuite) TestValidationErrors() {
	var foreignStudentID, missingStudentID int64 = 6, 7

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&domain.User{ID: 1}, nil).AnyTimes()
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)

	s.mockStudentRepo.EXPECT().FindByID(gomock.Any(), foreignStudentID).
		Return(&domain.StudentProfile{ID: foreignStudentID, ParentUserID: 2}, nil)
	s.mockStudentRepo.EXPECT().FindByID(gomock.Any(), missingStudentID).
		Return(nil, domain.ErrRecordNotFound)

	// Ни одного обращения к платежам и зачислениям.
	s.mockPaymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockEnrollmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		name    string
		args    CheckoutArgs
		wantErr error
	}{
		{
			name:    "unknown user",
			args:    CheckoutArgs{UserID: 404, CourseIDs: []int64{10}},
			wantErr: domain.ErrInvalidUser,
		},
		{
			name:    "foreign student",
			args:    CheckoutArgs{UserID: 1, StudentID: &foreignStudentID, CourseIDs: []int64{10}},
			wantErr: domain.ErrInvalidStudent,
		},
		{
			name:    "missing student",
			args:    CheckoutArgs{UserID: 1, StudentID: &missingStudentID, CourseIDs: []int64{10}},
			wantErr: domain.ErrInvalidStudent,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := s.checkoutService.Checkout(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)
			s.Nil(res)
		})
	}
}

func (s *CheckoutServiceTestSuite) TestCreatesPaymentAndEnrollments() {
	var userID, paymentID int64 = 1, 100
	amount := decimal.RequireFromString("20.00")
	tax := decimal.RequireFromString("1.60")

	s.expectTransaction()
	s.expectUser(userID)
	s.mockPaymentRepo.EXPECT().
		FindByIdempotencyKey(gomock.Any(), userID, "stripe", "tx1").
		Return(nil, domain.ErrRecordNotFound)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-ABC123", nil)

	var saved repoargs.CreatePayment
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			saved = args
			return &domain.Payment{ID: paymentID, UserID: userID, ReceiptNumber: args.ReceiptNumber}, nil
		})

	s.expectEnrollment(userID, 10, nil, paymentID)
	s.expectEnrollment(userID, 11, nil, paymentID)

	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
		UserID:        userID,
		CourseIDs:     []int64{10, 11},
		Amount:        &amount,
		TaxAmount:     &tax,
		Provider:      "stripe",
		ProviderTxnID: "tx1",
	})
	s.Require().NoError(err)
	s.Equal(&CheckoutResult{PaymentID: paymentID, ReceiptNumber: "LC-20250101-ABC123"}, res)

	s.True(decimal.RequireFromString("21.60").Equal(saved.TotalAmount), "total = amount + tax")
	s.Equal(DefaultCurrency, saved.Currency)
	s.Equal(DefaultPaymentStatus, saved.Status)
	s.Equal("LC-20250101-ABC123", saved.ReceiptNumber)
}

func (s *CheckoutServiceTestSuite) TestExplicitTotalIsKept() {
	var userID int64 = 1
	amount := decimal.RequireFromString("20.00")
	total := decimal.RequireFromString("25.00")

	s.expectTransaction()
	s.expectUser(userID)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-000001", nil)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			s.True(total.Equal(args.TotalAmount))
			s.True(decimal.Zero.Equal(args.TaxAmount))
			s.Equal("EUR", args.Currency)
			return &domain.Payment{ID: 1, ReceiptNumber: args.ReceiptNumber}, nil
		})
	s.expectEnrollment(userID, 10, nil, 1)

	// без ключа идемпотентности поиск платежа не выполняется.
	s.mockPaymentRepo.EXPECT().FindByIdempotencyKey(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
		UserID:      userID,
		CourseIDs:   []int64{10},
		Amount:      &amount,
		TotalAmount: &total,
		Currency:    "EUR",
		Provider:    "stripe",
	})
	s.Require().NoError(err)
}

func (s *CheckoutServiceTestSuite) TestIdempotentReplay() {
	var userID int64 = 1
	existing := &domain.Payment{ID: 100, UserID: userID, ReceiptNumber: "LC-20250101-ABC123"}

	s.expectTransaction()
	s.expectUser(userID)
	s.mockPaymentRepo.EXPECT().
		FindByIdempotencyKey(gomock.Any(), userID, "stripe", "tx1").
		Return(existing, nil)

	// Новый платеж не создается, номер чека не генерируется.
	s.mockPaymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockReceipts.EXPECT().Generate().Times(0)

	// На курс 10 юзер уже зачислен, на курс 11 дозачисляется в рамках существующего платежа.
	s.mockEnrollmentRepo.EXPECT().
		Exists(gomock.Any(), domain.NewEnrollmentKey(userID, 10, nil)).
		Return(true, nil)
	s.expectEnrollment(userID, 11, nil, existing.ID)

	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
		UserID:        userID,
		CourseIDs:     []int64{10, 11},
		Provider:      "stripe",
		ProviderTxnID: "tx1",
	})
	s.Require().NoError(err)
	s.Equal(&CheckoutResult{PaymentID: existing.ID, ReceiptNumber: existing.ReceiptNumber, Replayed: true}, res)
}

func (s *CheckoutServiceTestSuite) TestReceiptCollisionRetry() {
	var userID int64 = 1
	collision := domain.NewDuplicateKeyError(domain.PaymentReceiptUniqueIndex)

	s.expectTransaction()
	s.expectUser(userID)
	gomock.InOrder(
		s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil),
		s.mockReceipts.EXPECT().Generate().Return("LC-20250101-BBBBBB", nil),
		s.mockReceipts.EXPECT().Generate().Return("LC-20250101-CCCCCC", nil),
	)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			if args.ReceiptNumber != "LC-20250101-CCCCCC" {
				return nil, collision
			}
			return &domain.Payment{ID: 7, ReceiptNumber: args.ReceiptNumber}, nil
		}).Times(3)
	s.expectEnrollment(userID, 10, nil, 7)

	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{UserID: userID, CourseIDs: []int64{10}})
	s.Require().NoError(err)
	s.Equal("LC-20250101-CCCCCC", res.ReceiptNumber)
}

func (s *CheckoutServiceTestSuite) TestReceiptGenerationExhausted() {
	var userID int64 = 1

	s.expectTransaction()
	s.expectUser(userID)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil).Times(receiptAttempts)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewDuplicateKeyError(domain.PaymentReceiptUniqueIndex)).
		Times(receiptAttempts)
	s.mockEnrollmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{UserID: userID, CourseIDs: []int64{10}})
	s.Require().ErrorIs(err, domain.ErrReceiptGenerationExhausted)
	s.NotErrorIs(err, domain.ErrPersistenceConflict)
	s.Nil(res)
}

func (s *CheckoutServiceTestSuite) TestConcurrentIdempotencyKeyConflict() {
	var userID int64 = 1

	s.expectTransaction()
	s.expectUser(userID)
	s.mockPaymentRepo.EXPECT().
		FindByIdempotencyKey(gomock.Any(), userID, "stripe", "tx1").
		Return(nil, domain.ErrRecordNotFound)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil).Times(1)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewDuplicateKeyError(domain.PaymentProviderTxnIndex)).
		Times(1)

	_, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
		UserID:        userID,
		CourseIDs:     []int64{10},
		Provider:      "stripe",
		ProviderTxnID: "tx1",
	})
	s.Require().ErrorIs(err, domain.ErrPersistenceConflict)
}

func (s *CheckoutServiceTestSuite) TestEnrollmentConflicts() {
	var userID, studentID int64 = 1, 5
	student := &domain.StudentProfile{ID: studentID, ParentUserID: userID}

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).Times(2)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil).Times(2)
	s.mockStudentRepo.EXPECT().FindByID(gomock.Any(), studentID).Return(student, nil).Times(2)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil).Times(2)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&domain.Payment{ID: 1, ReceiptNumber: "LC-20250101-AAAAAA"}, nil).
		Times(2)

	s.mockEnrollmentRepo.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	s.mockCourseRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(&domain.Course{ID: 10}, nil).Times(2)

	s.Run("own index is already enrolled", func() {
		s.mockEnrollmentRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewDuplicateKeyError(domain.UserCourseStudentUniqueIndex))

		res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
			UserID:    userID,
			StudentID: &studentID,
			CourseIDs: []int64{10},
		})
		s.Require().NoError(err)
		s.Equal(int64(1), res.PaymentID)
	})

	s.Run("foreign index is fatal", func() {
		s.mockEnrollmentRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewDuplicateKeyError(domain.UserCourseUniqueIndex))

		res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
			UserID:    userID,
			StudentID: &studentID,
			CourseIDs: []int64{10},
		})
		s.Require().ErrorIs(err, domain.ErrPersistenceConflict)
		s.Nil(res)
	})
}

func (s *CheckoutServiceTestSuite) TestSkipsUnknownCourses() {
	var userID int64 = 1

	s.expectTransaction()
	s.expectUser(userID)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil)
	s.mockPaymentRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&domain.Payment{ID: 3, ReceiptNumber: "LC-20250101-AAAAAA"}, nil)

	s.expectEnrollment(userID, 10, nil, 3)
	s.mockEnrollmentRepo.EXPECT().
		Exists(gomock.Any(), domain.NewEnrollmentKey(userID, 999, nil)).
		Return(false, nil)
	s.mockCourseRepo.EXPECT().FindByID(gomock.Any(), int64(999)).Return(nil, domain.ErrRecordNotFound)

	// Неположительные id пропускаются без обращения к базе.
	res, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{
		UserID:    userID,
		CourseIDs: []int64{10, 999, 0, -4},
	})
	s.Require().NoError(err)
	s.Equal(int64(3), res.PaymentID)
}

func (s *CheckoutServiceTestSuite) TestRepositoryFailureIsPropagated() {
	var userID int64 = 1
	dbErr := errors.New("connection reset")

	s.expectTransaction()
	s.expectUser(userID)
	s.mockReceipts.EXPECT().Generate().Return("LC-20250101-AAAAAA", nil).Times(1)
	s.mockPaymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, dbErr).Times(1)

	_, err := s.checkoutService.Checkout(s.T().Context(), CheckoutArgs{UserID: userID, CourseIDs: []int64{10}})
	s.Require().ErrorIs(err, dbErr)
	s.NotErrorIs(err, domain.ErrPersistenceConflict)
}
