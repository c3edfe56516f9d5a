package service

import (
	"testing"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/internal/service/mocks"
	"github.com/fsdevblog/learn2code/pkg/uow"
	uowmocks "github.com/fsdevblog/learn2code/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *mocks.MockPaymentRepository
	mockCourseRepo  *mocks.MockCourseRepository
	mockStudentRepo *mocks.MockStudentRepository
	paymentService  *PaymentService
	catalogService  *CatalogService
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	mockUOW := uowmocks.NewMockUOW(mockCtrl)
	s.mockPaymentRepo = mocks.NewMockPaymentRepository(mockCtrl)
	s.mockCourseRepo = mocks.NewMockCourseRepository(mockCtrl)
	s.mockStudentRepo = mocks.NewMockStudentRepository(mockCtrl)

	mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.PaymentRepoName)).
		Return(s.mockPaymentRepo, nil).AnyTimes()
	mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.CourseRepoName)).
		Return(s.mockCourseRepo, nil).AnyTimes()
	mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.StudentRepoName)).
		Return(s.mockStudentRepo, nil).AnyTimes()

	var err error
	s.paymentService, err = NewPaymentService(mockUOW)
	s.Require().NoError(err)
	s.catalogService, err = NewCatalogService(mockUOW)
	s.Require().NoError(err)
}

func (s *PaymentServiceTestSuite) TestGetByID() {
	own := &domain.Payment{ID: 1, UserID: 1}
	foreign := &domain.Payment{ID: 2, UserID: 2}

	s.mockPaymentRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(own, nil)
	s.mockPaymentRepo.EXPECT().FindByID(gomock.Any(), int64(2)).Return(foreign, nil)
	s.mockPaymentRepo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name        string
		paymentID   int64
		wantErr     error
		wantPayment *domain.Payment
	}{
		{name: "own payment", paymentID: 1, wantPayment: own},
		{name: "foreign payment", paymentID: 2, wantErr: domain.ErrRecordNotFound},
		{name: "missing payment", paymentID: 3, wantErr: domain.ErrRecordNotFound},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			payment, err := s.paymentService.GetByID(s.T().Context(), 1, t.paymentID)
			s.Require().ErrorIs(err, t.wantErr)
			s.Equal(t.wantPayment, payment)
		})
	}
}

func (s *PaymentServiceTestSuite) TestUserCourses() {
	var ownStudentID, foreignStudentID int64 = 20, 21
	courses := []domain.Course{{ID: 10, Title: "Scratch"}}

	s.mockStudentRepo.EXPECT().FindByID(gomock.Any(), ownStudentID).
		Return(&domain.StudentProfile{ID: ownStudentID, ParentUserID: 1}, nil)
	s.mockStudentRepo.EXPECT().FindByID(gomock.Any(), foreignStudentID).
		Return(&domain.StudentProfile{ID: foreignStudentID, ParentUserID: 2}, nil)
	s.mockCourseRepo.EXPECT().GetEnrolled(gomock.Any(), int64(1), nil).Return(courses, nil)
	s.mockCourseRepo.EXPECT().GetEnrolled(gomock.Any(), int64(1), &ownStudentID).Return(courses, nil)

	all, err := s.catalogService.UserCourses(s.T().Context(), 1, nil)
	s.Require().NoError(err)
	s.Equal(courses, all)

	byStudent, err := s.catalogService.UserCourses(s.T().Context(), 1, &ownStudentID)
	s.Require().NoError(err)
	s.Equal(courses, byStudent)

	_, err = s.catalogService.UserCourses(s.T().Context(), 1, &foreignStudentID)
	s.Require().ErrorIs(err, domain.ErrInvalidStudent)
}
