package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
)

type PaymentService struct {
	paymentRepo PaymentRepository
}

func NewPaymentService(u uow.UOW) (*PaymentService, error) {
	paymentRepo, paymentRepoErr := uow.GetRepositoryAs[PaymentRepository](
		u,
		uow.RepositoryName(repoargs.PaymentRepoName),
	)
	if paymentRepoErr != nil {
		return nil, paymentRepoErr //nolint:wrapcheck
	}
	return &PaymentService{paymentRepo: paymentRepo}, nil
}

// GetByUserID платежи юзера, новые первыми.
func (s *PaymentService) GetByUserID(ctx context.Context, userID int64) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	return payments, nil
}

// GetByID платеж юзера userID. Чужой платеж неотличим от отсутствующего: domain.ErrRecordNotFound.
func (s *PaymentService) GetByID(ctx context.Context, userID, paymentID int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment.UserID != userID {
		return nil, fmt.Errorf("get payment: %w", domain.ErrRecordNotFound)
	}
	return payment, nil
}
