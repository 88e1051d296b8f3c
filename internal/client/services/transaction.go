package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

type TransactionService interface {
	Deposit(ctx context.Context, amount float64) (*models.Transaction, error)
	Withdraw(ctx context.Context, amount float64) (*models.Transaction, error)
	Transfer(ctx context.Context, slip models.TransferSlip) (*models.Transaction, error)
	History(ctx context.Context, page, size int) (*models.Page[models.Transaction], error)
}

type transactionService struct {
	api API
}

func NewTransactionService(api API) TransactionService {
	return &transactionService{api: api}
}

func (s *transactionService) Deposit(ctx context.Context, amount float64) (*models.Transaction, error) {
	return s.move(ctx, "deposit", amount)
}

func (s *transactionService) Withdraw(ctx context.Context, amount float64) (*models.Transaction, error) {
	return s.move(ctx, "withdraw", amount)
}

// move posts the bare amount, which is what the backend expects for
// deposits and withdrawals.
func (s *transactionService) move(ctx context.Context, kind string, amount float64) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	resp, err := s.api.Post(ctx, "/transactions/"+kind, amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	var tx models.Transaction
	if err := resp.DecodeJSON(&tx); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return &tx, nil
}

func (s *transactionService) Transfer(ctx context.Context, slip models.TransferSlip) (*models.Transaction, error) {
	switch {
	case slip.SenderAccountNumber <= 0 || slip.ReceiverAccountNumber <= 0:
		return nil, fmt.Errorf("%w: sender and receiver account numbers are required", common.ErrValidation)
	case slip.SenderAccountNumber == slip.ReceiverAccountNumber:
		return nil, fmt.Errorf("%w: cannot transfer to the same account", common.ErrValidation)
	case slip.Amount < MinTransferAmount:
		return nil, fmt.Errorf("%w: amount should be at least %.2f", common.ErrValidation, MinTransferAmount)
	}

	resp, err := s.api.Post(ctx, "/transactions/transfer", slip)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	var tx models.Transaction
	if err := resp.DecodeJSON(&tx); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	return &tx, nil
}

func (s *transactionService) History(ctx context.Context, page, size int) (*models.Page[models.Transaction], error) {
	resp, err := s.api.Get(ctx, "/transactions/history", pageQuery(page, size)...)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	var p models.Page[models.Transaction]
	if err := resp.DecodeJSON(&p); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &p, nil
}
