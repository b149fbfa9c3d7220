package service

import (
	"context"
	"math"
	"strings"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/models"
	"github.com/sirupsen/logrus"
)

// TransactionInput is the caller-supplied part of a transaction
type TransactionInput struct {
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Amount   float64     `json:"amount"`
	Date     models.Date `json:"date"`
}

func (in TransactionInput) validate() (TransactionInput, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Category = strings.TrimSpace(in.Category)
	if in.Type != models.TransactionIncome && in.Type != models.TransactionExpense {
		return in, invalid("type must be %q or %q", models.TransactionIncome, models.TransactionExpense)
	}
	if in.Category == "" {
		return in, invalid("category is required")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return in, invalid("amount must be a positive number")
	}
	if in.Date.IsZero() {
		return in, invalid("date is required")
	}
	return in, nil
}

// AddTransaction records a new transaction for userID
func (s *Service) AddTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	tx := &models.Transaction{
		UserID:   userID,
		Type:     in.Type,
		Category: in.Category,
		Amount:   in.Amount,
		Date:     in.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, storeErr(err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "type": tx.Type}).Debug("Transaction added")
	return tx, nil
}

// ListTransactions returns the user's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, models.TransactionFilter{NewestFirst: true})
	if err != nil {
		return nil, storeErr(err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// UpdateTransaction replaces one of the user's transactions
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, in TransactionInput) error {
	in, err := in.validate()
	if err != nil {
		return err
	}
	tx := &models.Transaction{
		ID:       id,
		UserID:   userID,
		Type:     in.Type,
		Category: in.Category,
		Amount:   in.Amount,
		Date:     in.Date,
	}
	return storeErr(s.repo.UpdateTransaction(ctx, tx))
}

// DeleteTransaction removes one of the user's transactions
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	return storeErr(s.repo.DeleteTransaction(ctx, userID, id))
}

// history loads a user's transactions as analytics records, oldest first
func (s *Service) history(ctx context.Context, userID string, f models.TransactionFilter) ([]analytics.Record, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, storeErr(err)
	}
	return toRecords(txs), nil
}

func toRecords(txs []models.Transaction) []analytics.Record {
	out := make([]analytics.Record, 0, len(txs))
	for _, t := range txs {
		out = append(out, analytics.Record{
			Type:     analytics.TxType(t.Type),
			Category: t.Category,
			Amount:   t.Amount,
			Date:     t.Date.Time,
		})
	}
	return out
}
