package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/engine"
	"github.com/antifraud-service/internal/platform/messaging/producers"
	"github.com/antifraud-service/internal/validation"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	engine       *engine.Engine
	transactions transaction.Repository
	producer     producers.MessagePublisher
	logger       *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, eng *engine.Engine, transactions transaction.Repository, producer producers.MessagePublisher) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		engine:       eng,
		transactions: transactions,
		producer:     producer,
		logger:       logger,
	}
}

// EvaluateTransaction classifies a candidate transaction via the engine and
// publishes a verdict event on the audit stream. Publish failures are logged
// and never surfaced as business outcomes.
func (s *TransactionServiceImpl) EvaluateTransaction(ctx context.Context, cand engine.Candidate, correlationID string) (*engine.Evaluation, error) {
	eval, err := s.engine.Evaluate(ctx, cand)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		event := producers.VerdictEvent{
			TransactionID: eval.Record.ID,
			CardNumber:    eval.Record.CardNumber,
			Amount:        eval.Record.Amount,
			Region:        string(eval.Record.Region),
			Verdict:       string(eval.Verdict),
			Reason:        eval.Reason,
			OccurredAt:    eval.Record.OccurredAt,
			CorrelationID: correlationID,
		}
		key := strconv.FormatInt(eval.Record.ID, 10)
		if err := s.producer.Publish(ctx, key, event); err != nil {
			s.logger.Error("Failed to publish verdict event",
				"transaction_id", eval.Record.ID,
				"verdict", string(eval.Verdict),
				"error", err,
			)
		}
	}

	return eval, nil
}

// SubmitFeedback records a reviewer's corrected verdict via the engine
func (s *TransactionServiceImpl) SubmitFeedback(ctx context.Context, transactionID int64, feedback string) (*transaction.Transaction, error) {
	return s.engine.ApplyFeedback(ctx, transactionID, feedback)
}

// GetHistory returns the full evaluated history ordered by ID ascending
func (s *TransactionServiceImpl) GetHistory(ctx context.Context) ([]*transaction.Transaction, error) {
	return s.transactions.ListAll(ctx)
}

// GetHistoryByCard returns same-card history ordered by ID ascending.
// The card number is Luhn-validated before the store is touched.
func (s *TransactionServiceImpl) GetHistoryByCard(ctx context.Context, cardNumber string) ([]*transaction.Transaction, error) {
	if !validation.ValidLuhn(cardNumber) {
		return nil, validation.FormatError{Field: "number", Reason: "failed Luhn check"}
	}

	history, err := s.transactions.ListByCard(ctx, cardNumber)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, transaction.ErrNoCardHistory{CardNumber: cardNumber}
	}

	return history, nil
}
