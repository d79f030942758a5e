package service

import (
	"context"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/engine"
)

// TransactionService defines the interface for transaction evaluation and
// history operations
type TransactionService interface {
	// EvaluateTransaction classifies a candidate transaction, persists it,
	// and publishes a verdict event on the audit stream
	EvaluateTransaction(ctx context.Context, cand engine.Candidate, correlationID string) (*engine.Evaluation, error)

	// SubmitFeedback records a reviewer's corrected verdict and adjusts the
	// engine's thresholds
	SubmitFeedback(ctx context.Context, transactionID int64, feedback string) (*transaction.Transaction, error)

	// GetHistory returns the full evaluated history ordered by ID ascending
	GetHistory(ctx context.Context) ([]*transaction.Transaction, error)

	// GetHistoryByCard returns same-card history ordered by ID ascending.
	// Returns ErrNoCardHistory when the card has no evaluated transactions.
	GetHistoryByCard(ctx context.Context, cardNumber string) ([]*transaction.Transaction, error)
}

// BlacklistService maintains the suspicious IP and stolen card sets and
// answers the engine's membership queries
type BlacklistService interface {
	AddSuspiciousIP(ctx context.Context, ip string) (*blacklist.SuspiciousIP, error)
	RemoveSuspiciousIP(ctx context.Context, ip string) error
	ListSuspiciousIPs(ctx context.Context) ([]*blacklist.SuspiciousIP, error)

	AddStolenCard(ctx context.Context, cardNumber string) (*blacklist.StolenCard, error)
	RemoveStolenCard(ctx context.Context, cardNumber string) error
	ListStolenCards(ctx context.Context) ([]*blacklist.StolenCard, error)

	// IsSuspiciousIP and IsStolenCard satisfy engine.BlacklistOracle
	IsSuspiciousIP(ctx context.Context, ip string) (bool, error)
	IsStolenCard(ctx context.Context, cardNumber string) (bool, error)
}
