package transaction

import (
	"context"
	"strconv"
	"time"
)

// Repository manages transaction persistence
type Repository interface {
	// Save stores a new transaction and assigns its ID
	Save(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID.
	// Returns ErrTransactionNotFound if no transaction exists.
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// FindByCardInWindow retrieves same-card history whose occurrence time
	// falls in the half-open window (from, to].
	FindByCardInWindow(ctx context.Context, cardNumber string, from, to time.Time) ([]*Transaction, error)

	// Update rewrites an existing transaction (feedback assignment).
	// Returns ErrTransactionNotFound if the transaction doesn't exist.
	Update(ctx context.Context, tx *Transaction) error

	// ListAll returns the full history ordered by ID ascending
	ListAll(ctx context.Context) ([]*Transaction, error)

	// ListByCard returns same-card history ordered by ID ascending
	ListByCard(ctx context.Context, cardNumber string) ([]*Transaction, error)
}

// ErrTransactionNotFound indicates a missing transaction
type ErrTransactionNotFound struct {
	ID int64
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + strconv.FormatInt(e.ID, 10)
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// A zero target ID matches any ErrTransactionNotFound
	if t.ID == 0 {
		return true
	}
	return e.ID == t.ID
}

// ErrFeedbackExists indicates feedback was already recorded for a transaction
type ErrFeedbackExists struct {
	ID int64
}

func (e ErrFeedbackExists) Error() string {
	return "feedback already recorded for transaction: " + strconv.FormatInt(e.ID, 10)
}

// ErrFeedbackUnchanged indicates feedback that matches the original verdict
type ErrFeedbackUnchanged struct {
	ID      int64
	Verdict Verdict
}

func (e ErrFeedbackUnchanged) Error() string {
	return "feedback matches original verdict " + string(e.Verdict) + " for transaction: " + strconv.FormatInt(e.ID, 10)
}

// ErrNoCardHistory indicates no transactions exist for a card number
type ErrNoCardHistory struct {
	CardNumber string
}

func (e ErrNoCardHistory) Error() string {
	return "no transaction history for card number: " + e.CardNumber
}
