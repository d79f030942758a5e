package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/platform/persistence"
	"github.com/jackc/pgx/v5/pgconn"
)

// StolenCardRepository implements the blacklist.StolenCardRepository interface for PostgreSQL
type StolenCardRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewStolenCardRepository creates a new PostgreSQL stolen card repository
func NewStolenCardRepository(logger *slog.Logger, db *persistence.PostgresDB) blacklist.StolenCardRepository {
	return &StolenCardRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Add stores a new stolen card number. Returns ErrCardExists when the unique
// constraint on the card_number column fires.
func (r *StolenCardRepository) Add(ctx context.Context, cardNumber string) (*blacklist.StolenCard, error) {
	query := `
		INSERT INTO stolen_cards (card_number, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	entry := &blacklist.StolenCard{
		CardNumber: cardNumber,
		CreatedAt:  time.Now(),
	}

	err := r.querier.QueryRow(ctx, query, entry.CardNumber, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, blacklist.ErrCardExists{CardNumber: cardNumber}
		}
		r.logger.Error("Failed to add stolen card", "card_number", cardNumber, "error", err)
		return nil, fmt.Errorf("failed to add stolen card: %w", err)
	}

	return entry, nil
}

// Remove deletes a stolen card number.
// Returns ErrCardNotFound if the card is not blacklisted.
func (r *StolenCardRepository) Remove(ctx context.Context, cardNumber string) error {
	query := `DELETE FROM stolen_cards WHERE card_number = $1`

	result, err := r.querier.Exec(ctx, query, cardNumber)
	if err != nil {
		r.logger.Error("Failed to remove stolen card", "card_number", cardNumber, "error", err)
		return fmt.Errorf("failed to remove stolen card: %w", err)
	}

	if result.RowsAffected() == 0 {
		return blacklist.ErrCardNotFound{CardNumber: cardNumber}
	}

	return nil
}

// List returns all stolen cards ordered by ID ascending
func (r *StolenCardRepository) List(ctx context.Context) ([]*blacklist.StolenCard, error) {
	query := `
		SELECT id, card_number, created_at
		FROM stolen_cards
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list stolen cards", "error", err)
		return nil, fmt.Errorf("failed to list stolen cards: %w", err)
	}
	defer rows.Close()

	var entries []*blacklist.StolenCard
	for rows.Next() {
		var entry blacklist.StolenCard
		if err := rows.Scan(&entry.ID, &entry.CardNumber, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stolen card: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stolen cards: %w", err)
	}

	return entries, nil
}

// Exists reports whether the card number is blacklisted
func (r *StolenCardRepository) Exists(ctx context.Context, cardNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stolen_cards WHERE card_number = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, cardNumber).Scan(&exists); err != nil {
		r.logger.Error("Failed to check stolen card", "card_number", cardNumber, "error", err)
		return false, fmt.Errorf("failed to check stolen card: %w", err)
	}

	return exists, nil
}
