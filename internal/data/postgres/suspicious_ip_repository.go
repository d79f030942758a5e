// Package postgres provides PostgreSQL implementations of the blacklist
// repositories. The suspicious IP and stolen card sets are small and
// index-backed, so membership checks stay cheap for the hot evaluation path.
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

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// SuspiciousIPRepository implements the blacklist.SuspiciousIPRepository interface for PostgreSQL
type SuspiciousIPRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewSuspiciousIPRepository creates a new PostgreSQL suspicious IP repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewSuspiciousIPRepository(logger *slog.Logger, db *persistence.PostgresDB) blacklist.SuspiciousIPRepository {
	return &SuspiciousIPRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Add stores a new suspicious IP. Returns ErrIPExists when the unique
// constraint on the ip column fires.
func (r *SuspiciousIPRepository) Add(ctx context.Context, ip string) (*blacklist.SuspiciousIP, error) {
	query := `
		INSERT INTO suspicious_ips (ip, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	entry := &blacklist.SuspiciousIP{
		IP:        ip,
		CreatedAt: time.Now(),
	}

	err := r.querier.QueryRow(ctx, query, entry.IP, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, blacklist.ErrIPExists{IP: ip}
		}
		r.logger.Error("Failed to add suspicious IP", "ip", ip, "error", err)
		return nil, fmt.Errorf("failed to add suspicious IP: %w", err)
	}

	return entry, nil
}

// Remove deletes a suspicious IP.
// Returns ErrIPNotFound if the IP is not blacklisted.
func (r *SuspiciousIPRepository) Remove(ctx context.Context, ip string) error {
	query := `DELETE FROM suspicious_ips WHERE ip = $1`

	result, err := r.querier.Exec(ctx, query, ip)
	if err != nil {
		r.logger.Error("Failed to remove suspicious IP", "ip", ip, "error", err)
		return fmt.Errorf("failed to remove suspicious IP: %w", err)
	}

	if result.RowsAffected() == 0 {
		return blacklist.ErrIPNotFound{IP: ip}
	}

	return nil
}

// List returns all suspicious IPs ordered by ID ascending
func (r *SuspiciousIPRepository) List(ctx context.Context) ([]*blacklist.SuspiciousIP, error) {
	query := `
		SELECT id, ip, created_at
		FROM suspicious_ips
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list suspicious IPs", "error", err)
		return nil, fmt.Errorf("failed to list suspicious IPs: %w", err)
	}
	defer rows.Close()

	var entries []*blacklist.SuspiciousIP
	for rows.Next() {
		var entry blacklist.SuspiciousIP
		if err := rows.Scan(&entry.ID, &entry.IP, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suspicious IP: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read suspicious IPs: %w", err)
	}

	return entries, nil
}

// Exists reports whether the IP is blacklisted
func (r *SuspiciousIPRepository) Exists(ctx context.Context, ip string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM suspicious_ips WHERE ip = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, ip).Scan(&exists); err != nil {
		r.logger.Error("Failed to check suspicious IP", "ip", ip, "error", err)
		return false, fmt.Errorf("failed to check suspicious IP: %w", err)
	}

	return exists, nil
}
