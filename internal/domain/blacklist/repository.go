package blacklist

import "context"

// SuspiciousIPRepository manages the suspicious IP set
type SuspiciousIPRepository interface {
	// Add stores a new suspicious IP.
	// Returns ErrIPExists if the IP is already blacklisted.
	Add(ctx context.Context, ip string) (*SuspiciousIP, error)

	// Remove deletes a suspicious IP.
	// Returns ErrIPNotFound if the IP is not blacklisted.
	Remove(ctx context.Context, ip string) error

	// List returns all suspicious IPs ordered by ID ascending
	List(ctx context.Context) ([]*SuspiciousIP, error)

	// Exists reports whether the IP is blacklisted
	Exists(ctx context.Context, ip string) (bool, error)
}

// StolenCardRepository manages the stolen card set
type StolenCardRepository interface {
	// Add stores a new stolen card number.
	// Returns ErrCardExists if the card is already blacklisted.
	Add(ctx context.Context, cardNumber string) (*StolenCard, error)

	// Remove deletes a stolen card number.
	// Returns ErrCardNotFound if the card is not blacklisted.
	Remove(ctx context.Context, cardNumber string) error

	// List returns all stolen cards ordered by ID ascending
	List(ctx context.Context) ([]*StolenCard, error)

	// Exists reports whether the card number is blacklisted
	Exists(ctx context.Context, cardNumber string) (bool, error)
}
