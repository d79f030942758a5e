package service

import (
	"context"
	"log/slog"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/validation"
)

// BlacklistServiceImpl implements the BlacklistService interface
type BlacklistServiceImpl struct {
	ips    blacklist.SuspiciousIPRepository
	cards  blacklist.StolenCardRepository
	logger *slog.Logger
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(logger *slog.Logger, ips blacklist.SuspiciousIPRepository, cards blacklist.StolenCardRepository) *BlacklistServiceImpl {
	return &BlacklistServiceImpl{
		ips:    ips,
		cards:  cards,
		logger: logger,
	}
}

// AddSuspiciousIP blacklists an IP after validating its format
func (s *BlacklistServiceImpl) AddSuspiciousIP(ctx context.Context, ip string) (*blacklist.SuspiciousIP, error) {
	if !validation.ValidIPv4(ip) {
		return nil, validation.FormatError{Field: "ip", Reason: "must be a dotted-quad IPv4 address"}
	}

	entry, err := s.ips.Add(ctx, ip)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Suspicious IP added", "ip", ip)
	return entry, nil
}

// RemoveSuspiciousIP removes an IP from the blacklist
func (s *BlacklistServiceImpl) RemoveSuspiciousIP(ctx context.Context, ip string) error {
	if !validation.ValidIPv4(ip) {
		return validation.FormatError{Field: "ip", Reason: "must be a dotted-quad IPv4 address"}
	}

	if err := s.ips.Remove(ctx, ip); err != nil {
		return err
	}

	s.logger.Info("Suspicious IP removed", "ip", ip)
	return nil
}

// ListSuspiciousIPs returns the suspicious IP set ordered by ID ascending
func (s *BlacklistServiceImpl) ListSuspiciousIPs(ctx context.Context) ([]*blacklist.SuspiciousIP, error) {
	return s.ips.List(ctx)
}

// AddStolenCard blacklists a card number after validating its checksum
func (s *BlacklistServiceImpl) AddStolenCard(ctx context.Context, cardNumber string) (*blacklist.StolenCard, error) {
	if !validation.ValidLuhn(cardNumber) {
		return nil, validation.FormatError{Field: "number", Reason: "failed Luhn check"}
	}

	entry, err := s.cards.Add(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stolen card added", "card_number", cardNumber)
	return entry, nil
}

// RemoveStolenCard removes a card number from the blacklist
func (s *BlacklistServiceImpl) RemoveStolenCard(ctx context.Context, cardNumber string) error {
	if !validation.ValidLuhn(cardNumber) {
		return validation.FormatError{Field: "number", Reason: "failed Luhn check"}
	}

	if err := s.cards.Remove(ctx, cardNumber); err != nil {
		return err
	}

	s.logger.Info("Stolen card removed", "card_number", cardNumber)
	return nil
}

// ListStolenCards returns the stolen card set ordered by ID ascending
func (s *BlacklistServiceImpl) ListStolenCards(ctx context.Context) ([]*blacklist.StolenCard, error) {
	return s.cards.List(ctx)
}

// IsSuspiciousIP reports whether the IP is blacklisted. Format validation is
// the caller's responsibility on the evaluation path.
func (s *BlacklistServiceImpl) IsSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	return s.ips.Exists(ctx, ip)
}

// IsStolenCard reports whether the card number is blacklisted
func (s *BlacklistServiceImpl) IsStolenCard(ctx context.Context, cardNumber string) (bool, error) {
	return s.cards.Exists(ctx, cardNumber)
}
