package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddSuspiciousIP(t *testing.T) {
	t.Run("adds a valid ip", func(t *testing.T) {
		ips := &MockSuspiciousIPRepository{}
		entry := &blacklist.SuspiciousIP{ID: 1, IP: testIP}
		ips.On("Add", mock.Anything, testIP).Return(entry, nil)

		svc := NewBlacklistService(slog.Default(), ips, &MockStolenCardRepository{})
		got, err := svc.AddSuspiciousIP(context.Background(), testIP)

		require.NoError(t, err)
		assert.Equal(t, entry, got)
		ips.AssertExpectations(t)
	})

	t.Run("rejects malformed ip before the store", func(t *testing.T) {
		ips := &MockSuspiciousIPRepository{}
		svc := NewBlacklistService(slog.Default(), ips, &MockStolenCardRepository{})

		_, err := svc.AddSuspiciousIP(context.Background(), "300.1.1.1")

		var formatErr validation.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "ip", formatErr.Field)
		ips.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("propagates duplicate error", func(t *testing.T) {
		ips := &MockSuspiciousIPRepository{}
		ips.On("Add", mock.Anything, testIP).Return(nil, blacklist.ErrIPExists{IP: testIP})

		svc := NewBlacklistService(slog.Default(), ips, &MockStolenCardRepository{})
		_, err := svc.AddSuspiciousIP(context.Background(), testIP)

		var exists blacklist.ErrIPExists
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, testIP, exists.IP)
	})
}

func TestRemoveSuspiciousIP(t *testing.T) {
	t.Run("removes an existing ip", func(t *testing.T) {
		ips := &MockSuspiciousIPRepository{}
		ips.On("Remove", mock.Anything, testIP).Return(nil)

		svc := NewBlacklistService(slog.Default(), ips, &MockStolenCardRepository{})
		require.NoError(t, svc.RemoveSuspiciousIP(context.Background(), testIP))
		ips.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		ips := &MockSuspiciousIPRepository{}
		ips.On("Remove", mock.Anything, testIP).Return(blacklist.ErrIPNotFound{IP: testIP})

		svc := NewBlacklistService(slog.Default(), ips, &MockStolenCardRepository{})
		err := svc.RemoveSuspiciousIP(context.Background(), testIP)

		var notFound blacklist.ErrIPNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestAddStolenCard(t *testing.T) {
	t.Run("adds a valid card number", func(t *testing.T) {
		cards := &MockStolenCardRepository{}
		entry := &blacklist.StolenCard{ID: 1, CardNumber: testCard}
		cards.On("Add", mock.Anything, testCard).Return(entry, nil)

		svc := NewBlacklistService(slog.Default(), &MockSuspiciousIPRepository{}, cards)
		got, err := svc.AddStolenCard(context.Background(), testCard)

		require.NoError(t, err)
		assert.Equal(t, entry, got)
	})

	t.Run("rejects bad checksum before the store", func(t *testing.T) {
		cards := &MockStolenCardRepository{}
		svc := NewBlacklistService(slog.Default(), &MockSuspiciousIPRepository{}, cards)

		_, err := svc.AddStolenCard(context.Background(), "1234567890123456")

		var formatErr validation.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "number", formatErr.Field)
		cards.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestRemoveStolenCard(t *testing.T) {
	t.Run("propagates not found", func(t *testing.T) {
		cards := &MockStolenCardRepository{}
		cards.On("Remove", mock.Anything, testCard).Return(blacklist.ErrCardNotFound{CardNumber: testCard})

		svc := NewBlacklistService(slog.Default(), &MockSuspiciousIPRepository{}, cards)
		err := svc.RemoveStolenCard(context.Background(), testCard)

		var notFound blacklist.ErrCardNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestBlacklistMembership(t *testing.T) {
	ips := &MockSuspiciousIPRepository{}
	cards := &MockStolenCardRepository{}
	ips.On("Exists", mock.Anything, testIP).Return(true, nil)
	cards.On("Exists", mock.Anything, testCard).Return(false, nil)

	svc := NewBlacklistService(slog.Default(), ips, cards)

	suspicious, err := svc.IsSuspiciousIP(context.Background(), testIP)
	require.NoError(t, err)
	assert.True(t, suspicious)

	stolen, err := svc.IsStolenCard(context.Background(), testCard)
	require.NoError(t, err)
	assert.False(t, stolen)
}
