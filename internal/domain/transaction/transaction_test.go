package transaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input    string
		expected Verdict
		ok       bool
	}{
		{"ALLOWED", VerdictAllowed, true},
		{"MANUAL_PROCESSING", VerdictManual, true},
		{"PROHIBITED", VerdictProhibited, true},
		{"allowed", VerdictAllowed, true},
		{"Manual_Processing", VerdictManual, true},
		{"prohibited", VerdictProhibited, true},
		{"MANUAL", "", false},
		{"BLOCKED", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVerdict(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVerdictSeverity(t *testing.T) {
	assert.Greater(t, VerdictProhibited.Severity(), VerdictManual.Severity())
	assert.Greater(t, VerdictManual.Severity(), VerdictAllowed.Severity())
}

func TestParseRegion(t *testing.T) {
	for _, code := range []string{"EAP", "ECA", "HIC", "LAC", "MENA", "SA", "SSA"} {
		got, ok := ParseRegion(code)
		require.True(t, ok, code)
		assert.Equal(t, Region(code), got)
	}

	// Region codes are case-sensitive
	for _, code := range []string{"eca", "Eca", "EU", "XX", ""} {
		_, ok := ParseRegion(code)
		assert.False(t, ok, code)
	}
}

func TestHasFeedback(t *testing.T) {
	tx := &Transaction{ID: 1, Verdict: VerdictAllowed}
	assert.False(t, tx.HasFeedback())

	tx.Feedback = "PROHIBITED"
	assert.True(t, tx.HasFeedback())
}

func TestErrTransactionNotFoundIs(t *testing.T) {
	err := ErrTransactionNotFound{ID: 7}

	assert.True(t, errors.Is(err, ErrTransactionNotFound{}))
	assert.True(t, errors.Is(err, ErrTransactionNotFound{ID: 7}))
	assert.False(t, errors.Is(err, ErrTransactionNotFound{ID: 8}))
	assert.False(t, errors.Is(err, errors.New("transaction not found: 7")))
}
