package transaction

import (
	"strings"
	"time"
)

// Verdict is the engine's risk classification for a transaction.
type Verdict string

const (
	VerdictAllowed    Verdict = "ALLOWED"
	VerdictManual     Verdict = "MANUAL_PROCESSING"
	VerdictProhibited Verdict = "PROHIBITED"
)

// ParseVerdict matches a verdict token case-insensitively
func ParseVerdict(s string) (Verdict, bool) {
	switch Verdict(strings.ToUpper(s)) {
	case VerdictAllowed:
		return VerdictAllowed, true
	case VerdictManual:
		return VerdictManual, true
	case VerdictProhibited:
		return VerdictProhibited, true
	}
	return "", false
}

// Severity ranks verdicts for combining independent risk signals.
// Higher wins: PROHIBITED > MANUAL_PROCESSING > ALLOWED.
func (v Verdict) Severity() int {
	switch v {
	case VerdictProhibited:
		return 2
	case VerdictManual:
		return 1
	default:
		return 0
	}
}

// Region is one of the fixed world region codes accepted for transactions
type Region string

const (
	RegionEAP  Region = "EAP"  // East Asia and Pacific
	RegionECA  Region = "ECA"  // Europe and Central Asia
	RegionHIC  Region = "HIC"  // High-Income countries
	RegionLAC  Region = "LAC"  // Latin America and the Caribbean
	RegionMENA Region = "MENA" // The Middle East and North Africa
	RegionSA   Region = "SA"   // South Asia
	RegionSSA  Region = "SSA"  // Sub-Saharan Africa
)

// ParseRegion matches a region code against the fixed set. Case-sensitive.
func ParseRegion(code string) (Region, bool) {
	switch Region(code) {
	case RegionEAP, RegionECA, RegionHIC, RegionLAC, RegionMENA, RegionSA, RegionSSA:
		return Region(code), true
	}
	return "", false
}

// Transaction is an evaluated transaction stored in the ledger.
// ID is assigned on first save and defines canonical history ordering.
// Verdict is set once at evaluation time and never rewritten; Feedback is
// empty until a reviewer supplies a corrected verdict, and is settable
// exactly once.
type Transaction struct {
	ID         int64     `bson:"transaction_id"`
	Amount     int64     `bson:"amount"`
	IP         string    `bson:"ip"`
	CardNumber string    `bson:"card_number"`
	Region     Region    `bson:"region"`
	OccurredAt time.Time `bson:"occurred_at"`
	Verdict    Verdict   `bson:"verdict"`
	Feedback   string    `bson:"feedback"`
}

// HasFeedback reports whether a reviewer verdict has already been recorded
func (t *Transaction) HasFeedback() bool {
	return t.Feedback != ""
}
