// Package engine implements the antifraud decision core: transaction
// evaluation against amount thresholds, blacklists and correlation windows,
// and feedback-driven threshold adjustment.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/antifraud-service/internal/domain/transaction"
)

// correlationWindow is the trailing interval of same-card history inspected
// for distinct IPs and regions, relative to the candidate's own timestamp.
const correlationWindow = time.Hour

// BlacklistOracle answers membership queries against the suspicious IP and
// stolen card sets
type BlacklistOracle interface {
	IsSuspiciousIP(ctx context.Context, ip string) (bool, error)
	IsStolenCard(ctx context.Context, cardNumber string) (bool, error)
}

// Limits holds the initial amount thresholds for a new engine
type Limits struct {
	MaxAllowed int64
	MaxManual  int64
}

// Engine evaluates transactions and refines its amount thresholds from
// reviewer feedback. The mutex guards both thresholds as a pair: evaluation
// reads a mutually consistent snapshot, and feedback applications are
// serialized so the precondition check, the ledger rewrite and the threshold
// update are atomic with respect to each other.
type Engine struct {
	mu         sync.Mutex
	maxAllowed int64
	maxManual  int64

	transactions transaction.Repository
	blacklist    BlacklistOracle
	logger       *slog.Logger
}

// New creates an engine with the given initial thresholds
func New(logger *slog.Logger, transactions transaction.Repository, blacklist BlacklistOracle, limits Limits) *Engine {
	return &Engine{
		maxAllowed:   limits.MaxAllowed,
		maxManual:    limits.MaxManual,
		transactions: transactions,
		blacklist:    blacklist,
		logger:       logger,
	}
}

// Limits returns a consistent snapshot of the current thresholds
func (e *Engine) Limits() Limits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Limits{MaxAllowed: e.maxAllowed, MaxManual: e.maxManual}
}
