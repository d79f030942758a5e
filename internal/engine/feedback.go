package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/validation"
)

// feedbackWeight is the exponential-moving-average weight applied to the
// reviewed transaction's amount on every threshold adjustment
const feedbackWeight = 0.2

// ApplyFeedback records a reviewer's corrected verdict for a stored
// transaction and nudges the amount thresholds accordingly. Preconditions
// are checked in order: the transaction must exist, must not already carry
// feedback, the verdict token must be valid, and must differ from the
// original verdict. The ledger rewrite and the threshold update succeed or
// fail together: thresholds are committed only after the record is rewritten.
func (e *Engine) ApplyFeedback(ctx context.Context, id int64, feedback string) (*transaction.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.HasFeedback() {
		return nil, transaction.ErrFeedbackExists{ID: id}
	}

	verdict, ok := transaction.ParseVerdict(feedback)
	if !ok {
		return nil, validation.FormatError{Field: "feedback", Reason: "must be ALLOWED, MANUAL_PROCESSING or PROHIBITED"}
	}

	if verdict == record.Verdict {
		return nil, transaction.ErrFeedbackUnchanged{ID: id, Verdict: verdict}
	}

	maxAllowed, maxManual := adjustLimits(e.maxAllowed, e.maxManual, record.Amount, record.Verdict, verdict)

	record.Feedback = string(verdict)
	if err := e.transactions.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record feedback: %w", err)
	}

	e.logger.Info("Feedback applied",
		"transaction_id", id,
		"original_verdict", string(record.Verdict),
		"feedback", string(verdict),
		"max_allowed", maxAllowed,
		"max_manual", maxManual,
	)

	e.maxAllowed = maxAllowed
	e.maxManual = maxManual
	return record, nil
}

// adjustLimits applies the EMA update rule for a reviewed transaction and
// clamps the result so that maxAllowed >= 1 and maxAllowed < maxManual hold
// after every adjustment.
func adjustLimits(maxAllowed, maxManual, amount int64, original, feedback transaction.Verdict) (int64, int64) {
	raise := func(limit int64) int64 {
		return int64(math.Ceil((1-feedbackWeight)*float64(limit) + feedbackWeight*float64(amount)))
	}
	lower := func(limit int64) int64 {
		return int64(math.Ceil((1-feedbackWeight)*float64(limit) - feedbackWeight*float64(amount)))
	}

	switch original {
	case transaction.VerdictAllowed:
		maxAllowed = lower(maxAllowed)
		if feedback == transaction.VerdictProhibited {
			maxManual = lower(maxManual)
		}
	case transaction.VerdictManual:
		if feedback == transaction.VerdictAllowed {
			maxAllowed = raise(maxAllowed)
		} else {
			maxManual = lower(maxManual)
		}
	case transaction.VerdictProhibited:
		maxManual = raise(maxManual)
		if feedback == transaction.VerdictAllowed {
			maxAllowed = raise(maxAllowed)
		}
	}

	if maxAllowed <= 0 {
		maxAllowed = 1
	}
	if maxManual <= maxAllowed {
		maxManual = maxAllowed + 1
	}
	return maxAllowed, maxManual
}
