package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/validation"
)

const (
	manualCorrelationLimit     = 2
	prohibitedCorrelationLimit = 3
)

// Reason tokens reported per triggered signal
const (
	reasonAmount            = "amount"
	reasonIP                = "ip"
	reasonCardNumber        = "card-number"
	reasonIPCorrelation     = "ip-correlation"
	reasonRegionCorrelation = "region-correlation"
)

// Candidate is a transaction submitted for evaluation. All fields arrive as
// raw request values and are format-validated before evaluation begins.
type Candidate struct {
	Amount     int64
	IP         string
	CardNumber string
	Region     string
	Date       string
}

// Evaluation is the outcome of a successful evaluation. Record carries the
// ledger-assigned ID; Reason is "none" for ALLOWED, otherwise the sorted
// reason tokens of the winning severity tier joined with ", ".
type Evaluation struct {
	Record  *transaction.Transaction
	Verdict transaction.Verdict
	Reason  string
}

// Evaluate classifies a candidate transaction and persists it with its
// verdict. Malformed input fails with a validation.FormatError and no ledger
// write; store failures propagate as-is.
func (e *Engine) Evaluate(ctx context.Context, cand Candidate) (*Evaluation, error) {
	if cand.Amount <= 0 {
		return nil, validation.FormatError{Field: "amount", Reason: "must be greater than 0"}
	}
	if !validation.ValidIPv4(cand.IP) {
		return nil, validation.FormatError{Field: "ip", Reason: "must be a dotted-quad IPv4 address"}
	}
	if !validation.ValidLuhn(cand.CardNumber) {
		return nil, validation.FormatError{Field: "number", Reason: "failed Luhn check"}
	}
	region, ok := transaction.ParseRegion(cand.Region)
	if !ok {
		return nil, validation.FormatError{Field: "region", Reason: "unknown region code"}
	}
	occurredAt, err := validation.ParseTimestamp(cand.Date)
	if err != nil {
		return nil, err
	}

	// Same-card history in the half-open window (t-1h, t]
	history, err := e.transactions.FindByCardInWindow(ctx, cand.CardNumber, occurredAt.Add(-correlationWindow), occurredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query correlation window: %w", err)
	}

	distinctIPs := make(map[string]struct{})
	distinctRegions := make(map[transaction.Region]struct{})
	for _, h := range history {
		if h.IP != cand.IP {
			distinctIPs[h.IP] = struct{}{}
		}
		if h.Region != region {
			distinctRegions[h.Region] = struct{}{}
		}
	}
	distinctIPCount := len(distinctIPs)
	distinctRegionCount := len(distinctRegions)

	ipSuspicious, err := e.blacklist.IsSuspiciousIP(ctx, cand.IP)
	if err != nil {
		return nil, fmt.Errorf("failed to check suspicious IP set: %w", err)
	}
	cardStolen, err := e.blacklist.IsStolenCard(ctx, cand.CardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check stolen card set: %w", err)
	}

	limits := e.Limits()

	amountManual := cand.Amount > limits.MaxAllowed && cand.Amount <= limits.MaxManual
	amountProhibited := cand.Amount > limits.MaxManual
	// The MANUAL correlation condition is an exact equality: a count of 2 is
	// MANUAL, 3 or more escalates straight to PROHIBITED.
	ipCorrManual := distinctIPCount == manualCorrelationLimit
	ipCorrProhibited := distinctIPCount >= prohibitedCorrelationLimit
	regionCorrManual := distinctRegionCount == manualCorrelationLimit
	regionCorrProhibited := distinctRegionCount >= prohibitedCorrelationLimit

	var verdict transaction.Verdict
	var reasons []string
	switch {
	case amountProhibited || ipSuspicious || cardStolen || ipCorrProhibited || regionCorrProhibited:
		verdict = transaction.VerdictProhibited
		if amountProhibited {
			reasons = append(reasons, reasonAmount)
		}
		if ipSuspicious {
			reasons = append(reasons, reasonIP)
		}
		if cardStolen {
			reasons = append(reasons, reasonCardNumber)
		}
		if ipCorrProhibited {
			reasons = append(reasons, reasonIPCorrelation)
		}
		if regionCorrProhibited {
			reasons = append(reasons, reasonRegionCorrelation)
		}
	case amountManual || ipCorrManual || regionCorrManual:
		verdict = transaction.VerdictManual
		if amountManual {
			reasons = append(reasons, reasonAmount)
		}
		if ipCorrManual {
			reasons = append(reasons, reasonIPCorrelation)
		}
		if regionCorrManual {
			reasons = append(reasons, reasonRegionCorrelation)
		}
	default:
		verdict = transaction.VerdictAllowed
	}

	reason := "none"
	if verdict != transaction.VerdictAllowed {
		sort.Strings(reasons)
		reason = strings.Join(reasons, ", ")
	}

	record := &transaction.Transaction{
		Amount:     cand.Amount,
		IP:         cand.IP,
		CardNumber: cand.CardNumber,
		Region:     region,
		OccurredAt: occurredAt,
		Verdict:    verdict,
		Feedback:   "",
	}
	if err := e.transactions.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save evaluated transaction: %w", err)
	}

	e.logger.Info("Transaction evaluated",
		"transaction_id", record.ID,
		"amount", cand.Amount,
		"verdict", string(verdict),
		"reason", reason,
		"distinct_ip_count", distinctIPCount,
		"distinct_region_count", distinctRegionCount,
	)

	return &Evaluation{Record: record, Verdict: verdict, Reason: reason}, nil
}
