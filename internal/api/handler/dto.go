package handler

import (
	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/validation"
)

// EvaluateTransactionRequest represents a candidate transaction submitted for evaluation
type EvaluateTransactionRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	IP     string `json:"ip" binding:"required"`
	Number string `json:"number" binding:"required"`
	Region string `json:"region" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// EvaluateTransactionResponse carries the engine's verdict and reason
type EvaluateTransactionResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Result        string `json:"result"`
	Info          string `json:"info"`
}

// FeedbackRequest carries a reviewer's corrected verdict
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// TransactionResponse represents an evaluated transaction in API responses
type TransactionResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	IP            string `json:"ip"`
	Number        string `json:"number"`
	Region        string `json:"region"`
	Date          string `json:"date"`
	Result        string `json:"result"`
	Feedback      string `json:"feedback"`
}

// AddSuspiciousIPRequest represents a request to blacklist an IP
type AddSuspiciousIPRequest struct {
	IP string `json:"ip" binding:"required"`
}

// AddStolenCardRequest represents a request to blacklist a card number
type AddStolenCardRequest struct {
	Number string `json:"number" binding:"required"`
}

// StatusResponse carries a human-readable status message
type StatusResponse struct {
	Status string `json:"status"`
}

// mapTransactionToResponse maps an evaluated transaction to a response DTO
func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		IP:            tx.IP,
		Number:        tx.CardNumber,
		Region:        string(tx.Region),
		Date:          tx.OccurredAt.Format(validation.TimestampLayout),
		Result:        string(tx.Verdict),
		Feedback:      tx.Feedback,
	}
}
