package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antifraud-service/internal/api/middleware"
	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/engine"
	"github.com/antifraud-service/internal/service"
	"github.com/antifraud-service/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction evaluation,
// feedback and history
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Evaluate classifies a candidate transaction and returns verdict and reason.
// The handler re-checks input formats before the engine does; both layers
// enforce the same rules.
func (h *TransactionHandler) Evaluate(c *gin.Context) {
	var req EvaluateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !validation.ValidIPv4(req.IP) {
		RespondBadRequest(c, "Invalid IP address format")
		return
	}
	if !validation.ValidLuhn(req.Number) {
		RespondBadRequest(c, "Invalid card number format")
		return
	}

	cand := engine.Candidate{
		Amount:     req.Amount,
		IP:         req.IP,
		CardNumber: req.Number,
		Region:     req.Region,
		Date:       req.Date,
	}

	eval, err := h.transactionService.EvaluateTransaction(c.Request.Context(), cand, middleware.GetCorrelationID(c))
	if err != nil {
		var formatErr validation.FormatError
		if errors.As(err, &formatErr) {
			RespondBadRequest(c, formatErr.Error())
			return
		}
		h.logger.Error("Failed to evaluate transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, EvaluateTransactionResponse{
		TransactionID: eval.Record.ID,
		Result:        string(eval.Verdict),
		Info:          eval.Reason,
	})
}

// SubmitFeedback applies a reviewer's corrected verdict to a stored transaction
func (h *TransactionHandler) SubmitFeedback(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.transactionService.SubmitFeedback(c.Request.Context(), id, req.Feedback)
	if err != nil {
		h.respondFeedbackError(c, id, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(updated))
}

func (h *TransactionHandler) respondFeedbackError(c *gin.Context, id int64, err error) {
	var (
		formatErr      validation.FormatError
		feedbackExists transaction.ErrFeedbackExists
		unchanged      transaction.ErrFeedbackUnchanged
	)
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound{}):
		RespondNotFound(c, "Transaction not found")
	case errors.As(err, &feedbackExists):
		RespondConflict(c, "Feedback already provided for this transaction")
	case errors.As(err, &formatErr):
		RespondBadRequest(c, formatErr.Error())
	case errors.As(err, &unchanged):
		RespondUnprocessable(c, "Feedback matches the original verdict")
	default:
		h.logger.Error("Failed to apply feedback", "transaction_id", id, "error", err)
		RespondInternalError(c)
	}
}

// GetHistory returns the full evaluated history ordered by ID ascending
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	history, err := h.transactionService.GetHistory(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get transaction history", "error", err)
		RespondInternalError(c)
		return
	}

	response := make([]TransactionResponse, 0, len(history))
	for _, tx := range history {
		response = append(response, mapTransactionToResponse(tx))
	}

	RespondOK(c, response)
}

// GetHistoryByCard returns same-card history, 400 on a malformed card number
// and 404 when the card has no evaluated transactions
func (h *TransactionHandler) GetHistoryByCard(c *gin.Context) {
	number := c.Param("number")

	history, err := h.transactionService.GetHistoryByCard(c.Request.Context(), number)
	if err != nil {
		var (
			formatErr validation.FormatError
			noHistory transaction.ErrNoCardHistory
		)
		switch {
		case errors.As(err, &formatErr):
			RespondBadRequest(c, formatErr.Error())
		case errors.As(err, &noHistory):
			RespondNotFound(c, "No transaction history for card number")
		default:
			h.logger.Error("Failed to get card history", "card_number", number, "error", err)
			RespondInternalError(c)
		}
		return
	}

	response := make([]TransactionResponse, 0, len(history))
	for _, tx := range history {
		response = append(response, mapTransactionToResponse(tx))
	}

	RespondOK(c, response)
}
