package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/service"
	"github.com/antifraud-service/internal/validation"
)

// BlacklistHandler handles HTTP requests for suspicious IP and stolen card
// maintenance
type BlacklistHandler struct {
	blacklistService service.BlacklistService
	logger           *slog.Logger
}

// NewBlacklistHandler creates a new blacklist handler
func NewBlacklistHandler(logger *slog.Logger, blacklistService service.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{
		blacklistService: blacklistService,
		logger:           logger,
	}
}

// AddSuspiciousIP blacklists an IP address
func (h *BlacklistHandler) AddSuspiciousIP(c *gin.Context) {
	var req AddSuspiciousIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.blacklistService.AddSuspiciousIP(c.Request.Context(), req.IP)
	if err != nil {
		var (
			formatErr validation.FormatError
			ipExists  blacklist.ErrIPExists
		)
		switch {
		case errors.As(err, &formatErr):
			RespondBadRequest(c, formatErr.Error())
		case errors.As(err, &ipExists):
			RespondConflict(c, "IP address already blacklisted")
		default:
			h.logger.Error("Failed to add suspicious IP", "ip", req.IP, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, entry)
}

// RemoveSuspiciousIP removes an IP address from the blacklist
func (h *BlacklistHandler) RemoveSuspiciousIP(c *gin.Context) {
	ip := c.Param("ip")

	if err := h.blacklistService.RemoveSuspiciousIP(c.Request.Context(), ip); err != nil {
		var (
			formatErr  validation.FormatError
			ipNotFound blacklist.ErrIPNotFound
		)
		switch {
		case errors.As(err, &formatErr):
			RespondBadRequest(c, formatErr.Error())
		case errors.As(err, &ipNotFound):
			RespondNotFound(c, "IP address not blacklisted")
		default:
			h.logger.Error("Failed to remove suspicious IP", "ip", ip, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, StatusResponse{Status: "IP " + ip + " successfully removed"})
}

// ListSuspiciousIPs returns the suspicious IP set ordered by ID ascending
func (h *BlacklistHandler) ListSuspiciousIPs(c *gin.Context) {
	entries, err := h.blacklistService.ListSuspiciousIPs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list suspicious IPs", "error", err)
		RespondInternalError(c)
		return
	}

	if entries == nil {
		entries = []*blacklist.SuspiciousIP{}
	}
	RespondOK(c, entries)
}

// AddStolenCard blacklists a card number
func (h *BlacklistHandler) AddStolenCard(c *gin.Context) {
	var req AddStolenCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.blacklistService.AddStolenCard(c.Request.Context(), req.Number)
	if err != nil {
		var (
			formatErr  validation.FormatError
			cardExists blacklist.ErrCardExists
		)
		switch {
		case errors.As(err, &formatErr):
			RespondBadRequest(c, formatErr.Error())
		case errors.As(err, &cardExists):
			RespondConflict(c, "Card number already blacklisted")
		default:
			h.logger.Error("Failed to add stolen card", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, entry)
}

// RemoveStolenCard removes a card number from the blacklist
func (h *BlacklistHandler) RemoveStolenCard(c *gin.Context) {
	number := c.Param("number")

	if err := h.blacklistService.RemoveStolenCard(c.Request.Context(), number); err != nil {
		var (
			formatErr    validation.FormatError
			cardNotFound blacklist.ErrCardNotFound
		)
		switch {
		case errors.As(err, &formatErr):
			RespondBadRequest(c, formatErr.Error())
		case errors.As(err, &cardNotFound):
			RespondNotFound(c, "Card number not blacklisted")
		default:
			h.logger.Error("Failed to remove stolen card", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, StatusResponse{Status: "Card " + number + " successfully removed"})
}

// ListStolenCards returns the stolen card set ordered by ID ascending
func (h *BlacklistHandler) ListStolenCards(c *gin.Context) {
	entries, err := h.blacklistService.ListStolenCards(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list stolen cards", "error", err)
		RespondInternalError(c)
		return
	}

	if entries == nil {
		entries = []*blacklist.StolenCard{}
	}
	RespondOK(c, entries)
}
