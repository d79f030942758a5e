package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/antifraud-service/internal/engine"
	"github.com/antifraud-service/internal/validation"
)

const (
	testCard = "4000008449433403"
	testIP   = "192.168.1.1"
	testDate = "2022-01-22T16:04:00"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) EvaluateTransaction(ctx context.Context, cand engine.Candidate, correlationID string) (*engine.Evaluation, error) {
	args := m.Called(ctx, cand, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Evaluation), args.Error(1)
}

func (m *MockTransactionService) SubmitFeedback(ctx context.Context, transactionID int64, feedback string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetHistory(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetHistoryByCard(ctx context.Context, cardNumber string) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func evaluationFor(verdict transaction.Verdict, reason string) *engine.Evaluation {
	occurredAt, _ := validation.ParseTimestamp(testDate)
	return &engine.Evaluation{
		Record: &transaction.Transaction{
			ID:         1,
			Amount:     150,
			IP:         testIP,
			CardNumber: testCard,
			Region:     "ECA",
			OccurredAt: occurredAt,
			Verdict:    verdict,
		},
		Verdict: verdict,
		Reason:  reason,
	}
}

func TestTransactionHandler_Evaluate(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	newRouter := func(mockService *MockTransactionService) *gin.Engine {
		handler := NewTransactionHandler(logger, mockService)
		router := gin.New()
		router.POST("/api/v1/transactions", handler.Evaluate)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		mockService.On("EvaluateTransaction", mock.Anything, mock.MatchedBy(func(cand engine.Candidate) bool {
			return cand.Amount == 150 && cand.CardNumber == testCard && cand.Region == "ECA"
		}), mock.Anything).Return(evaluationFor(transaction.VerdictAllowed, "none"), nil)

		body, _ := json.Marshal(map[string]interface{}{
			"amount": 150,
			"ip":     testIP,
			"number": testCard,
			"region": "ECA",
			"date":   testDate,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data EvaluateTransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ALLOWED", resp.Data.Result)
		assert.Equal(t, "none", resp.Data.Info)
		assert.Equal(t, int64(1), resp.Data.TransactionID)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockTransactionService)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader([]byte(`{"amount": 150}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "EvaluateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MalformedFieldsRejectedBeforeService", func(t *testing.T) {
		for name, payload := range map[string]map[string]interface{}{
			"bad ip": {
				"amount": 150, "ip": "500.1.1.1", "number": testCard, "region": "ECA", "date": testDate,
			},
			"bad card checksum": {
				"amount": 150, "ip": testIP, "number": "4000008449433402", "region": "ECA", "date": testDate,
			},
		} {
			mockService := new(MockTransactionService)

			body, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newRouter(mockService).ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, name)
			mockService.AssertNotCalled(t, "EvaluateTransaction", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("EngineFormatErrorMapsToBadRequest", func(t *testing.T) {
		mockService := new(MockTransactionService)
		mockService.On("EvaluateTransaction", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, validation.FormatError{Field: "region", Reason: "unknown region code"})

		body, _ := json.Marshal(map[string]interface{}{
			"amount": 150, "ip": testIP, "number": testCard, "region": "XX", "date": testDate,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("StoreFailureMapsToInternalError", func(t *testing.T) {
		mockService := new(MockTransactionService)
		mockService.On("EvaluateTransaction", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("mongo down"))

		body, _ := json.Marshal(map[string]interface{}{
			"amount": 150, "ip": testIP, "number": testCard, "region": "ECA", "date": testDate,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTransactionHandler_SubmitFeedback(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	newRouter := func(mockService *MockTransactionService) *gin.Engine {
		handler := NewTransactionHandler(logger, mockService)
		router := gin.New()
		router.PUT("/api/v1/transactions/:id/feedback", handler.SubmitFeedback)
		return router
	}

	feedbackRequest := func(id string, feedback string) *http.Request {
		body, _ := json.Marshal(FeedbackRequest{Feedback: feedback})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/transactions/%s/feedback", id), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		occurredAt, _ := validation.ParseTimestamp(testDate)
		updated := &transaction.Transaction{
			ID:         7,
			Amount:     300,
			IP:         testIP,
			CardNumber: testCard,
			Region:     "ECA",
			OccurredAt: occurredAt,
			Verdict:    transaction.VerdictAllowed,
			Feedback:   "PROHIBITED",
		}
		mockService.On("SubmitFeedback", mock.Anything, int64(7), "PROHIBITED").Return(updated, nil)

		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, feedbackRequest("7", "PROHIBITED"))

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ALLOWED", resp.Data.Result)
		assert.Equal(t, "PROHIBITED", resp.Data.Feedback)
		assert.Equal(t, testDate, resp.Data.Date)
	})

	t.Run("ErrorMapping", func(t *testing.T) {
		tests := []struct {
			name         string
			serviceError error
			expectedCode int
		}{
			{"not found", transaction.ErrTransactionNotFound{ID: 7}, http.StatusNotFound},
			{"feedback exists", transaction.ErrFeedbackExists{ID: 7}, http.StatusConflict},
			{"invalid token", validation.FormatError{Field: "feedback", Reason: "must be ALLOWED, MANUAL_PROCESSING or PROHIBITED"}, http.StatusBadRequest},
			{"unchanged verdict", transaction.ErrFeedbackUnchanged{ID: 7, Verdict: transaction.VerdictAllowed}, http.StatusUnprocessableEntity},
			{"store failure", errors.New("mongo down"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockService := new(MockTransactionService)
				mockService.On("SubmitFeedback", mock.Anything, int64(7), mock.Anything).Return(nil, tt.serviceError)

				w := httptest.NewRecorder()
				newRouter(mockService).ServeHTTP(w, feedbackRequest("7", "ALLOWED"))

				assert.Equal(t, tt.expectedCode, w.Code)
			})
		}
	})

	t.Run("NonNumericID", func(t *testing.T) {
		mockService := new(MockTransactionService)

		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, feedbackRequest("abc", "ALLOWED"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "SubmitFeedback", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_History(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	newRouter := func(mockService *MockTransactionService) *gin.Engine {
		handler := NewTransactionHandler(logger, mockService)
		router := gin.New()
		router.GET("/api/v1/transactions", handler.GetHistory)
		router.GET("/api/v1/cards/:number/transactions", handler.GetHistoryByCard)
		return router
	}

	t.Run("FullHistory", func(t *testing.T) {
		mockService := new(MockTransactionService)
		occurredAt := time.Date(2022, 1, 22, 16, 4, 0, 0, time.UTC)
		mockService.On("GetHistory", mock.Anything).Return([]*transaction.Transaction{
			{ID: 1, Amount: 100, IP: testIP, CardNumber: testCard, Region: "ECA", OccurredAt: occurredAt, Verdict: transaction.VerdictAllowed},
			{ID: 2, Amount: 2000, IP: testIP, CardNumber: testCard, Region: "ECA", OccurredAt: occurredAt, Verdict: transaction.VerdictProhibited},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, int64(1), resp.Data[0].TransactionID)
		assert.Equal(t, "PROHIBITED", resp.Data[1].Result)
	})

	t.Run("EmptyHistoryIsEmptyArray", func(t *testing.T) {
		mockService := new(MockTransactionService)
		mockService.On("GetHistory", mock.Anything).Return([]*transaction.Transaction{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("CardHistory", func(t *testing.T) {
		mockService := new(MockTransactionService)
		occurredAt := time.Date(2022, 1, 22, 16, 4, 0, 0, time.UTC)
		mockService.On("GetHistoryByCard", mock.Anything, testCard).Return([]*transaction.Transaction{
			{ID: 3, Amount: 100, IP: testIP, CardNumber: testCard, Region: "ECA", OccurredAt: occurredAt, Verdict: transaction.VerdictAllowed},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/"+testCard+"/transactions", nil)
		w := httptest.NewRecorder()
		newRouter(mockService).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, testCard, resp.Data[0].Number)
	})

	t.Run("CardHistoryErrorMapping", func(t *testing.T) {
		tests := []struct {
			name         string
			serviceError error
			expectedCode int
		}{
			{"bad checksum", validation.FormatError{Field: "number", Reason: "failed Luhn check"}, http.StatusBadRequest},
			{"no history", transaction.ErrNoCardHistory{CardNumber: testCard}, http.StatusNotFound},
			{"store failure", errors.New("mongo down"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockService := new(MockTransactionService)
				mockService.On("GetHistoryByCard", mock.Anything, testCard).Return(nil, tt.serviceError)

				req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/"+testCard+"/transactions", nil)
				w := httptest.NewRecorder()
				newRouter(mockService).ServeHTTP(w, req)

				assert.Equal(t, tt.expectedCode, w.Code)
			})
		}
	})
}
