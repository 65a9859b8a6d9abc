// internal/handlers/lab_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_cyber_mentor/internal/handlers"
	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service/mocks"
)

func newLabTestRouter(t *testing.T) (*chi.Mux, *mocks.MockLabService) {
	t.Helper()
	mockLabService := mocks.NewMockLabService(t)
	labHandler := handlers.NewLabHandler(mockLabService, nil)

	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware)
	router.Get("/api/v1/learning/modules/{slug}/labs", labHandler.GetLabs)
	router.Post("/api/v1/labs/{lab_id}/start", labHandler.StartLab)
	router.Post("/api/v1/labs/{lab_id}/submit", labHandler.SubmitLab)
	router.Post("/api/v1/labs/{lab_id}/hint", labHandler.UseHint)
	router.Post("/api/v1/labs/{lab_id}/complete", labHandler.CompleteLab)
	router.Post("/api/v1/labs/{lab_id}/reset", labHandler.ResetLab)
	return router, mockLabService
}

func TestLabHandler_GetLabs(t *testing.T) {
	userID := uuid.New()

	t.Run("モジュール配下のラボ一覧", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		labs := []*model.PracticeLab{
			{LabID: uuid.New(), Slug: "sql-injection", Title: "SQL Injection"},
		}
		labSvc.On("ListLabs", mock.Anything, "web-security").Return(labs, nil).Once()

		req := createRequest(t, "GET", "/api/v1/learning/modules/web-security/labs", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got []*model.PracticeLab
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "sql-injection", got[0].Slug)
	})

	t.Run("存在しないモジュールは404", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		labSvc.On("ListLabs", mock.Anything, "nope").Return(nil, model.ErrNotFound).Once()

		req := createRequest(t, "GET", "/api/v1/learning/modules/nope/labs", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLabHandler_StartLab(t *testing.T) {
	userID := uuid.New()
	labID := uuid.New()

	t.Run("開始で進捗が返る", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		completion := &model.LabCompletion{
			CompletionID: uuid.New(),
			LabID:        labID,
			StartedAt:    time.Now(),
		}
		labSvc.On("StartLab", mock.Anything, userID, labID).Return(completion, nil).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/start", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.LabCompletion
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, completion.CompletionID, got.CompletionID)
		assert.False(t, got.IsCompleted)
	})

	t.Run("不正なlab_idは400", func(t *testing.T) {
		router, _ := newLabTestRouter(t)

		req := createRequest(t, "POST", "/api/v1/labs/not-a-uuid/start", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("認証ヘッダーなしは403", func(t *testing.T) {
		router, _ := newLabTestRouter(t)

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/start", nil, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestLabHandler_SubmitLab(t *testing.T) {
	userID := uuid.New()
	labID := uuid.New()

	t.Run("提出で試行回数が返る", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		body := model.SubmitLabRequest{SubmittedFlag: "flag{test}"}
		completion := &model.LabCompletion{CompletionID: uuid.New(), LabID: labID, Attempts: 3}
		labSvc.On("SubmitLab", mock.Anything, userID, labID, &body).Return(completion, nil).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/submit", body, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.LabCompletion
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 3, got.Attempts)
	})

	t.Run("空の提出は400", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		body := model.SubmitLabRequest{}
		labSvc.On("SubmitLab", mock.Anything, userID, labID, &body).Return(nil, model.ErrInvalidInput).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/submit", body, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("未開始のラボへの提出は404", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		body := model.SubmitLabRequest{Submission: "answer"}
		labSvc.On("SubmitLab", mock.Anything, userID, labID, &body).Return(nil, model.ErrNotFound).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/submit", body, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLabHandler_CompleteLab(t *testing.T) {
	userID := uuid.New()
	labID := uuid.New()

	t.Run("完了でスコアが記録される", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		now := time.Now()
		completion := &model.LabCompletion{
			CompletionID: uuid.New(),
			LabID:        labID,
			IsCompleted:  true,
			CompletedAt:  &now,
			Score:        85,
		}
		labSvc.On("CompleteLab", mock.Anything, userID, labID, 85).Return(completion, nil).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/complete", model.CompleteLabRequest{Score: 85}, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.LabCompletion
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.True(t, got.IsCompleted)
		assert.Equal(t, 85, got.Score)
	})

	t.Run("負のスコアはバリデーションで400", func(t *testing.T) {
		router, _ := newLabTestRouter(t)

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/complete", model.CompleteLabRequest{Score: -1}, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLabHandler_UseHintAndReset(t *testing.T) {
	userID := uuid.New()
	labID := uuid.New()

	t.Run("ヒント使用", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		completion := &model.LabCompletion{CompletionID: uuid.New(), LabID: labID, HintsUsed: 2}
		labSvc.On("UseHint", mock.Anything, userID, labID).Return(completion, nil).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/hint", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.LabCompletion
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 2, got.HintsUsed)
	})

	t.Run("リセットは204", func(t *testing.T) {
		router, labSvc := newLabTestRouter(t)

		labSvc.On("ResetCompletion", mock.Anything, userID, labID).Return(nil).Once()

		req := createRequest(t, "POST", "/api/v1/labs/"+labID.String()+"/reset", nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
