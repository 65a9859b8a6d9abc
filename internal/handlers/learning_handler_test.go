// internal/handlers/learning_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_cyber_mentor/internal/handlers"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service/mocks"
)

func newLearningTestRouter(t *testing.T) (*chi.Mux, *mocks.MockLearningService) {
	t.Helper()
	mockLearningService := mocks.NewMockLearningService(t)
	learningHandler := handlers.NewLearningHandler(mockLearningService, nil)

	router := chi.NewRouter()
	router.Get("/api/v1/learning/modules", learningHandler.GetModules)
	router.Get("/api/v1/learning/modules/{slug}", learningHandler.GetModule)
	return router, mockLearningService
}

func TestLearningHandler_GetModules(t *testing.T) {
	t.Run("モジュール一覧が返る", func(t *testing.T) {
		router, learningSvc := newLearningTestRouter(t)

		modules := []*model.LearningModule{
			{ModuleID: uuid.New(), Slug: "basics", Title: "Basics", Order: 1},
			{ModuleID: uuid.New(), Slug: "web-security", Title: "Web Security", Order: 2},
		}
		learningSvc.On("ListModules", mock.Anything).Return(modules, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/learning/modules", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got []*model.LearningModule
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "basics", got[0].Slug)
	})

	t.Run("0件でも空配列が返る", func(t *testing.T) {
		router, learningSvc := newLearningTestRouter(t)

		learningSvc.On("ListModules", mock.Anything).Return(nil, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/learning/modules", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestLearningHandler_GetModule(t *testing.T) {
	t.Run("モジュール詳細と動画が返る", func(t *testing.T) {
		router, learningSvc := newLearningTestRouter(t)

		module := &model.LearningModule{ModuleID: uuid.New(), Slug: "web-security", Title: "Web Security"}
		detail := &model.ModuleDetailResponse{
			Module: module,
			Videos: []*model.LearningVideo{
				{VideoID: uuid.New(), ModuleID: module.ModuleID, Title: "Intro", YouTubeID: "abc", Order: 1},
			},
		}
		learningSvc.On("GetModuleDetail", mock.Anything, "web-security").Return(detail, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/learning/modules/web-security", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.ModuleDetailResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "web-security", got.Module.Slug)
		require.Len(t, got.Videos, 1)
	})

	t.Run("存在しないスラッグは404", func(t *testing.T) {
		router, learningSvc := newLearningTestRouter(t)

		learningSvc.On("GetModuleDetail", mock.Anything, "nope").Return(nil, model.ErrNotFound).Once()

		req := httptest.NewRequest("GET", "/api/v1/learning/modules/nope", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
