// internal/handlers/learning_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service"
	"go_cyber_mentor/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type LearningHandler struct {
	service service.LearningService
	logger  *slog.Logger
}

func NewLearningHandler(s service.LearningService, logger *slog.Logger) *LearningHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LearningHandler{
		service: s,
		logger:  logger,
	}
}

// GetModules は公開中の学習モジュール一覧を返すハンドラ
func (h *LearningHandler) GetModules(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetModules"))

	modules, err := h.service.ListModules(r.Context())
	if err != nil {
		logger.Error("Error listing modules in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if modules == nil {
		modules = []*model.LearningModule{}
	}
	logger.Info("Modules listed successfully", slog.Int("count", len(modules)))
	webutil.RespondWithJSON(w, http.StatusOK, modules, logger)
}

// GetModule はスラッグで指定されたモジュールと動画一覧を返すハンドラ
func (h *LearningHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetModule"))

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		logger.Warn("Empty module slug in URL")
		appErr := model.NewAppError("INVALID_URL_PARAM", "slugが指定されていません。", "slug", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("slug", slug))

	detail, err := h.service.GetModuleDetail(r.Context(), slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Module not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting module from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, detail, logger)
}
