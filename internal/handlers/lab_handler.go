// internal/handlers/lab_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service"
	"go_cyber_mentor/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type LabHandler struct {
	service service.LabService
	logger  *slog.Logger
}

func NewLabHandler(s service.LabService, logger *slog.Logger) *LabHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LabHandler{
		service: s,
		logger:  logger,
	}
}

// labRequestContext は認証チェックとlab_idのパースをまとめた前処理
func (h *LabHandler) labRequestContext(r *http.Request, logger *slog.Logger) (uuid.UUID, uuid.UUID, *slog.Logger, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		return uuid.Nil, uuid.Nil, logger, model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	labID, appErr := parseUUIDParam(r, "lab_id")
	if appErr != nil {
		logger.Warn("Invalid lab ID format in URL")
		return uuid.Nil, uuid.Nil, logger, appErr
	}
	logger = logger.With(slog.String("lab_id", labID.String()))
	return userID, labID, logger, nil
}

// GetLabs はモジュール配下の公開中ラボ一覧を返すハンドラ
func (h *LabHandler) GetLabs(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLabs"))

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		logger.Warn("Empty module slug in URL")
		appErr := model.NewAppError("INVALID_URL_PARAM", "slugが指定されていません。", "slug", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("slug", slug))

	labs, err := h.service.ListLabs(r.Context(), slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Module not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error listing labs in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	if labs == nil {
		labs = []*model.PracticeLab{}
	}
	logger.Info("Labs listed successfully", slog.Int("count", len(labs)))
	webutil.RespondWithJSON(w, http.StatusOK, labs, logger)
}

// StartLab はラボへの取り組みを開始するハンドラ。既に開始済みなら既存の記録を返します。
func (h *LabHandler) StartLab(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartLab"))

	userID, labID, logger, err := h.labRequestContext(r, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	completion, err := h.service.StartLab(r.Context(), userID, labID)
	if err != nil {
		logger.Error("Error starting lab in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lab started", slog.String("completion_id", completion.CompletionID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, completion, logger)
}

// SubmitLab は回答やフラグの提出を記録するハンドラ
func (h *LabHandler) SubmitLab(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitLab"))

	userID, labID, logger, err := h.labRequestContext(r, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitLabRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			firstErr := validationErrors[0]
			translatedMsg := firstErr.Translate(webutil.Trans)
			appErr := model.NewAppError("VALIDATION_ERROR", translatedMsg, firstErr.Field(), model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	completion, err := h.service.SubmitLab(r.Context(), userID, labID, &req)
	if err != nil {
		logger.Error("Error submitting lab in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lab submission recorded", slog.Int("attempts", completion.Attempts))
	webutil.RespondWithJSON(w, http.StatusOK, completion, logger)
}

// UseHint はヒント使用回数を記録するハンドラ
func (h *LabHandler) UseHint(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UseHint"))

	userID, labID, logger, err := h.labRequestContext(r, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	completion, err := h.service.UseHint(r.Context(), userID, labID)
	if err != nil {
		logger.Error("Error recording hint usage in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Hint usage recorded", slog.Int("hints_used", completion.HintsUsed))
	webutil.RespondWithJSON(w, http.StatusOK, completion, logger)
}

// CompleteLab はラボを完了状態にするハンドラ
func (h *LabHandler) CompleteLab(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CompleteLab"))

	userID, labID, logger, err := h.labRequestContext(r, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.CompleteLabRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			firstErr := validationErrors[0]
			translatedMsg := firstErr.Translate(webutil.Trans)
			appErr := model.NewAppError("VALIDATION_ERROR", translatedMsg, firstErr.Field(), model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	completion, err := h.service.CompleteLab(r.Context(), userID, labID, req.Score)
	if err != nil {
		logger.Error("Error completing lab in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lab completed", slog.Int("score", completion.Score))
	webutil.RespondWithJSON(w, http.StatusOK, completion, logger)
}

// ResetLab は完了状態をリセットするハンドラ (挑戦回数は保持)
func (h *LabHandler) ResetLab(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ResetLab"))

	userID, labID, logger, err := h.labRequestContext(r, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.ResetCompletion(r.Context(), userID, labID); err != nil {
		logger.Error("Error resetting lab in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lab completion reset")
	w.WriteHeader(http.StatusNoContent)
}
