// internal/handlers/stats_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service"
	"go_cyber_mentor/internal/webutil"
)

type StatsHandler struct {
	service service.StatsService
	logger  *slog.Logger
}

func NewStatsHandler(s service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service: s,
		logger:  logger,
	}
}

// RecomputeStats は当日分の統計を再集計するハンドラ。何度呼んでも同じ日の行を上書きします。
func (h *StatsHandler) RecomputeStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RecomputeStats"))

	stats, err := h.service.RecomputeDailyStats(r.Context())
	if err != nil {
		logger.Error("Error recomputing daily stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Daily stats recomputed",
		slog.Int64("total_conversations", stats.TotalConversations),
		slog.Int64("total_messages", stats.TotalMessages),
	)
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetRecentStats は直近の日次統計を新しい順で返すハンドラ
func (h *StatsHandler) GetRecentStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetRecentStats"))

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			logger.Warn("Invalid limit query param", slog.String("limit", limitStr))
			appErr := model.NewAppError("INVALID_URL_PARAM", "limitの形式が正しくありません。", "limit", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		limit = parsed
	}

	stats, err := h.service.GetRecentStats(r.Context(), limit)
	if err != nil {
		logger.Error("Error getting recent stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if stats == nil {
		stats = []*model.ConversationStats{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
