// internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/service"
	"go_cyber_mentor/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AIが応答できなかったときにユーザーへ返す定型文
const aiFallbackReply = "申し訳ありません、現在応答できません。しばらくしてからもう一度お試しください。"

type ChatHandler struct {
	convService service.ConversationService
	responder   service.Responder
	cfg         *config.Config
	logger      *slog.Logger
}

func NewChatHandler(convService service.ConversationService, responder service.Responder, cfg *config.Config, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		convService: convService,
		responder:   responder,
		cfg:         cfg,
		logger:      logger,
	}
}

// SendMessage はユーザーメッセージを受け取り、AI応答を生成して返すハンドラ。
// conversation_id が未指定なら新しい会話を作成します。
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SendMessage"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.SendMessageRequest
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

	// 会話を取得、なければ新規作成
	var conv *model.Conversation
	if req.ConversationID != nil {
		conv, err = h.convService.GetConversation(r.Context(), userID, *req.ConversationID)
	} else {
		conv, err = h.convService.CreateConversation(r.Context(), userID)
	}
	if err != nil {
		logger.Error("Error resolving conversation", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("conversation_id", conv.ConversationID.String()))
	hadTitle := conv.Title != ""

	resp, err := h.exchange(r, userID, conv, req.Message, hadTitle, logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Message exchange completed")
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// PostConversation は新しい会話を作成するハンドラ。
// initial_message があれば最初のやり取りもあわせて行います。
func (h *ChatHandler) PostConversation(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostConversation"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.CreateConversationRequest
	if r.ContentLength > 0 {
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
			appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
	}

	conv, err := h.convService.CreateConversation(r.Context(), userID)
	if err != nil {
		logger.Error("Error creating conversation in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("conversation_id", conv.ConversationID.String()))

	if req.InitialMessage != "" {
		resp, err := h.exchange(r, userID, conv, req.InitialMessage, false, logger)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		logger.Info("Conversation created with initial message")
		webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
		return
	}

	logger.Info("Conversation created")
	webutil.RespondWithJSON(w, http.StatusCreated, conv, logger)
}

// exchange はユーザーメッセージの保存、AI応答の生成・保存、タイトル生成までを行います
func (h *ChatHandler) exchange(r *http.Request, userID uuid.UUID, conv *model.Conversation, content string, hadTitle bool, logger *slog.Logger) (*model.SendMessageResponse, error) {
	ctx := r.Context()

	// AI応答に渡す履歴は送信前の時点のもの
	history, err := h.convService.GetMessages(ctx, userID, conv.ConversationID)
	if err != nil {
		logger.Error("Error loading conversation history", slog.Any("error", err))
		return nil, err
	}

	userMsg, err := h.convService.AppendMessage(ctx, userID, conv.ConversationID, content, true)
	if err != nil {
		logger.Error("Error appending user message", slog.Any("error", err))
		return nil, err
	}

	reply, err := h.responder.GenerateReply(ctx, content, history)
	if err != nil {
		// AI側の失敗で会話を壊さない。定型文を応答として保存する。
		logger.Warn("AI reply generation failed, using fallback", slog.Any("error", err))
		reply = aiFallbackReply
	}

	aiMsg, err := h.convService.AppendMessage(ctx, userID, conv.ConversationID, reply, false)
	if err != nil {
		logger.Error("Error appending AI message", slog.Any("error", err))
		return nil, err
	}

	// 最初のやり取りならAIにタイトルを付けさせる。失敗しても
	// AppendMessage側で先頭メッセージ由来のタイトルが既に入っている。
	title := conv.Title
	if !hadTitle {
		generated, err := h.responder.GenerateTitle(ctx, content)
		if err == nil && generated != "" {
			if err := h.convService.UpdateTitle(ctx, userID, conv.ConversationID, generated); err != nil {
				logger.Warn("Failed to update conversation title", slog.Any("error", err))
			} else {
				title = generated
			}
		} else if err != nil {
			logger.Warn("AI title generation failed", slog.Any("error", err))
		}
		if title == "" {
			title = model.TruncateTitle(content)
		}
	}

	return &model.SendMessageResponse{
		ConversationID:    conv.ConversationID,
		ConversationTitle: title,
		UserMessage:       userMsg,
		AIMessage:         aiMsg,
	}, nil
}

// GetConversations は会話一覧を更新日時の降順で返すハンドラ
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetConversations"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	limit := config.DefaultChatPageSize
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

	convs, err := h.convService.ListConversations(r.Context(), userID, limit)
	if err != nil {
		logger.Error("Error listing conversations in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if convs == nil {
		convs = []*model.Conversation{}
	}
	logger.Info("Conversations listed successfully", slog.Int("count", len(convs)))
	webutil.RespondWithJSON(w, http.StatusOK, convs, logger)
}

// GetConversationMessages は会話内のメッセージを時系列の昇順で返すハンドラ
func (h *ChatHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetConversationMessages"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	convID, appErr := parseUUIDParam(r, "conversation_id")
	if appErr != nil {
		logger.Warn("Invalid conversation ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("conversation_id", convID.String()))

	messages, err := h.convService.GetMessages(r.Context(), userID, convID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Conversation not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting messages from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	if messages == nil {
		messages = []*model.Message{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages, logger)
}

// DeleteConversation は会話とそのメッセージを削除するハンドラ
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteConversation"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	convID, appErr := parseUUIDParam(r, "conversation_id")
	if appErr != nil {
		logger.Warn("Invalid conversation ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("conversation_id", convID.String()))

	if err := h.convService.DeleteConversation(r.Context(), userID, convID); err != nil {
		logger.Error("Error deleting conversation in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Conversation deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMessage は単一メッセージを削除するハンドラ
func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteMessage"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	msgID, appErr := parseUUIDParam(r, "message_id")
	if appErr != nil {
		logger.Warn("Invalid message ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("message_id", msgID.String()))

	if err := h.convService.DeleteMessage(r.Context(), userID, msgID); err != nil {
		logger.Error("Error deleting message in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Message deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// parseUUIDParam はURLパスパラメータをUUIDとして取り出します
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, *model.AppError) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", name+"の形式が正しくありません。", name, model.ErrInvalidInput)
	}
	return id, nil
}
