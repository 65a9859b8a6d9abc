// internal/service/responder.go
package service

import (
	"context"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
)

// Responder はAI応答生成の境界です。
// 永続化層はこのインターフェースを呼びません。ハンドラ層が
// メッセージ追加操作と組み合わせて利用します。
type Responder interface {
	// GenerateReply は会話履歴を踏まえてユーザーメッセージへの応答を生成します
	GenerateReply(ctx context.Context, prompt string, history []*model.Message) (string, error)
	// GenerateTitle は最初のメッセージから会話タイトルを生成します
	GenerateTitle(ctx context.Context, text string) (string, error)
}

// --- LogResponder ---
// AIプロバイダが構成されていない開発環境用。入力をログに出して定型文を返します。
type LogResponder struct{}

func (r *LogResponder) GenerateReply(ctx context.Context, prompt string, history []*model.Message) (string, error) {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Generating reply (LogResponder) ---", "prompt", prompt, "history_len", len(history))
	return "これは開発用の応答です: " + prompt, nil
}

func (r *LogResponder) GenerateTitle(ctx context.Context, text string) (string, error) {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Generating title (LogResponder) ---", "text", text)
	return model.TruncateTitle(text), nil
}
