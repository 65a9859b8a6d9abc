// internal/service/responder_openai.go
package service

import (
	"context"
	"fmt"
	"strings"

	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	langopenai "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
)

// systemPrompt はチャットアシスタントの役割を定義するプロンプト
const systemPrompt = "あなたはサイバーセキュリティ学習プラットフォームのメンターです。" +
	"学習者の質問に対して、正確で実践的な回答を簡潔に返してください。"

// OpenAIResponder は langchaingo 経由でOpenAI互換APIを呼ぶ Responder 実装です。
// APIキーは OPENAI_API_KEY 環境変数から読み込まれます。
type OpenAIResponder struct {
	llm *langopenai.LLM
	cfg *config.Config
}

func NewOpenAIResponder(cfg *config.Config) (*OpenAIResponder, error) {
	opts := []langopenai.Option{
		langopenai.WithModel(cfg.AI.Model),
	}
	if cfg.AI.BaseURL != "" {
		opts = append(opts, langopenai.WithBaseURL(cfg.AI.BaseURL))
	}
	llm, err := langopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("NewOpenAIResponder: %w", err)
	}
	return &OpenAIResponder{llm: llm, cfg: cfg}, nil
}

func (r *OpenAIResponder) GenerateReply(ctx context.Context, prompt string, history []*model.Message) (string, error) {
	logger := middleware.GetLogger(ctx)

	// 直近のメッセージだけを会話メモリに積む
	window := r.cfg.AI.HistoryWindow
	if len(history) > window {
		history = history[len(history)-window:]
	}

	chatMemory := memory.NewConversationWindowBuffer(window)
	chatMemory.ChatHistory.AddUserMessage(ctx, systemPrompt)
	for _, msg := range history {
		if msg.IsFromUser {
			chatMemory.ChatHistory.AddUserMessage(ctx, msg.Content)
		} else {
			chatMemory.ChatHistory.AddAIMessage(ctx, msg.Content)
		}
	}

	chain := chains.NewConversation(r.llm, chatMemory)
	resp, err := chains.Run(ctx, chain, prompt, chains.WithMaxTokens(r.cfg.AI.MaxTokens))
	if err != nil {
		logger.Error("AI reply generation failed", "error", err)
		return "", model.ErrUpstream
	}
	return strings.TrimSpace(resp), nil
}

func (r *OpenAIResponder) GenerateTitle(ctx context.Context, text string) (string, error) {
	logger := middleware.GetLogger(ctx)

	prompt := "次のメッセージを要約して、20文字以内の会話タイトルを1つだけ返してください。" +
		"説明や引用符は不要です。\n\n" + text
	title, err := llms.GenerateFromSinglePrompt(ctx, r.llm, prompt, llms.WithMaxTokens(64))
	if err != nil {
		logger.Error("AI title generation failed", "error", err)
		return "", model.ErrUpstream
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if title == "" {
		return "", model.ErrUpstream
	}
	return model.TruncateTitle(title), nil
}
