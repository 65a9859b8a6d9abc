// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "CyberMentor"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort   = ":8080"
	DefaultLogLevel     = "info"
	DefaultChatPageSize = 10 // チャット画面のサイドバーに出す会話数
	DefaultListPageSize = 20 // 会話一覧ページのページサイズ

	DefaultMessageCacheTTL      = 5 * time.Minute
	DefaultConversationCacheTTL = 10 * time.Minute

	DefaultAccessTokenTTL = 24 * time.Hour

	DefaultAIModel         = "gpt-4o-mini"
	DefaultAIMaxTokens     = 512
	DefaultAIHistoryWindow = 10
)
