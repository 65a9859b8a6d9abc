// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	AI struct {
		Model     string `mapstructure:"model"`
		BaseURL   string `mapstructure:"base_url"`
		MaxTokens int    `mapstructure:"max_tokens"`
		// HistoryWindow は会話メモリに渡す直近メッセージ数
		HistoryWindow int `mapstructure:"history_window"`
	} `mapstructure:"ai"`
	App struct {
		Name string `mapstructure:"name"`
		// 会話一覧のキャッシュはページサイズ別にキーを分けるため、
		// 無効化時に削除する対象のページサイズをここで管理する
		ConversationPageSizes []int         `mapstructure:"conversation_page_sizes"`
		MessageCacheTTL       time.Duration `mapstructure:"message_cache_ttl"`
		ConversationCacheTTL  time.Duration `mapstructure:"conversation_cache_ttl"`
	} `mapstructure:"app"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_DATABASE_URL)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("ai.base_url", "OPENAI_BASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = AppName
	}
	if len(Cfg.App.ConversationPageSizes) == 0 {
		Cfg.App.ConversationPageSizes = []int{DefaultChatPageSize, DefaultListPageSize}
	}
	if Cfg.App.MessageCacheTTL <= 0 {
		Cfg.App.MessageCacheTTL = DefaultMessageCacheTTL
	}
	if Cfg.App.ConversationCacheTTL <= 0 {
		Cfg.App.ConversationCacheTTL = DefaultConversationCacheTTL
	}
	if Cfg.JWT.AccessTokenTTL <= 0 {
		Cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if Cfg.AI.Model == "" {
		Cfg.AI.Model = DefaultAIModel
	}
	if Cfg.AI.MaxTokens <= 0 {
		Cfg.AI.MaxTokens = DefaultAIMaxTokens
	}
	if Cfg.AI.HistoryWindow <= 0 {
		Cfg.AI.HistoryWindow = DefaultAIHistoryWindow
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if Cfg.JWT.SecretKey == "" {
		log.Println("Warning: JWT secret key is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Conversation Page Sizes: %v", Cfg.App.ConversationPageSizes)

	return nil
}
