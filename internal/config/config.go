package config

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, BaseURL string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	AESKey          []byte        // seals stored upstream provider keys
	JWTSecret       []byte        // signs console session tokens
	SessionTTL      time.Duration
	RateLimitPerMin int
	BootstrapEmail  string // first admin user, created on startup if missing
	BootstrapPass   string
}

type Cfg struct {
	App   AppCfg
	DB    DBCfg
	Redis RedisCfg
	Sec   SecurityCfg
}

// Load reads configuration from the environment (plus .env when present) and
// fails fast on anything the gateway cannot run without.
func Load() Cfg {
	// .env is a dev convenience; missing file is fine.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "dev")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_PER_MIN", 300)
	viper.SetDefault("SESSION_TTL", "12h")

	key, keyErr := base64.StdEncoding.DecodeString(viper.GetString("AES_256_KEY_BASE64"))

	cfg := Cfg{
		App: AppCfg{
			Env:     viper.GetString("APP_ENV"),
			Port:    viper.GetString("APP_PORT"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Sec: SecurityCfg{
			AESKey:          key,
			JWTSecret:       []byte(viper.GetString("JWT_SECRET")),
			SessionTTL:      viper.GetDuration("SESSION_TTL"),
			RateLimitPerMin: viper.GetInt("RATE_LIMIT_PER_MIN"),
			BootstrapEmail:  strings.TrimSpace(viper.GetString("BOOTSTRAP_ADMIN_EMAIL")),
			BootstrapPass:   viper.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}

	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if keyErr != nil || len(cfg.Sec.AESKey) != 32 {
		log.Fatal().Msg("AES_256_KEY_BASE64 must be a valid 32-byte base64 key")
	}
	if len(cfg.Sec.JWTSecret) < 16 {
		log.Fatal().Msg("JWT_SECRET must be at least 16 bytes")
	}
	return cfg
}
