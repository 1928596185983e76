package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerName  string         `mapstructure:"server_name" yaml:"server_name"`
	Version     string         `mapstructure:"version" yaml:"version"`
	Environment string         `mapstructure:"environment" yaml:"environment"`
	Port        int            `mapstructure:"port" yaml:"port"`
	Postgres    PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Redis       RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Credit      CreditConfig   `mapstructure:"credit" yaml:"credit"`
	Cooldown    CooldownConfig `mapstructure:"cooldown" yaml:"cooldown"`
	Summary     SummaryConfig  `mapstructure:"summary" yaml:"summary"`
	Auth        AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Providers   ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

type PostgresConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Port     int           `mapstructure:"port" yaml:"port"`
	User     string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	DBName   string        `mapstructure:"db_name" yaml:"db_name"`
	MaxIdle  int           `mapstructure:"max_idle" yaml:"max_idle"`
	MaxOpen  int           `mapstructure:"max_open" yaml:"max_open"`
	MaxLife  time.Duration `mapstructure:"max_life" yaml:"max_life"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	Port         int           `mapstructure:"port" yaml:"port"`
	Password     string        `mapstructure:"password" yaml:"password"`
	Database     int           `mapstructure:"database" yaml:"database"`
	Prefix       string        `mapstructure:"prefix" yaml:"prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	RateLimitQPS int           `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
}

// CreditConfig bounds the spend authorization a caller may request.
// A request passes only when min_credit < max_credit < band.
type CreditConfig struct {
	MinCredit int `mapstructure:"min_credit" yaml:"min_credit"`
	Band      int `mapstructure:"band" yaml:"band"`
}

type CooldownConfig struct {
	EvaluationSec int64 `mapstructure:"evaluation_sec" yaml:"evaluation_sec"`
	SummarySec    int64 `mapstructure:"summary_sec" yaml:"summary_sec"`
	UploadSec     int64 `mapstructure:"upload_sec" yaml:"upload_sec"`
}

type SummaryConfig struct {
	MaxPrevConversation int    `mapstructure:"max_prev_conversation" yaml:"max_prev_conversation"`
	SystemPrompt        string `mapstructure:"system_prompt" yaml:"system_prompt"`
}

type AuthConfig struct {
	JwtSecret      string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	ExpireAccessH  int    `mapstructure:"expire_access_h" yaml:"expire_access_h"`
	ExpireRefreshH int    `mapstructure:"expire_refresh_h" yaml:"expire_refresh_h"`
	DefaultRegion  string `mapstructure:"default_region" yaml:"default_region"`
}

type ProviderConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	OpenAI          BackendConfig `mapstructure:"openai" yaml:"openai"`
	Gemini          BackendConfig `mapstructure:"gemini" yaml:"gemini"`
}

type BackendConfig struct {
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP        float64 `mapstructure:"top_p" yaml:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

func LoadConfig() (*AppConfig, error) {
	var config AppConfig

	viper.SetConfigFile("config/config.yml")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return &config, err
	}
	if err := viper.Unmarshal(&config); err != nil {
		return &config, err
	}
	return &config, nil
}
