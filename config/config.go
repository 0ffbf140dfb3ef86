package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
	// AllowedOrigins lists the WebSocket origins that are permitted.
	// An empty slice allows all origins (useful for local development only).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type BattleConfig struct {
	Mode        string        `mapstructure:"mode"` // round | ct
	CTThreshold int           `mapstructure:"ct_threshold"`
	APCarry     float64       `mapstructure:"ap_carry"`
	AttackPower int           `mapstructure:"attack_power"`
	SpellPower  int           `mapstructure:"spell_power"`
	CastMPCost  int           `mapstructure:"cast_mp_cost"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	EventBuf    int           `mapstructure:"event_buf"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("battle.mode", "round")
	v.SetDefault("battle.ct_threshold", 100)
	v.SetDefault("battle.ap_carry", 0.25)
	v.SetDefault("battle.attack_power", 10)
	v.SetDefault("battle.spell_power", 8)
	v.SetDefault("battle.cast_mp_cost", 5)
	v.SetDefault("battle.session_ttl", "30m")
	v.SetDefault("battle.event_buf", 64)
	v.SetDefault("battle.max_sessions", 1024)
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
