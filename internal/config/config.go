package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`

	Narrative    NarrativeConfig    `mapstructure:"narrative"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Insights     InsightsConfig     `mapstructure:"insights"`
	HouseTrading HouseTradingConfig `mapstructure:"house_trading"`
	Sim          SimConfig          `mapstructure:"sim"`
	Stream       StreamConfig       `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type NarrativeConfig struct {
	// TickSpec drives the pipeline tick: queue drain, phase updates,
	// eviction, house strategies. Any interval short relative to the
	// shortest event duration works; 30s matches the update cadence the
	// market simulation expects.
	TickSpec            string        `mapstructure:"tick_spec"`
	EventMemory         time.Duration `mapstructure:"event_memory"`
	MaxConcurrentEvents int           `mapstructure:"max_concurrent_events"`
	BeatLookback        time.Duration `mapstructure:"beat_lookback"`
	BeatBatchSize       int           `mapstructure:"beat_batch_size"`
}

type MetricsConfig struct {
	RecalcSpec string `mapstructure:"recalc_spec"`
	BatchSize  int    `mapstructure:"batch_size"`
}

type InsightsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Spec         string        `mapstructure:"spec"`
	ActiveWindow time.Duration `mapstructure:"active_window"`
	MaxAssets    int           `mapstructure:"max_assets"`
}

type HouseTradingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SimConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TickSpec  string `mapstructure:"tick_spec"`
	MaxAssets int    `mapstructure:"max_assets"`

	// BaseVolatility feeds the adjustment engine's volatility combination;
	// NoiseScale sizes the random-walk component relative to the adjusted
	// volatility. Zero disables the walk entirely.
	BaseVolatility float64 `mapstructure:"base_volatility"`
	NoiseScale     float64 `mapstructure:"noise_scale"`
}

type StreamConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BufferSize   int           `mapstructure:"buffer_size"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)

	v.SetDefault("narrative.tick_spec", "@every 30s")
	v.SetDefault("narrative.event_memory", "168h")
	v.SetDefault("narrative.max_concurrent_events", 10)
	v.SetDefault("narrative.beat_lookback", "10m")
	v.SetDefault("narrative.beat_batch_size", 100)

	v.SetDefault("metrics.recalc_spec", "@every 1h")
	v.SetDefault("metrics.batch_size", 50)

	v.SetDefault("insights.enabled", true)
	v.SetDefault("insights.spec", "@every 1m")
	v.SetDefault("insights.active_window", "1m")
	v.SetDefault("insights.max_assets", 20)

	v.SetDefault("house_trading.enabled", true)

	v.SetDefault("sim.enabled", true)
	v.SetDefault("sim.tick_spec", "@every 15s")
	v.SetDefault("sim.max_assets", 500)
	v.SetDefault("sim.base_volatility", 0.025)
	v.SetDefault("sim.noise_scale", 0.5)

	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.write_timeout", "5s")
	v.SetDefault("stream.buffer_size", 64)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
