package config

// Configuration is layered the same way for every command:
// 1. defaults
// 2. config.yaml (or --config)
// 3. .env file
// 4. environment variables
// 5. command line flags

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ohlc-logchart/internal/series"
)

type Config struct {
	Series   SeriesConfig   `mapstructure:"series"`
	Shape    ShapeConfig    `mapstructure:"shape"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	App      AppConfig      `mapstructure:"app"`
}

// SeriesConfig - walk length, time axis and boom window
type SeriesConfig struct {
	PointCount  int     `mapstructure:"point_count"`
	Step        string  `mapstructure:"step"`   // Go duration between samples, "1h"
	Bucket      string  `mapstructure:"bucket"` // OHLC packing resolution, "1h"
	Origin      string  `mapstructure:"origin"` // RFC3339 or YYYY-MM-DD
	BoomStart   int     `mapstructure:"boom_start"`
	BoomEnd     int     `mapstructure:"boom_end"`
	MinStep     float64 `mapstructure:"min_step"`
	MaxStep     float64 `mapstructure:"max_step"`
	Seed        int64   `mapstructure:"seed"` // 0 = random per run
}

// ShapeConfig - amplitude and baseline shaping of the two walks
type ShapeConfig struct {
	LevelA      float64 `mapstructure:"level_a"`
	GainA       float64 `mapstructure:"gain_a"`
	FloorA      float64 `mapstructure:"floor_a"`
	LevelB      float64 `mapstructure:"level_b"`
	GainB       float64 `mapstructure:"gain_b"`
	FloorRatioB float64 `mapstructure:"floor_ratio_b"`
}

type ChartConfig struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Theme      string `mapstructure:"theme"`
	Title      string `mapstructure:"title"`
	YAxisTitle string `mapstructure:"y_axis_title"`
	SeriesName string `mapstructure:"series_name"`
	OutputDir  string `mapstructure:"output_dir"`
	FileName   string `mapstructure:"file_name"`
}

type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"` // empty disables the run archive
}

type TelegramConfig struct {
	BotToken   string `mapstructure:"bot_token"`
	ChatID     int64  `mapstructure:"chat_id"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type ScheduleConfig struct {
	Cron string `mapstructure:"cron"` // robfig/cron spec with seconds
}

type AppConfig struct {
	LogDir string `mapstructure:"log_dir"`
}

// Load reads the configuration. configFile may be empty, in which case
// ./config.yaml is used when present. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LOGCHART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Telegram keeps the short names used by the bot deployments.
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN", "LOGCHART_TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID", "LOGCHART_TELEGRAM_CHAT_ID")
	v.BindEnv("storage.sqlite_path", "SQLITE_PATH", "LOGCHART_STORAGE_SQLITE_PATH")
	v.BindEnv("schedule.cron", "CRON_SCHEDULE", "LOGCHART_SCHEDULE_CRON")
	v.BindEnv("chart.theme", "THEME", "LOGCHART_CHART_THEME")
}

func setDefaults(v *viper.Viper) {
	d := series.DefaultParams()

	v.SetDefault("series.point_count", d.PointCount)
	v.SetDefault("series.step", "1h")
	v.SetDefault("series.bucket", "1h")
	v.SetDefault("series.origin", d.Origin.Format("2006-01-02"))
	v.SetDefault("series.boom_start", d.Blend.TransitionStart)
	v.SetDefault("series.boom_end", d.Blend.TransitionEnd)
	v.SetDefault("series.min_step", d.MinStep)
	v.SetDefault("series.max_step", d.MaxStep)
	v.SetDefault("series.seed", 0)

	v.SetDefault("shape.level_a", d.LevelA)
	v.SetDefault("shape.gain_a", d.GainA)
	v.SetDefault("shape.floor_a", d.FloorA)
	v.SetDefault("shape.level_b", d.LevelB)
	v.SetDefault("shape.gain_b", d.GainB)
	v.SetDefault("shape.floor_ratio_b", d.FloorRatioB)

	v.SetDefault("chart.width", 2326)
	v.SetDefault("chart.height", 1334)
	v.SetDefault("chart.theme", "darkGold")
	v.SetDefault("chart.title", "OHLC Chart with Logarithmic Y Axis")
	v.SetDefault("chart.y_axis_title", "Stock price (€)")
	v.SetDefault("chart.series_name", "Stock price")
	v.SetDefault("chart.output_dir", "etc/charts")
	v.SetDefault("chart.file_name", "ohlc_log_chart.png")

	v.SetDefault("storage.data_dir", "data_out")
	v.SetDefault("storage.sqlite_path", "")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.max_retries", 3)

	v.SetDefault("schedule.cron", "0 0 10 * * *") // every day at 10:00

	v.SetDefault("app.log_dir", "logs")
}

// RegisterFlags declares one flag per overridable key on fs. Flag names equal
// the config keys so BindPFlags maps them directly.
func RegisterFlags(fs *pflag.FlagSet) {
	d := series.DefaultParams()

	fs.Int("series.point_count", d.PointCount, "Number of samples per walk (env: LOGCHART_SERIES_POINT_COUNT)")
	fs.String("series.step", "1h", "Time between samples (env: LOGCHART_SERIES_STEP)")
	fs.String("series.bucket", "1h", "OHLC bucket width (env: LOGCHART_SERIES_BUCKET)")
	fs.String("series.origin", d.Origin.Format("2006-01-02"), "Date origin of the X axis (env: LOGCHART_SERIES_ORIGIN)")
	fs.Int("series.boom_start", d.Blend.TransitionStart, "Sample index where the price boom starts (env: LOGCHART_SERIES_BOOM_START)")
	fs.Int("series.boom_end", d.Blend.TransitionEnd, "Sample index where the price boom ends (env: LOGCHART_SERIES_BOOM_END)")
	fs.Int64("series.seed", 0, "Random seed, 0 for a random run (env: LOGCHART_SERIES_SEED)")

	fs.String("chart.theme", "darkGold", "Chart theme: darkGold or light (env: THEME)")
	fs.String("chart.output_dir", "etc/charts", "Directory for rendered charts (env: LOGCHART_CHART_OUTPUT_DIR)")

	fs.String("storage.data_dir", "data_out", "Directory for JSON/CSV snapshots (env: LOGCHART_STORAGE_DATA_DIR)")
	fs.String("storage.sqlite_path", "", "SQLite run archive, empty to disable (env: SQLITE_PATH)")

	fs.Int64("telegram.chat_id", 0, "Telegram chat for published charts (env: TELEGRAM_CHAT_ID)")
	fs.String("schedule.cron", "0 0 10 * * *", "Cron spec (with seconds) for the schedule command (env: CRON_SCHEDULE)")
	fs.String("app.log_dir", "logs", "Log directory (env: LOGCHART_APP_LOG_DIR)")
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.Chart.Width < 200 || c.Chart.Height < 200 {
		return fmt.Errorf("chart size %dx%d is too small (min 200x200)", c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.FileName == "" {
		return fmt.Errorf("chart.file_name is required")
	}
	if c.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}
	return nil
}

// ValidateTelegram is checked only by commands that publish.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required (env: TELEGRAM_CHAT_ID)")
	}
	return nil
}

// Params converts the series and shape sections into pipeline parameters.
func (c *Config) Params() (series.Params, error) {
	step, err := time.ParseDuration(c.Series.Step)
	if err != nil {
		return series.Params{}, fmt.Errorf("invalid series.step %q: %w", c.Series.Step, err)
	}
	bucket, err := time.ParseDuration(c.Series.Bucket)
	if err != nil {
		return series.Params{}, fmt.Errorf("invalid series.bucket %q: %w", c.Series.Bucket, err)
	}
	origin, err := parseOrigin(c.Series.Origin)
	if err != nil {
		return series.Params{}, err
	}

	p := series.Params{
		PointCount:  c.Series.PointCount,
		Step:        step.Milliseconds(),
		BucketWidth: bucket.Milliseconds(),
		Origin:      origin,
		Blend:       series.RegimeBlendConfig{TransitionStart: c.Series.BoomStart, TransitionEnd: c.Series.BoomEnd},
		MinStep:     c.Series.MinStep,
		MaxStep:     c.Series.MaxStep,
		LevelA:      c.Shape.LevelA,
		GainA:       c.Shape.GainA,
		FloorA:      c.Shape.FloorA,
		LevelB:      c.Shape.LevelB,
		GainB:       c.Shape.GainB,
		FloorRatioB: c.Shape.FloorRatioB,
		Seed:        c.Series.Seed,
	}
	if err := p.Validate(); err != nil {
		return series.Params{}, err
	}
	return p, nil
}

func parseOrigin(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid series.origin %q: want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
