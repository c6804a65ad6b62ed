package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"hwbot/internal/common/cache"
	"hwbot/internal/common/db"
	"hwbot/internal/homework/practicumclient"
	"hwbot/internal/homework/service"
	pkgerrors "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath      = "configs/homework_bot.yaml"
	defaultEnvFile         = ".env"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTelegramTimeout = 10 * time.Second

	envPracticumToken = "PRACTICUM_TOKEN"
	envTelegramToken  = "TELEGRAM_TOKEN"
	envTelegramChatID = "TELEGRAM_CHAT_ID"
)

// PracticumConfig holds homework API settings. The token only comes from the environment.
type PracticumConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Token    string        `yaml:"-"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	APIURL  string        `yaml:"apiURL"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"-"`
	ChatID  string        `yaml:"-"`
}

// PollConfig holds poll loop settings.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	FromDate int64         `yaml:"fromDate"`
}

// AlertConfig holds error alert settings.
type AlertConfig struct {
	SuppressRepeats int `yaml:"suppressRepeats"`
}

// ServerConfig holds status endpoint settings. An empty Addr disables it.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// AppConfig holds homework-bot config.
type AppConfig struct {
	Logger    logger.Config     `yaml:"logger"`
	Practicum PracticumConfig   `yaml:"practicum"`
	Telegram  TelegramConfig    `yaml:"telegram"`
	Poll      PollConfig        `yaml:"poll"`
	Alert     AlertConfig       `yaml:"alert"`
	Redis     cache.RedisConfig `yaml:"redis"`
	Journal   db.Config         `yaml:"journal"`
	Server    ServerConfig      `yaml:"server"`
}

// loadOptions says where configuration comes from.
type loadOptions struct {
	ConfigPath string
	EnvFile    string
	// LookupEnv reads the process environment; os.LookupEnv when nil.
	LookupEnv func(string) (string, bool)
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(opts loadOptions) (*AppConfig, error) {
	var cfg AppConfig

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if err := loadYAML(configPath, &cfg); err != nil {
		// the default file is optional; an explicit one is not
		if !(configPath == defaultConfigPath && errors.Is(err, fs.ErrNotExist)) {
			return nil, pkgerrors.Wrapf(err, pkgerrors.ConfigInvalid, "load %s failed", configPath)
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}
	cfg.Practicum.Token = env(envPracticumToken)
	cfg.Telegram.Token = env(envTelegramToken)
	cfg.Telegram.ChatID = env(envTelegramChatID)

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readEnvFile parses a dotenv file. A missing default file yields no values.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, pkgerrors.Wrapf(err, pkgerrors.ConfigInvalid, "load env file %s failed", path)
	}
	return values, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Practicum.Endpoint == "" {
		cfg.Practicum.Endpoint = practicumclient.DefaultEndpoint
	}
	if cfg.Practicum.Timeout == 0 {
		cfg.Practicum.Timeout = practicumclient.DefaultTimeout
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = defaultTelegramTimeout
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = service.DefaultInterval
	}
	if cfg.Redis.Addr != "" {
		cfg.Redis.ApplyDefaults()
	}
	if cfg.Journal.DSN != "" && cfg.Journal.Driver == "" {
		cfg.Journal.Driver = db.DriverSQLite
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func validateConfig(cfg *AppConfig) error {
	var missing []string
	if cfg.Practicum.Token == "" {
		missing = append(missing, envPracticumToken)
	}
	if cfg.Telegram.Token == "" {
		missing = append(missing, envTelegramToken)
	}
	if cfg.Telegram.ChatID == "" {
		missing = append(missing, envTelegramChatID)
	}
	if len(missing) > 0 {
		return pkgerrors.Newf(pkgerrors.ConfigInvalid,
			"missing required environment variables: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}

	if cfg.Poll.Interval < 0 {
		return pkgerrors.New(pkgerrors.ConfigInvalid).WithMessage("poll.interval must be positive")
	}
	if cfg.Poll.FromDate < 0 {
		return pkgerrors.New(pkgerrors.ConfigInvalid).WithMessage("poll.fromDate must not be negative")
	}
	if cfg.Alert.SuppressRepeats < -1 {
		return pkgerrors.New(pkgerrors.ConfigInvalid).WithMessage("alert.suppressRepeats must be -1 or more")
	}
	if cfg.Journal.DSN != "" {
		switch cfg.Journal.Driver {
		case db.DriverSQLite, db.DriverMySQL:
		default:
			return pkgerrors.Newf(pkgerrors.ConfigInvalid, "unsupported journal driver %q", cfg.Journal.Driver)
		}
	}
	return nil
}

// redact keeps a short prefix of a secret for the check output.
func redact(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	if len(secret) <= 6 {
		return "***"
	}
	return secret[:3] + "***"
}
