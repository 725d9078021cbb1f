// Package config loads appbuilder settings from defaults, an optional
// appbuilder.yaml, a .env file and APPBUILDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matthewbaird/appbuilder/internal/project"
	"github.com/matthewbaird/appbuilder/internal/scaffold"
)

// EnvPrefix prefixes every environment override, e.g. APPBUILDER_SERVER_PORT.
const EnvPrefix = "APPBUILDER"

// FileName is the config file looked up in the base directory.
const FileName = "appbuilder"

// Config is the complete runtime configuration.
type Config struct {
	BaseDir     string          `mapstructure:"base_dir"`
	SchemaDir   string          `mapstructure:"schema_dir"`
	HostProject string          `mapstructure:"host_project"`
	Server      ServerConfig    `mapstructure:"server"`
	History     HistoryConfig   `mapstructure:"history"`
	Log         LogConfig       `mapstructure:"log"`
	Framework   FrameworkConfig `mapstructure:"framework"`
	Settings    SettingsConfig  `mapstructure:"settings"`

	// File is the config file that was read, empty when none.
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text", "json" or "" for auto
}

type FrameworkConfig struct {
	AdminCommand string `mapstructure:"admin_command"`
	Python       string `mapstructure:"python"`
	Flutter      string `mapstructure:"flutter"`
}

// SettingsConfig tunes the generated Django settings.
type SettingsConfig struct {
	Debug        bool     `mapstructure:"debug"`
	AllowedHosts []string `mapstructure:"allowed_hosts"`
	TimeZone     string   `mapstructure:"time_zone"`
	LanguageCode string   `mapstructure:"language_code"`
	Theme        string   `mapstructure:"theme"`
}

// New returns a viper instance with defaults and environment overrides set.
// Flags may be bound onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_dir", ".")
	v.SetDefault("schema_dir", "")
	v.SetDefault("host_project", "")
	v.SetDefault("config", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	def := scaffold.DefaultCommands()
	v.SetDefault("framework.admin_command", def.Admin)
	v.SetDefault("framework.python", def.Python)
	v.SetDefault("framework.flutter", def.Flutter)

	opts := project.DefaultOptions()
	v.SetDefault("settings.debug", opts.Debug)
	v.SetDefault("settings.allowed_hosts", opts.AllowedHosts)
	v.SetDefault("settings.time_zone", opts.TimeZone)
	v.SetDefault("settings.language_code", opts.LanguageCode)
	v.SetDefault("settings.theme", opts.Theme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration held by v. It reads <base_dir>/.env into
// the environment (existing variables win), then the config file named by the
// "config" key or appbuilder.{yaml,json,toml} in the base directory.
func Load(v *viper.Viper) (Config, error) {
	base, err := filepath.Abs(v.GetString("base_dir"))
	if err != nil {
		return Config{}, fmt.Errorf("resolve base directory: %w", err)
	}

	if err := godotenv.Load(filepath.Join(base, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(base)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.BaseDir = base
	cfg.SchemaDir = resolve(base, cfg.SchemaDir, "schema")
	if cfg.History.DSN == "" {
		cfg.History.DSN = defaultDSN()
	}
	return cfg, nil
}

func resolve(base, path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// defaultDSN places the ledger in the user cache directory so a run never
// writes into the base directory besides its generated output.
func defaultDSN() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return SQLiteDSN(filepath.Join(dir, "appbuilder", "history.db"))
}

// SQLiteDSN returns the DSN of a SQLite file with foreign keys enabled.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)"
}

// DSNPath returns the file path of a "file:" DSN, or "" for other DSNs.
func DSNPath(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" {
		return ""
	}
	return path
}

// ProjectOptions converts the settings section for the project renderer.
func (c Config) ProjectOptions() project.Options {
	return project.Options{
		Debug:        c.Settings.Debug,
		AllowedHosts: c.Settings.AllowedHosts,
		TimeZone:     c.Settings.TimeZone,
		LanguageCode: c.Settings.LanguageCode,
		Theme:        c.Settings.Theme,
		Python:       c.Framework.Python,
	}
}

// Commands converts the framework section for the scaffolder.
func (c Config) Commands() scaffold.Commands {
	return scaffold.Commands{
		Admin:   c.Framework.AdminCommand,
		Python:  c.Framework.Python,
		Flutter: c.Framework.Flutter,
	}
}
