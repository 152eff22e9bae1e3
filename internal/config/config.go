// Package config resolves runtime settings from defaults, an optional YAML file,
// a .env file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBackendURL       = "http://localhost:8000"
	DefaultLogLevel         = "warn"
	DefaultDevListen        = "127.0.0.1:8000"
	DefaultDevCompleteAfter = 5 * time.Second
	DefaultEnvFile          = ".env"
	configName              = "clipper"
)

type Config struct {
	BackendURL       string        `json:"backend_url"`
	LogLevel         string        `json:"log_level"`
	LogFile          string        `json:"log_file,omitempty"`
	HTTPTimeout      time.Duration `json:"http_timeout"`
	DevListen        string        `json:"dev_listen"`
	DevCompleteAfter time.Duration `json:"dev_complete_after"`
	ConfigFile       string        `json:"config_file,omitempty"`
}

type LoadOptions struct {
	// ConfigFile is an explicit YAML path; when empty clipper.yaml is searched in . and ./config.
	ConfigFile string
	// EnvFile defaults to .env; a missing file is not an error.
	EnvFile string
	// BackendURL overrides every other source when non-empty.
	BackendURL string
}

func Load(opts LoadOptions) (Config, error) {
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	_ = v.BindEnv("backend.url", "CLIPPER_BACKEND_URL", "BACKEND_URL")
	_ = v.BindEnv("log.level", "CLIPPER_LOG_LEVEL")
	_ = v.BindEnv("log.file", "CLIPPER_LOG_FILE")
	_ = v.BindEnv("http.timeout", "CLIPPER_HTTP_TIMEOUT")
	_ = v.BindEnv("dev.listen", "CLIPPER_DEV_LISTEN")
	_ = v.BindEnv("dev.complete_after", "CLIPPER_DEV_COMPLETE_AFTER")

	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("dev.listen", DefaultDevListen)
	v.SetDefault("dev.complete_after", DefaultDevCompleteAfter.String())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if strings.TrimSpace(opts.ConfigFile) != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	rawBackend := v.GetString("backend.url")
	if strings.TrimSpace(opts.BackendURL) != "" {
		rawBackend = opts.BackendURL
	}
	backend, err := NormalizeBackendURL(rawBackend)
	if err != nil {
		return Config{}, err
	}

	timeout := v.GetDuration("http.timeout")
	if timeout < 0 {
		return Config{}, fmt.Errorf("http.timeout must be >= 0, got %s", timeout)
	}
	completeAfter := v.GetDuration("dev.complete_after")
	if completeAfter < 0 {
		return Config{}, fmt.Errorf("dev.complete_after must be >= 0, got %s", completeAfter)
	}

	return Config{
		BackendURL:       backend,
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		LogFile:          strings.TrimSpace(v.GetString("log.file")),
		HTTPTimeout:      timeout,
		DevListen:        strings.TrimSpace(v.GetString("dev.listen")),
		DevCompleteAfter: completeAfter,
		ConfigFile:       v.ConfigFileUsed(),
	}, nil
}

// NormalizeBackendURL trims whitespace and trailing slashes and requires an absolute
// http(s) origin.
func NormalizeBackendURL(raw string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return DefaultBackendURL, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid backend url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid backend url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid backend url %q: host is required", raw)
	}
	return s, nil
}
