// Package config loads client, rule and logging settings from an optional
// file and the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/logging"
	"github.com/goliatone/go-shim/pkg/client"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/rules"
	"github.com/heetch/confita"
	"github.com/heetch/confita/backend"
	"github.com/heetch/confita/backend/env"
	"github.com/heetch/confita/backend/file"
	"github.com/sirupsen/logrus"
)

// Config is the flat settings surface. Environment keys are the upper-cased
// config tags, e.g. SHIM_RELEASE.
type Config struct {
	Release          string        `config:"shim_release" yaml:"release" json:"release"`
	Environment      string        `config:"shim_environment" yaml:"environment" json:"environment"`
	ServerName       string        `config:"shim_server_name" yaml:"server_name" json:"server_name"`
	Channel          string        `config:"shim_channel" yaml:"channel" json:"channel"`
	MaxBreadcrumbs   int           `config:"shim_max_breadcrumbs" yaml:"max_breadcrumbs" json:"max_breadcrumbs"`
	SampleRate       float64       `config:"shim_sample_rate" yaml:"sample_rate" json:"sample_rate"`
	DefaultLevel     string        `config:"shim_default_level" yaml:"default_level" json:"default_level"`
	SendTimeout      time.Duration `config:"shim_send_timeout" yaml:"-" json:"-"`
	BeforeSend       string        `config:"shim_before_send" yaml:"before_send" json:"before_send"`
	BeforeBreadcrumb string        `config:"shim_before_breadcrumb" yaml:"before_breadcrumb" json:"before_breadcrumb"`
	RuleEngine       string        `config:"shim_rule_engine" yaml:"rule_engine" json:"rule_engine"`
	TransportEnabled bool          `config:"shim_transport_enabled" yaml:"transport_enabled" json:"transport_enabled"`
	MetricsNamespace string        `config:"shim_metrics_namespace" yaml:"metrics_namespace" json:"metrics_namespace"`
	LogLevel         string        `config:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat        string        `config:"log_format" yaml:"log_format" json:"log_format"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Channel:          transport.DefaultChannel,
		MaxBreadcrumbs:   client.DefaultMaxBreadcrumbs,
		SampleRate:       1,
		DefaultLevel:     string(shim.LevelInfo),
		SendTimeout:      client.DefaultSendTimeout,
		RuleEngine:       "expr",
		TransportEnabled: true,
		LogLevel:         logging.DefaultLevel.String(),
		LogFormat:        logging.DefaultFormat,
	}
}

// Load starts from Default, applies path when it names an existing file, then
// the environment. An empty path skips the file.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	var backends []backend.Backend
	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		backends = append(backends, file.NewBackend(path))
	}
	backends = append(backends, env.NewBackend())

	loader := confita.NewLoader(backends...)
	if err := loader.Load(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}
	return cfg, nil
}

// ClientOptions maps the settings onto client.Options.
func (c Config) ClientOptions() (client.Options, error) {
	level := shim.ParseLevel(c.DefaultLevel)
	if strings.TrimSpace(c.DefaultLevel) != "" && level.IsZero() {
		return client.Options{}, fmt.Errorf("config: unknown default level %q", c.DefaultLevel)
	}
	return client.Options{
		Release:          c.Release,
		Environment:      c.Environment,
		ServerName:       c.ServerName,
		Channel:          c.Channel,
		MaxBreadcrumbs:   c.MaxBreadcrumbs,
		SampleRate:       c.SampleRate,
		DefaultLevel:     level,
		SendTimeout:      c.SendTimeout,
		BeforeSend:       c.BeforeSend,
		BeforeBreadcrumb: c.BeforeBreadcrumb,
	}, nil
}

// TransportConfig maps the settings onto transport.Config.
func (c Config) TransportConfig() transport.Config {
	return transport.Config{
		Enabled: c.TransportEnabled,
		Channel: c.Channel,
	}
}

// Evaluator builds the rule engine named by RuleEngine with the default
// function set and a program cache.
func (c Config) Evaluator() (rules.Evaluator, error) {
	registry := rules.DefaultFunctions()
	cache := rules.NewMemoryCache()
	switch strings.ToLower(strings.TrimSpace(c.RuleEngine)) {
	case "", "expr":
		return rules.NewExprEvaluator(
			rules.ExprWithFunctionRegistry(registry),
			rules.ExprWithProgramCache(cache),
		), nil
	case "cel":
		return rules.NewCELEvaluator(
			rules.CELWithFunctionRegistry(registry),
			rules.CELWithProgramCache(cache),
		), nil
	case "js":
		evaluator := rules.NewJSEvaluator(
			rules.JSWithFunctionRegistry(registry),
			rules.JSWithProgramCache(cache),
		)
		if evaluator == nil {
			return nil, fmt.Errorf("config: js rule engine requires the js_eval build tag")
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("config: unknown rule engine %q", c.RuleEngine)
	}
}

// Logger builds the configured logrus logger.
func (c Config) Logger() (*logrus.Logger, error) {
	return logging.Configure(os.Stdout, c.LogLevel, c.LogFormat)
}
