package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/runner"
)

// DefaultConfigPath is read when neither --config nor TRIBBLE_CONF is set.
const DefaultConfigPath = "./tribble.yml"

// DefaultSessionTTL is how long a served session may sit idle.
const DefaultSessionTTL = 24 * time.Hour

// Options holds the settings shared by the commands.
type Options struct {
	ConfigPath string
	Locale     string
	Workflow   string
	Debug      bool
	LogFormat  logging.Format

	// run
	JSON  bool
	Plain bool
	// MaxInput bounds one typed answer in bytes.
	MaxInput int

	// serve
	Host  string
	Port  int
	Watch bool
	// SessionKey is a base64 AES-256 key. When set, stored sessions are
	// encrypted.
	SessionKey string
	// SessionTTL removes sessions idle for longer. Zero keeps them.
	SessionTTL time.Duration
}

// Addr returns the listen address of the HTTP server.
func (o Options) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// Loader resolves Options from flags, TRIBBLE_* environment variables and
// defaults, in that order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with the default settings.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("TRIBBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// The configuration path keeps its historical variable name.
	_ = v.BindEnv("config", "TRIBBLE_CONF")

	v.SetDefault("config", DefaultConfigPath)
	v.SetDefault("log-format", string(logging.FormatText))
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8080)
	v.SetDefault("max-input", runner.DefaultMaxInputSize)
	v.SetDefault("session-ttl", DefaultSessionTTL)
	return &Loader{v: v}
}

// BindFlags registers the flags of cmd, including inherited persistent flags.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	if err := l.v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return l.v.BindPFlags(cmd.Flags())
}

// Load returns the resolved Options.
func (l *Loader) Load() (Options, error) {
	opts := Options{
		ConfigPath: l.v.GetString("config"),
		Locale:     l.v.GetString("locale"),
		Workflow:   l.v.GetString("workflow"),
		Debug:      l.v.GetBool("debug"),
		LogFormat:  logging.Format(l.v.GetString("log-format")),
		JSON:       l.v.GetBool("json"),
		Plain:      l.v.GetBool("plain"),
		MaxInput:   l.v.GetInt("max-input"),
		Host:       l.v.GetString("host"),
		Port:       l.v.GetInt("port"),
		Watch:      l.v.GetBool("watch"),
		SessionKey: l.v.GetString("session-key"),
		SessionTTL: l.v.GetDuration("session-ttl"),
	}
	if opts.ConfigPath == "" {
		return opts, fmt.Errorf("no configuration file given")
	}
	switch opts.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return opts, fmt.Errorf("invalid log format %q (want text or json)", opts.LogFormat)
	}
	if opts.MaxInput <= 0 {
		return opts, fmt.Errorf("invalid max input size %d", opts.MaxInput)
	}
	if opts.SessionTTL < 0 {
		return opts, fmt.Errorf("invalid session ttl %s", opts.SessionTTL)
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return opts, fmt.Errorf("invalid port %d", opts.Port)
	}
	return opts, nil
}
