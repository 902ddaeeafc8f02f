package maincmd

import (
	"io"
	"log/slog"

	"github.com/caarlos0/env/v6"
)

// Config is the environment-driven logging surface: VIF_LOG_LEVEL selects
// the slog level, DEBUG duplicates logs to stdout in addition to stderr.
// Decoded with caarlos0/env/v6 instead of ad hoc os.Getenv calls.
type Config struct {
	LogLevel string `env:"VIF_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// newLogger builds the dual stderr(+stdout) sink: every log line always
// goes to stderr; DEBUG=1 additionally duplicates it to stdout.
func newLogger(cfg Config, stdout, stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.level()}
	if cfg.Debug {
		return slog.New(slog.NewTextHandler(io.MultiWriter(stderr, stdout), opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}
