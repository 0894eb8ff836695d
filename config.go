package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agustindinardi/DigaloConMimica/charades"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	expiryDelay    time.Duration
	handoffDelay   time.Duration
	metrics        bool
	port           int
	prefix         string
	profile        bool
	rounds         int
	sessionTimeout time.Duration
	timeLimit      int
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
	words          string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}

	l := charades.DefaultLimits()
	if c.timeLimit < l.TimeLimitMin || c.timeLimit > l.TimeLimitMax {
		return fmt.Errorf("invalid time limit (must be between %d-%d seconds inclusive): %d", l.TimeLimitMin, l.TimeLimitMax, c.timeLimit)
	}
	if c.rounds < l.RoundsMin || c.rounds > l.RoundsMax {
		return fmt.Errorf("invalid round count (must be between %d-%d inclusive): %d", l.RoundsMin, l.RoundsMax, c.rounds)
	}
	if c.expiryDelay < 0 || c.handoffDelay < 0 {
		return errors.New("--expiry-delay and --handoff-delay must not be negative")
	}

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// limits returns the game limits with the configured defaults and timings.
func (c *Config) limits() charades.Limits {
	l := charades.DefaultLimits()
	l.DefaultTimeLimit = c.timeLimit
	l.DefaultRounds = c.rounds
	l.ExpiryDelay = c.expiryDelay
	l.HandoffDelay = c.handoffDelay

	return l
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DIGALO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "digaloconmimica",
		Short:         "A party charades game: teams act out words against the clock.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: DIGALO_BIND)")
	fs.DurationVar(&cfg.expiryDelay, "expiry-delay", time.Second, "pause between the clock running out and the turn ending (env: DIGALO_EXPIRY_DELAY)")
	fs.DurationVar(&cfg.handoffDelay, "handoff-delay", 2*time.Second, "pause between turns (env: DIGALO_HANDOFF_DELAY)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "expose prometheus metrics on /metrics (env: DIGALO_METRICS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: DIGALO_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: DIGALO_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: DIGALO_PROFILE)")
	fs.IntVar(&cfg.rounds, "rounds", 3, "default number of rounds for new tables (env: DIGALO_ROUNDS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle tables are closed (env: DIGALO_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.timeLimit, "time-limit", 60, "default seconds per turn for new tables (env: DIGALO_TIME_LIMIT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: DIGALO_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: DIGALO_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: DIGALO_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: DIGALO_VERSION)")
	fs.StringVar(&cfg.words, "words", "", "yaml, json, or toml file of words per category, merged over the built-in lists (env: DIGALO_WORDS)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("digaloconmimica v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
