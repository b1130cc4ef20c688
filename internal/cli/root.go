package cli

import (
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	nodela "github.com/nodela/nodela-go"
	"github.com/nodela/nodela-go/internal/config"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	apiKey     string
	configPath string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	rateLimit  float64
	debug      bool
	json       bool
}

// RootCmd creates the nodela command tree.
// The env parameter provides injectable dependencies for testing.
func RootCmd(env *Env, version string) *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "nodela",
		Short: "Create invoices and inspect payments on Nodela",
		Long: `Command-line client for the Nodela payment API.

The API key is read from --api-key, the profile given by --config, or the
NODELA_API_KEY environment variable, in that order. A .env file in the
working directory is loaded at startup.`,
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.apiKey, "api-key", "", "API key (default: $NODELA_API_KEY)")
	pf.StringVar(&g.configPath, "config", "", "YAML profile with api_key, base_url, timeout, max_retries, rate_limit, burst")
	pf.StringVar(&g.baseURL, "base-url", "", "API base URL (default: "+config.DefaultBaseURL+")")
	pf.DurationVar(&g.timeout, "timeout", config.DefaultTimeout, "timeout of a single attempt")
	pf.IntVar(&g.maxRetries, "max-retries", config.DefaultMaxRetries, "retries of a retryable failure")
	pf.Float64Var(&g.rateLimit, "rate-limit", 0, "maximum requests per second (0: unlimited)")
	pf.BoolVar(&g.debug, "debug", false, "log every attempt")
	pf.BoolVar(&g.json, "json", false, "print results as JSON")

	cmd.AddCommand(invoiceCmd(env, g))
	cmd.AddCommand(transactionsCmd(env, g))
	cmd.AddCommand(configCmd(env, g))

	return cmd
}

// settings resolves defaults, the profile file and explicit flags, in
// increasing order of precedence.
func (g *globalFlags) settings(cmd *cobra.Command, env *Env) (config.Config, error) {
	cfg := config.Defaults()
	if g.configPath != "" {
		profile, err := config.LoadFile(g.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = profile.Apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = g.apiKey
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = g.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = g.timeout
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = g.maxRetries
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = g.rateLimit
	}

	return config.Resolve(cfg, env.LookupEnv)
}

func (g *globalFlags) logger(env *Env) *slog.Logger {
	level := slog.LevelInfo
	if g.debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(env.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
}

// client builds an API client from the resolved settings.
func (g *globalFlags) client(cmd *cobra.Command, env *Env) (*nodela.Client, error) {
	cfg, err := g.settings(cmd, env)
	if err != nil {
		return nil, err
	}

	opts := []nodela.Option{
		nodela.WithBaseURL(cfg.BaseURL),
		nodela.WithTimeout(cfg.Timeout),
		nodela.WithRetries(cfg.MaxRetries),
		nodela.WithLogger(g.logger(env)),
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, nodela.WithRateLimit(cfg.RateLimit, cfg.Burst))
	}
	opts = append(opts, env.ClientOptions...)

	return env.NewClient(cfg.APIKey, opts...)
}
