package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd creates the config command with subcommands.
func configCmd(env *Env, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(configShowCmd(env, g))

	return cmd
}

// configShowCmd creates the "config show" subcommand.
func configShowCmd(env *Env, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Print the configuration the other commands would use, after applying
the profile, flags and environment. The API key is masked.`,
		Example: `  nodela config show
  nodela config show --config ~/.config/nodela.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd, env)
			if err != nil {
				return err
			}

			if g.json {
				return writeJSON(env.Stdout, map[string]any{
					"api_key":     cfg.Redacted(),
					"base_url":    cfg.BaseURL,
					"timeout":     cfg.Timeout.String(),
					"max_retries": cfg.MaxRetries,
					"rate_limit":  cfg.RateLimit,
					"burst":       cfg.Burst,
				})
			}

			tw := newTable(env.Stdout)
			fmt.Fprintf(tw, "api_key\t%s\n", cfg.Redacted())
			fmt.Fprintf(tw, "base_url\t%s\n", cfg.BaseURL)
			fmt.Fprintf(tw, "timeout\t%s\n", cfg.Timeout)
			fmt.Fprintf(tw, "max_retries\t%d\n", cfg.MaxRetries)
			if cfg.RateLimit > 0 {
				fmt.Fprintf(tw, "rate_limit\t%g/s (burst %d)\n", cfg.RateLimit, cfg.Burst)
			}
			return tw.Flush()
		},
	}
}
