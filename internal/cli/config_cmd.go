package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/presspub/pkg/config"
	perrors "github.com/matzehuels/presspub/pkg/errors"
)

// configCommand creates the config command with subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write and inspect the configuration file",
		Long: `Manage the TOML configuration file.

Settings are read from the file and then from PRESSPUB_* environment
variables, which take precedence.`,
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var host, token string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return perrors.New(perrors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "stat %s", path)
			}

			cfg := config.Default()
			cfg.Host = host
			cfg.Token = token
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "site root, e.g. https://www.crifan.org")
	cmd.Flags().StringVar(&token, "token", "", "JWT token")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.resolvedConfigPath())
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			cfg = cfg.Redacted()

			printInfo("%s", c.resolvedConfigPath())
			printKeyValue("Host", orDash(cfg.Host))
			printKeyValue("Token", orDash(cfg.Token))
			printKeyValue("Proxy", orDash(cfg.Proxy))
			printKeyValue("Timeout", cfg.Timeout.String())
			printKeyValue("Retries", strconv.Itoa(cfg.MaxRetries))
			printKeyValue("Backoff", cfg.RetryBackoff.String())
			printKeyValue("Rate limit", rateLabel(cfg.RateLimit))
			printKeyValue("Page size", strconv.Itoa(cfg.PerPage))
			printKeyValue("Uploads", cfg.UploadsPath)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return StyleDim.Render("-")
	}
	return s
}

func rateLabel(perSecond float64) string {
	if perSecond <= 0 {
		return "unlimited"
	}
	return strconv.FormatFloat(perSecond, 'g', -1, 64) + "/s"
}
