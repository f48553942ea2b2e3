package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
	"github.com/matzehuels/presspub/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage WordPress JWT credentials",
		Long: `Validate a JWT token and store it for later commands.

Credentials are read from --config, PRESSPUB_HOST and PRESSPUB_TOKEN, or a
stored login in ~/.config/presspub/sessions/.`,
	}

	cmd.AddCommand(c.authValidateCommand())
	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authStatusCommand())

	return cmd
}

// authValidateCommand checks the configured token against the site.
func (c *CLI) authValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured token is accepted by the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			return c.validateToken(cmd.Context(), client)
		},
	}
}

// authLoginCommand validates a token and stores it.
func (c *CLI) authLoginCommand() *cobra.Command {
	var host, token string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Validate a token and store it for later commands",
		Long: `Validate a JWT token against the site and save host and token locally.

Host and token default to the configured values, so
  PRESSPUB_TOKEN=... presspub auth login --host https://example.com
stores the login without writing a config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(ctx)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Host = host
			}
			if token != "" {
				cfg.Token = token
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			client, err := c.clientFor(cfg)
			if err != nil {
				return err
			}

			if err := c.validateToken(ctx, client); err != nil {
				return err
			}

			store, err := c.sessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			sess := session.New(cfg.Host, cfg.Token, ttl)
			if err := store.SaveSession(ctx, sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			printDetail("Saved to %s", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "site root, e.g. https://www.crifan.org")
	cmd.Flags().StringVar(&token, "token", "", "JWT token")
	cmd.Flags().DurationVar(&ttl, "ttl", session.DefaultTTL, "how long to keep the login (0 = forever)")
	return cmd
}

// authLogoutCommand removes the stored login.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// authStatusCommand shows the stored login.
func (c *CLI) authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			sess, err := store.GetSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			if sess == nil {
				printInfo("Not logged in")
				printNextStep("Store a token", appName+" auth login --host URL --token TOKEN")
				return nil
			}

			printSuccess("WordPress login")
			printKeyValue("Host", sess.Host)
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			if sess.ExpiresAt.IsZero() {
				printKeyValue("Expires", "never")
			} else {
				printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			}
			return nil
		},
	}
}

// validateToken checks the client's token under a spinner.
func (c *CLI) validateToken(ctx context.Context, client *wordpress.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Validating token...")
	spinner.Start()

	ok, res, err := client.ValidateToken(ctx)
	if err != nil {
		spinner.StopWithError("Could not reach " + client.Host())
		return err
	}
	if !ok {
		spinner.StopWithError("Token rejected by " + client.Host())
		return res.TokenError()
	}
	spinner.StopWithSuccess("Token valid for " + client.Host())
	return nil
}
