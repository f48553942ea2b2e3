// Package cli implements the presspub command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/presspub/pkg/buildinfo"
	"github.com/matzehuels/presspub/pkg/config"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
	"github.com/matzehuels/presspub/pkg/observability"
	"github.com/matzehuels/presspub/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "presspub"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config; empty means config.DefaultPath()
	sessionDir string // empty means ~/.config/presspub/sessions
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "presspub publishes posts, media, categories, and tags to WordPress",
		Long: `presspub is a CLI for publishing to a WordPress site through its REST API.

It uploads media, creates posts, and maps category and tag names to ids,
creating missing terms on the way. Authentication uses a JWT token issued by
the jwt-auth plugin.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.registerHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.authCommand())
	root.AddCommand(c.mediaCommand())
	root.AddCommand(c.postCommand())
	root.AddCommand(c.taxonomyCommand())
	root.AddCommand(c.slugCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// registerHooks routes transport and resolution events to the debug log.
func (c *CLI) registerHooks() {
	hooks := &logHooks{logger: c.Logger}
	observability.SetHTTPHooks(hooks)
	observability.SetTaxonomyHooks(hooks)
}

// =============================================================================
// Config & Client Factory
// =============================================================================

func (c *CLI) resolvedConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

func (c *CLI) sessionStore() (*session.CLIStore, error) {
	if c.sessionDir == "" {
		return session.NewCLIStore()
	}
	return session.NewCLIStoreAt(c.sessionDir)
}

// loadConfig reads the config file and environment. Host and token fall
// back to the stored login when neither source sets them.
func (c *CLI) loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load(c.resolvedConfigPath())
	if err != nil {
		return cfg, err
	}
	if cfg.Host == "" || cfg.Token == "" {
		if store, err := c.sessionStore(); err == nil {
			if sess, _ := store.GetSession(ctx); sess != nil {
				if cfg.Host == "" {
					cfg.Host = sess.Host
				}
				if cfg.Token == "" {
					cfg.Token = sess.Token
				}
				c.Logger.Debug("using stored login", "host", sess.Host)
			}
		}
	}
	return cfg, cfg.Validate()
}

// newClient builds a WordPress client from the loaded configuration.
func (c *CLI) newClient(ctx context.Context) (*wordpress.Client, error) {
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	return c.clientFor(cfg)
}

func (c *CLI) clientFor(cfg config.Config) (*wordpress.Client, error) {
	opts := append(cfg.ClientOptions(), wordpress.WithLogger(c.Logger))
	return wordpress.NewClient(cfg.Host, cfg.Token, opts...)
}

// =============================================================================
// Flag Helpers
// =============================================================================

// kindFlag registers --kind on cmd and returns a getter for its parsed value.
func kindFlag(cmd *cobra.Command) func() (wordpress.TaxonomyKind, error) {
	var raw string
	cmd.Flags().StringVarP(&raw, "kind", "k", "category", "taxonomy kind: category or tag")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"category", "tag"}, cobra.ShellCompDirectiveNoFileComp
	})
	return func() (wordpress.TaxonomyKind, error) {
		return wordpress.ParseTaxonomyKind(raw)
	}
}

// resultError turns a failed result into an error naming the operation.
func resultError(op string, res *wordpress.Result) error {
	if res.OK {
		return nil
	}
	return fmt.Errorf("%s: %w", op, res.Err())
}
