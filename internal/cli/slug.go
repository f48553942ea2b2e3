package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
)

func (c *CLI) slugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slug TITLE...",
		Short: "Print the URL slug generated for an English title",
		Example: `  $ presspub slug "Give the PIP replacement source to the Mac to speed up the download"
  give_pip_replacement_source_mac_speed_up_download`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			slug := wordpress.GenerateSlugWithLogger(loggerFromContext(cmd.Context()), title)
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}
}
