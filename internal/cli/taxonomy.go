package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
)

// taxonomyCommand creates the taxonomy command with subcommands.
func (c *CLI) taxonomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "taxonomy",
		Aliases: []string{"tax"},
		Short:   "Search, create, and resolve categories and tags",
		Long: `Work with categories and tags by name.

search walks every result page and picks the first exact match, falling
back to the last case-insensitive one. resolve does the same and creates
the term when nothing matches.`,
	}

	cmd.AddCommand(c.taxonomySearchCommand())
	cmd.AddCommand(c.taxonomyCreateCommand())
	cmd.AddCommand(c.taxonomyResolveCommand())

	return cmd
}

func (c *CLI) taxonomySearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Find a category or tag by name",
		Args:  cobra.ExactArgs(1),
	}
	kind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		k, err := kind()
		if err != nil {
			return err
		}
		client, err := c.newClient(cmd.Context())
		if err != nil {
			return err
		}

		spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Searching %s %q...", k, args[0]))
		spinner.Start()
		found, err := client.SearchTaxonomy(cmd.Context(), args[0], k)
		spinner.Stop()
		if err != nil {
			return err
		}
		if found == nil {
			printWarning("No %s named %q", k, args[0])
			return nil
		}
		printTaxonomyRecord(found)
		return nil
	}
	return cmd
}

func (c *CLI) taxonomyCreateCommand() *cobra.Command {
	var slug, description string
	var parent int64

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a category or tag",
		Args:  cobra.ExactArgs(1),
	}
	kind := kindFlag(cmd)
	cmd.Flags().StringVar(&slug, "slug", "", "term slug (default: derived by WordPress)")
	cmd.Flags().StringVar(&description, "description", "", "term description")
	cmd.Flags().Int64Var(&parent, "parent", 0, "parent category id (categories only)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		k, err := kind()
		if err != nil {
			return err
		}
		if parent != 0 && k != wordpress.Category {
			return perrors.New(perrors.ErrCodeInvalidInput, "--parent applies to categories only")
		}
		client, err := c.newClient(cmd.Context())
		if err != nil {
			return err
		}

		res, err := client.CreateTaxonomy(cmd.Context(), wordpress.TaxonomyInput{
			Kind:        k,
			Name:        args[0],
			Slug:        slug,
			Description: description,
			Parent:      parent,
		})
		if err != nil {
			return err
		}
		if err := resultError("create "+k.String(), res); err != nil {
			return err
		}

		tax, _ := res.Payload.(wordpress.Taxonomy)
		printSuccess("Created %s %s", k, StyleHighlight.Render(tax.Name))
		printKeyValue("ID", fmt.Sprint(tax.ID))
		printKeyValue("Slug", tax.Slug)
		printKeyValue("Link", StyleLink.Render(tax.Link))
		return nil
	}
	return cmd
}

func (c *CLI) taxonomyResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Map names to ids, creating missing terms",
		Args:  cobra.MinimumNArgs(1),
	}
	kind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		k, err := kind()
		if err != nil {
			return err
		}
		client, err := c.newClient(cmd.Context())
		if err != nil {
			return err
		}

		prog := newProgress(loggerFromContext(cmd.Context()))
		results := client.ResolveTaxonomies(cmd.Context(), args, k)
		prog.done(fmt.Sprintf("Resolved %d %s names", len(args), k))

		failed := 0
		for _, r := range results {
			switch {
			case !r.OK():
				failed++
				printError("%s: %s", r.Name, perrors.UserMessage(r.Err))
			case r.Created:
				printSuccess("%s %s %s %s", r.Name, StyleDim.Render(iconArrow), StyleNumber.Render(fmt.Sprint(r.ID)), StyleDim.Render("(created)"))
			default:
				printSuccess("%s %s %s", r.Name, StyleDim.Render(iconArrow), StyleNumber.Render(fmt.Sprint(r.ID)))
			}
		}
		if failed > 0 {
			return perrors.New(perrors.ErrCodeResolutionFailed, "%d of %d names could not be resolved", failed, len(args))
		}
		return nil
	}
	return cmd
}

func printTaxonomyRecord(r *wordpress.TaxonomyRecord) {
	printSuccess("%s", StyleHighlight.Render(r.Name))
	printKeyValue("ID", fmt.Sprint(r.ID))
	printKeyValue("Slug", r.Slug)
	if r.Link != "" {
		printKeyValue("Link", StyleLink.Render(r.Link))
	}
	if r.Parent != nil && *r.Parent != 0 {
		printKeyValue("Parent", fmt.Sprint(*r.Parent))
	}
	if r.Description != "" {
		printKeyValue("Description", r.Description)
	}
}
