package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
	"github.com/matzehuels/presspub/pkg/manifest"
)

// postCommand creates the post command with subcommands.
func (c *CLI) postCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create posts",
	}
	cmd.AddCommand(c.postCreateCommand())
	return cmd
}

type postFlags struct {
	manifestPath string
	title        string
	contentFile  string
	date         string
	slug         string
	slugTitle    string
	categories   []string
	tags         []string
	status       string
	format       string
}

func (c *CLI) postCreateCommand() *cobra.Command {
	var f postFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post, resolving category and tag names to ids",
		Long: `Create a post from a YAML manifest, from flags, or both.

Flags override manifest fields. Categories and tags are given by name; names
that do not exist yet are created. Names that cannot be resolved are logged
and left out of the post.

Example manifest:

  title: Give the PIP replacement source to the Mac
  date: "2020-08-17T10:16:34"
  categories: [Mac]
  tags: [pip, mirror]
  content_file: post.html`,
		Example: `  presspub post create -f post.yaml
  presspub post create --title "Hello" --content-file hello.html --tag go --tag cli`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			m, err := f.build()
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return err
			}
			req := m.PostRequest()

			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			res, err := client.CreatePost(ctx, req)
			if err != nil {
				return err
			}
			if err := resultError("create post", res); err != nil {
				printError("Post not created")
				return err
			}
			prog.done("Created post")

			post, _ := res.Payload.(wordpress.Post)
			printSuccess("Created %s", StyleHighlight.Render(post.Title))
			printKeyValue("ID", fmt.Sprint(post.ID))
			printKeyValue("Slug", post.Slug)
			printKeyValue("Link", StyleLink.Render(post.Link))
			if req.Status == "" {
				printDetail("status %s; publish it from the dashboard", wordpress.DefaultStatus)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.manifestPath, "file", "f", "", "YAML post manifest")
	fl.StringVar(&f.title, "title", "", "post title")
	fl.StringVar(&f.contentFile, "content-file", "", "HTML file with the post body")
	fl.StringVar(&f.date, "date", "", `post date, e.g. "2020-08-17T10:16:34", or "now"`)
	fl.StringVar(&f.slug, "slug", "", "post slug (default: generated)")
	fl.StringVar(&f.slugTitle, "slug-title", "", "English title to generate the slug from")
	fl.StringSliceVar(&f.categories, "category", nil, "category name (repeatable)")
	fl.StringSliceVar(&f.tags, "tag", nil, "tag name (repeatable)")
	fl.StringVar(&f.status, "status", "", "post status (default draft)")
	fl.StringVar(&f.format, "format", "", "post format (default standard)")
	_ = cmd.RegisterFlagCompletionFunc("status", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"draft", "publish", "pending", "private", "future"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// build merges the manifest file, if any, with the flags.
func (f *postFlags) build() (*manifest.Manifest, error) {
	m := &manifest.Manifest{}
	if f.manifestPath != "" {
		loaded, err := manifest.Load(f.manifestPath)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	if f.contentFile != "" {
		body, err := os.ReadFile(f.contentFile)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read content file")
		}
		m.Content = string(body)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.Title, f.title)
	if f.date == "now" {
		m.Date = wordpress.FormatDate(time.Now())
	} else {
		set(&m.Date, f.date)
	}
	set(&m.Slug, f.slug)
	set(&m.SlugTitle, f.slugTitle)
	set(&m.Status, f.status)
	set(&m.Format, f.format)
	if len(f.categories) > 0 {
		m.Categories = f.categories
	}
	if len(f.tags) > 0 {
		m.Tags = f.tags
	}
	return m, nil
}
