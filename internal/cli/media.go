package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
)

// mediaCommand creates the media command with subcommands.
func (c *CLI) mediaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Upload media attachments",
	}
	cmd.AddCommand(c.mediaUploadCommand())
	return cmd
}

func (c *CLI) mediaUploadCommand() *cobra.Command {
	var contentType, name string

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file as a media attachment",
		Long: `Upload a file to /wp-json/wp/v2/media.

The content type is taken from --content-type, the file extension, or the
file's first bytes, in that order. --name overrides the uploaded filename;
an empty name uploads under a random UUID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read %s", path)
			}
			if contentType == "" {
				contentType = detectContentType(path, data)
			}
			if !cmd.Flags().Changed("name") {
				name = filepath.Base(path)
			}

			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Uploading "+filepath.Base(path)+"...")
			spinner.Start()
			res, err := client.CreateMedia(ctx, contentType, name, data)
			if err != nil {
				spinner.StopWithError("Upload failed")
				return err
			}
			if err := resultError("upload media", res); err != nil {
				spinner.StopWithError("Upload failed")
				return err
			}
			spinner.Stop()

			media, _ := res.Payload.(wordpress.Media)
			printSuccess("Uploaded %s", StyleHighlight.Render(media.Title))
			printKeyValue("ID", fmt.Sprint(media.ID))
			printKeyValue("URL", StyleLink.Render(media.URL))
			printKeyValue("Page", media.Link)
			if name != "" {
				printDetail("expected at %s", client.UploadedMediaURL(name, time.Now()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "media type, e.g. image/png")
	cmd.Flags().StringVar(&name, "name", "", "filename to upload as (empty = random UUID)")
	return cmd
}

// detectContentType guesses the media type from the extension, then from
// the content.
func detectContentType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
