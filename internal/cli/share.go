package cli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/caption"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/export"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// shareCommand creates the "share" command: render one card and hand it to
// the system share surface.
func (c *CLI) shareCommand() *cobra.Command {
	var (
		flags        activityFlags
		platform     string
		format       string
		captionStyle string
		config       string
	)

	cmd := &cobra.Command{
		Use:   "share [activity-id]",
		Short: "Render one share card and open the system share surface",
		Long: `Share renders a single card, composes a platform caption, copies the caption
to the clipboard, and opens the system share surface. When no share surface
is available the card is saved to disk instead. PDF requests are shared as
JPG; share targets take images, not documents.`,
		Example: `  sharecard share a1 --platform instagram_story
  sharecard share a1 --platform twitter --caption-style minimal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(config)
			if err != nil {
				return err
			}

			activityID := ""
			if len(args) > 0 {
				activityID = args[0]
			}

			if format == "" {
				if format, err = template.RecommendedFormat(platform); err != nil {
					return err
				}
			}

			req, err := c.loadActivity(cmd.Context(), cfg, flags, activityID)
			if err != nil {
				return err
			}

			if err := caption.ValidateStyle(caption.Style(captionStyle)); err != nil {
				return err
			}
			capt, err := caption.ComposeForPlatform(caption.Input{
				ActivityID:    req.ActivityID,
				Title:         req.Title,
				Category:      req.Category,
				CreatorName:   req.CreatorName,
				CreatorHandle: req.CreatorHandle,
				Summary:       req.PlanSummary,
			}, caption.Style(captionStyle), platform)
			if err != nil {
				return err
			}
			if capt.OverLimit {
				printWarning("Caption is %d characters, over the %s limit of %d",
					capt.CharacterCount, platform, capt.Limit)
			}

			exporter, err := c.newExporter(cmd, cfg, flags,
				export.WithSharer(systemSharer{logger: c.Logger}))
			if err != nil {
				return err
			}
			defer exporter.Close()

			outcome, err := exporter.Share(cmd.Context(), req, platform, format, capt.FullText)
			if err != nil {
				return err
			}
			if outcome == export.OutcomeCancelled {
				printInfo("Share cancelled")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&platform, "platform", "p", template.InstagramStory, "platform template id")
	cmd.Flags().StringVar(&format, "format", "", "export format (default: platform's recommended)")
	cmd.Flags().StringVar(&captionStyle, "caption-style", string(caption.StyleStandard), "caption style: standard, social, minimal, detailed")
	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}

// systemSharer opens the exported asset with the desktop's share handler.
// There is no cross-platform native share sheet for terminals, so this
// reaches for the OS open command; a missing handler reports
// SHARE_UNSUPPORTED and the exporter falls back to a plain download.
type systemSharer struct {
	logger interface {
		Debug(msg any, keyvals ...any)
	}
}

func (s systemSharer) CanShare(req export.ShareRequest) bool {
	_, err := exec.LookPath(openCommand())
	return err == nil && len(req.Data) > 0
}

func (s systemSharer) Share(ctx context.Context, req export.ShareRequest) error {
	path, err := export.DirSaver{Dir: tempShareDir()}.Save(ctx, req.Filename, req.Data)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, openCommand(), path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.New(errors.ErrCodeShareCancelled, "share interrupted")
		}
		return errors.Wrap(errors.ErrCodeShareUnsupported, err, "open share handler")
	}
	s.logger.Debug("handed asset to system handler", "path", path)
	return nil
}

func openCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func tempShareDir() string {
	return filepath.Join(os.TempDir(), appName+"-share")
}
