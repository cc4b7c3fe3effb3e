package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/export"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// exportCommand creates the "export" command: render one card and save it.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags    activityFlags
		platform string
		format   string
		config   string
	)

	cmd := &cobra.Command{
		Use:   "export [activity-id]",
		Short: "Render one share card and save it to disk",
		Long: `Export renders a single share card sized for one platform and saves it as
<app>-<activity>-<platform>.<format>. The format defaults to the platform's
recommended one.`,
		Example: `  sharecard export a1 --platform instagram_story
  sharecard export a1 --platform twitter --format png
  sharecard export --file activity.json --platform linkedin --format pdf`,
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

			exporter, err := c.newExporter(cmd, cfg, flags,
				export.WithNotifier(export.NopNotifier{}))
			if err != nil {
				return err
			}
			defer exporter.Close()

			sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s card...", platform))
			sp.Start()
			path, err := exporter.Download(cmd.Context(), req, platform, format)
			if err != nil {
				sp.StopWithError(fmt.Sprintf("Export failed: %s", errors.UserMessage(err)))
				return err
			}
			sp.StopWithSuccess(fmt.Sprintf("Exported %s card (%s)", platform, format))
			printFile(path)
			printNextStep("Share it", fmt.Sprintf("sharecard share %s --platform %s", req.ActivityID, platform))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&platform, "platform", "p", template.InstagramStory, "platform template id")
	cmd.Flags().StringVar(&format, "format", "", "export format: png, jpg, or pdf (default: platform's recommended)")
	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}
