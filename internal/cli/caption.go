package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/caption"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// captionCommand creates the "caption" command: compose and print a caption.
func (c *CLI) captionCommand() *cobra.Command {
	var (
		flags        activityFlags
		platform     string
		captionStyle string
		config       string
	)

	cmd := &cobra.Command{
		Use:   "caption [activity-id]",
		Short: "Compose a platform caption and print it",
		Long: `Caption composes the share text for an activity without rendering anything.
It prints the caption and a character count against the platform's limit;
the text is never truncated.`,
		Example: `  sharecard caption a1 --platform twitter
  sharecard caption a1 --platform instagram_story --style social`,
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

			if err := caption.ValidateStyle(caption.Style(captionStyle)); err != nil {
				return err
			}

			req, err := c.loadActivity(cmd.Context(), cfg, flags, activityID)
			if err != nil {
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

			fmt.Println(capt.FullText)
			printNewline()

			counter := fmt.Sprintf("%d / %d characters", capt.CharacterCount, capt.Limit)
			if capt.OverLimit {
				printWarning("%s (over the %s limit)", counter, platform)
			} else {
				printDetail("%s", counter)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&platform, "platform", "p", template.InstagramStory, "platform template id")
	cmd.Flags().StringVar(&captionStyle, "style", string(caption.StyleStandard), "caption style: standard, social, minimal, detailed")
	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}
