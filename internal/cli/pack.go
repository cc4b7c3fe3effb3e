package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/export"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// packCommand creates the "pack" command: export every platform in a pack.
func (c *CLI) packCommand() *cobra.Command {
	var (
		flags       activityFlags
		packID      string
		interactive bool
		config      string
	)

	cmd := &cobra.Command{
		Use:   "pack [activity-id]",
		Short: "Export every platform in a pack, one card after another",
		Long: `Pack renders and saves one card per platform in the chosen pack,
sequentially, each at its platform's recommended format and named
<app>-<platform>.<format>. A platform that fails is skipped; the rest of the
pack still exports.`,
		Example: `  sharecard pack a1 --pack social_pack
  sharecard pack a1 --pack stories_pack --interactive
  sharecard pack --file activity.json --pack professional_pack -o ./cards`,
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

			pack, err := template.LookupPack(packID)
			if err != nil {
				return err
			}

			req, err := c.loadActivity(cmd.Context(), cfg, flags, activityID)
			if err != nil {
				return err
			}

			if interactive {
				return c.runPackTUI(cmd, cfg, flags, req, pack)
			}

			exporter, err := c.newExporter(cmd, cfg, flags,
				export.WithOnItem(func(platformID string, err error) {
					if err != nil {
						printError("%s", platformID)
					} else {
						printSuccess("%s", platformID)
					}
				}))
			if err != nil {
				return err
			}
			defer exporter.Close()

			prog := newProgress(c.Logger)
			report, err := exporter.ExportPack(cmd.Context(), req, pack.ID)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %d of %d cards", report.Succeeded, report.TotalRequested))
			for _, path := range report.SavedPaths {
				printFile(path)
			}
			if len(report.FailedPlatforms) > 0 {
				printDetail("Failed: %s", strings.Join(report.FailedPlatforms, ", "))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&packID, "pack", template.SocialPack, "platform pack id")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "show a live progress view")
	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}

// runPackTUI drives the pack export behind a bubbletea progress view. The
// export runs in its own goroutine and feeds per-item results to the model
// as messages.
func (c *CLI) runPackTUI(cmd *cobra.Command, cfg Config, flags activityFlags, req card.RenderRequest, pack template.PlatformPack) error {
	items := make(chan packItemMsg, len(pack.Platforms))

	exporter, err := c.newExporter(cmd, cfg, flags,
		export.WithNotifier(export.NopNotifier{}),
		export.WithOnItem(func(platformID string, err error) {
			items <- packItemMsg{platformID: platformID, err: err}
		}))
	if err != nil {
		return err
	}
	defer exporter.Close()

	done := make(chan packDoneMsg, 1)
	go func() {
		report, err := exporter.ExportPack(cmd.Context(), req, pack.ID)
		done <- packDoneMsg{report: report, err: err}
	}()

	model := newPackModel(pack, items, done)
	final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}

	m := final.(packModel)
	if m.result.err != nil {
		return m.result.err
	}
	report := m.result.report
	if report.AllFailed() {
		printError("Could not export %s", pack.DisplayName)
	} else {
		printSuccess("Exported %d of %d cards from %s",
			report.Succeeded, report.TotalRequested, pack.DisplayName)
	}
	for _, path := range report.SavedPaths {
		printFile(path)
	}
	return nil
}
