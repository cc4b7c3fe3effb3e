package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/preview"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// templatesCommand creates the "templates" command: list platforms and packs.
func (c *CLI) templatesCommand() *cobra.Command {
	var (
		previewWidth  int
		previewHeight int
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List platform templates and packs",
		Long: `Templates prints the platform table: canvas dimensions, aspect ratio,
export formats, and caption limits, plus the available packs. With
--preview-width and --preview-height it also shows how each template scales
to fit that viewport (scale never exceeds 1).`,
		Example: `  sharecard templates
  sharecard templates --preview-width 400 --preview-height 700`,
		RunE: func(cmd *cobra.Command, args []string) error {
			showPreview := previewWidth > 0 && previewHeight > 0

			headers := []string{"Platform", "Size", "Ratio", "Formats", "Caption"}
			if showPreview {
				headers = append(headers, "Preview")
			}

			rows := [][]string{}
			for _, id := range template.IDs() {
				tpl, err := template.Lookup(id)
				if err != nil {
					return err
				}
				row := []string{
					tpl.ID,
					tpl.Dimensions(),
					tpl.AspectRatio,
					strings.Join(tpl.ExportFormats, ", "),
					fmt.Sprintf("%d", tpl.CaptionLimit),
				}
				if showPreview {
					scale := preview.ComputeScale(float64(previewWidth), float64(previewHeight),
						float64(tpl.Width), float64(tpl.Height))
					row = append(row, fmt.Sprintf("%.0fx%.0f (%.2fx)",
						float64(tpl.Width)*scale, float64(tpl.Height)*scale, scale))
				}
				rows = append(rows, row)
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers(headers...).
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					return lipgloss.NewStyle().Foreground(colorWhite)
				})
			fmt.Println(t.Render())

			printNewline()
			fmt.Println(StyleTitle.Render("Packs"))
			for _, packID := range template.PackIDs() {
				pack, err := template.LookupPack(packID)
				if err != nil {
					return err
				}
				printKeyValue(pack.ID, strings.Join(pack.Platforms, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&previewWidth, "preview-width", 0, "viewport width for preview scaling")
	cmd.Flags().IntVar(&previewHeight, "preview-height", 0, "viewport height for preview scaling")
	return cmd
}
