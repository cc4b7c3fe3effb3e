package cli

import (
	"github.com/atotto/clipboard"
)

// systemClipboard adapts the OS clipboard to the export flow. Headless
// environments (no X11, SSH sessions) fail on write; the exporter treats
// clipboard writes as best-effort so this degrades silently.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
