package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrelhq/sharecard/pkg/export"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// List styles.
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// itemState is the display state of one pack platform.
type itemState int

const (
	itemPending itemState = iota
	itemDone
	itemFailed
)

// packItemMsg reports one finished pack platform.
type packItemMsg struct {
	platformID string
	err        error
}

// packDoneMsg reports the finished batch.
type packDoneMsg struct {
	report export.BatchReport
	err    error
}

// packModel is the bubbletea model for the live pack export view.
type packModel struct {
	pack   template.PlatformPack
	states map[string]itemState
	items  <-chan packItemMsg
	done   <-chan packDoneMsg

	frame    int
	finished bool
	result   packDoneMsg
}

func newPackModel(pack template.PlatformPack, items <-chan packItemMsg, done <-chan packDoneMsg) packModel {
	states := make(map[string]itemState, len(pack.Platforms))
	for _, p := range pack.Platforms {
		states[p] = itemPending
	}
	return packModel{pack: pack, states: states, items: items, done: done}
}

// spinnerTick drives the pending-item animation.
type spinnerTick struct{}

const tickInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m packModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return spinnerTick{}
	})
}

// waitForEvent blocks on the next export event: a finished item or the
// finished batch.
func (m packModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case item := <-m.items:
			return item
		case result := <-m.done:
			return result
		}
	}
}

func (m packModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinnerTick:
		m.frame++
		if !m.finished {
			return m, tick()
		}
	case packItemMsg:
		if msg.err != nil {
			m.states[msg.platformID] = itemFailed
		} else {
			m.states[msg.platformID] = itemDone
		}
		return m, m.waitForEvent()
	case packDoneMsg:
		m.finished = true
		m.result = msg
		return m, tea.Quit
	}
	return m, nil
}

func (m packModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Exporting " + m.pack.DisplayName))
	b.WriteString("\n\n")

	for _, platformID := range m.pack.Platforms {
		var marker, line string
		switch m.states[platformID] {
		case itemDone:
			marker = styleIconSuccess.Render(iconSuccess)
			line = StyleValue.Render(platformID)
		case itemFailed:
			marker = styleIconError.Render(iconError)
			line = listDimStyle.Render(platformID)
		default:
			marker = styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
			line = listDimStyle.Render(platformID)
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, line)
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("ctrl+c to stop"))
	return b.String()
}
