// Package prompter presents the deadline alerts on the user's terminal:
// a blocking Bubbletea modal for the hard stop and a one-line warning for
// the soft nudge, with a plain-TTY fallback when the TUI cannot run.
package prompter

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkidding/vibertime/internal/ports"
)

// snoozeChoices are the durations offered by the hard-stop dialog, in
// minutes.
var snoozeChoices = []int{30, 60, 120}

// BubbleTeaPrompter renders the alerts as a TUI on /dev/tty.
type BubbleTeaPrompter struct {
	logger ports.Logger
}

// NewBubbleTeaPrompter creates a Bubbletea prompter.
func NewBubbleTeaPrompter(logger ports.Logger) *BubbleTeaPrompter {
	return &BubbleTeaPrompter{logger: logger}
}

// SoftNudge writes a non-blocking warning to the TTY.
func (p *BubbleTeaPrompter) SoftNudge(lead time.Duration) {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		p.logger.Debug(fmt.Sprintf("TTY not available for soft nudge: %v", err))
		return
	}
	defer tty.Close()

	style := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(tty)
	fmt.Fprintln(tty, style.Render(fmt.Sprintf("⏰ Bedtime in %d minutes. Start wrapping up.", int(lead.Minutes()))))
}

// PromptHardStop presents the blocking stop-working dialog and returns the
// chosen snooze minutes, or 0 on dismissal or when no TTY is available.
func (p *BubbleTeaPrompter) PromptHardStop() int {
	if os.Getenv("TERM") == "" {
		os.Setenv("TERM", "xterm-256color")
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		p.logger.Debug(fmt.Sprintf("TTY not available: %v, auto-snoozing", err))
		return 0
	}
	defer tty.Close()

	prog := tea.NewProgram(newHardStopModel(), tea.WithAltScreen(), tea.WithInput(tty), tea.WithOutput(tty))
	finalModel, err := prog.Run()
	if err != nil {
		p.logger.Debug(fmt.Sprintf("TUI error: %v, auto-snoozing", err))
		return 0
	}

	result := finalModel.(hardStopModel)
	if result.dismissed {
		return 0
	}
	return snoozeChoices[result.cursor]
}

type hardStopModel struct {
	cursor    int
	dismissed bool
	styles    hardStopStyles
}

type hardStopStyles struct {
	title      lipgloss.Style
	selected   lipgloss.Style
	unselected lipgloss.Style
	help       lipgloss.Style
	container  lipgloss.Style
}

func newHardStopModel() hardStopModel {
	return hardStopModel{
		styles: hardStopStyles{
			title:      lipgloss.NewStyle().Bold(true).MarginBottom(1),
			selected:   lipgloss.NewStyle().Bold(true).Reverse(true),
			unselected: lipgloss.NewStyle(),
			help:       lipgloss.NewStyle().Faint(true).MarginTop(1),
			container:  lipgloss.NewStyle().Padding(1, 2),
		},
	}
}

func (m hardStopModel) Init() tea.Cmd { return nil }

func (m hardStopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(snoozeChoices)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		m.cursor = int(keyMsg.String()[0] - '1')
		return m, tea.Quit
	case "enter":
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.dismissed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m hardStopModel) View() string {
	s := m.styles.title.Render("🛑 It's past your bedtime. Stop working.") + "\n"

	for i, minutes := range snoozeChoices {
		label := fmt.Sprintf("[%d] Keep going for %d more minutes", i+1, minutes)
		if i == m.cursor {
			s += m.styles.selected.Render("> "+label) + "\n"
		} else {
			s += m.styles.unselected.Render("  "+label) + "\n"
		}
	}

	s += m.styles.help.Render("enter confirm · esc dismiss (snoozes the default)")
	return m.styles.container.Render(s)
}
