package prompter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mkidding/vibertime/internal/ports"
)

// TTYPrompter is the plain-terminal fallback for environments where the
// TUI cannot render.
type TTYPrompter struct {
	logger ports.Logger
}

// NewTTYPrompter creates a TTY prompter.
func NewTTYPrompter(logger ports.Logger) *TTYPrompter {
	return &TTYPrompter{logger: logger}
}

// SoftNudge writes a one-line warning to the TTY.
func (p *TTYPrompter) SoftNudge(lead time.Duration) {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		p.logger.Debug(fmt.Sprintf("TTY not available for soft nudge: %v", err))
		return
	}
	defer tty.Close()

	fmt.Fprintf(tty, "\nBedtime in %d minutes. Start wrapping up.\n", int(lead.Minutes()))
}

// PromptHardStop asks for a snooze choice on the TTY. Returns 0 when the
// TTY is unavailable or the user just presses Enter.
func (p *TTYPrompter) PromptHardStop() int {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		p.logger.Debug(fmt.Sprintf("TTY not available: %v, auto-snoozing", err))
		return 0
	}
	defer tty.Close()

	fmt.Fprintln(tty)
	fmt.Fprintln(tty, "It's past your bedtime. Stop working.")
	for i, minutes := range snoozeChoices {
		fmt.Fprintf(tty, "[%d] Keep going for %d more minutes\n", i+1, minutes)
	}
	fmt.Fprint(tty, "Choice (Enter for default snooze): ")

	reader := bufio.NewReader(tty)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return 0
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(snoozeChoices) {
		return 0
	}
	return snoozeChoices[num-1]
}
