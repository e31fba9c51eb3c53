// Package provenance infers who produced a text change — human or AI —
// from timing signals alone, and keeps the per-day line and character
// ledger up to date.
package provenance

import (
	"fmt"
	"time"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

const (
	// freshSignalWindow is the maximum keystroke-to-mutation (or
	// paste-to-mutation) latency for a change to count as driven by the
	// immediately preceding human signal. Physical latency is sub-100ms;
	// anything slower was not the user's keypress.
	freshSignalWindow = 100 * time.Millisecond

	// machineBurstChars separates multi-character machine insertions
	// from single-character edits that could be a slow human keystroke.
	machineBurstChars = 5

	// clipboardCheckChars is the minimum insertion length worth the
	// asynchronous clipboard comparison. A long exact clipboard match
	// means a human paste bypassed the paste-event hook.
	clipboardCheckChars = 50

	// correctionWindow bounds the validity of the asynchronous clipboard
	// correction. A clipboard read resolving later than this is
	// abandoned and the AI attribution stands.
	correctionWindow = 10 * time.Second
)

// Classifier maps each document change to exactly one provenance bucket.
// Classification never rejects an event; at worst it misclassifies.
type Classifier struct {
	store     ports.StatsStore
	input     ports.InputMonitor
	clipboard ports.Clipboard
	clock     clock.Clock
	logger    ports.Logger
}

// NewClassifier creates a classifier writing to the given store.
func NewClassifier(
	store ports.StatsStore,
	input ports.InputMonitor,
	clipboard ports.Clipboard,
	clk clock.Clock,
	logger ports.Logger,
) *Classifier {
	return &Classifier{
		store:     store,
		input:     input,
		clipboard: clipboard,
		clock:     clk,
		logger:    logger,
	}
}

// HandleDocumentChange classifies one change and applies its credit to the
// store. First match wins; the order is the tie-break policy. Returns the
// bucket so the activity tracker can evaluate zombie revival.
func (c *Classifier) HandleDocumentChange(change domain.DocumentChange) domain.Provenance {
	if change.UndoRedo {
		return domain.ProvenanceNone
	}

	now := c.clock.Now()
	chars := int64(len(change.Text))
	lines := int64(change.InsertedLines())

	// Pure deletion. Deletions are never attributed to AI: tooling in
	// this domain inserts or replaces, observed deletions are user-driven.
	if change.Text == "" {
		if change.DeletedLines > 0 {
			deleted := int64(change.DeletedLines)
			c.store.UpdateToday(func(s *domain.DailyStats) {
				s.HumanRefactoredLines += deleted
			})
			return domain.ProvenanceHumanRefactored
		}
		return domain.ProvenanceNone
	}

	// Safe paste: the mutation landed within the paste-event window.
	if c.input.SincePaste(now) < freshSignalWindow {
		c.store.UpdateToday(func(s *domain.DailyStats) {
			s.RefactorChars += chars
			s.HumanRefactoredLines += lines
		})
		return domain.ProvenanceHumanRefactored
	}

	// Fresh human keystroke.
	if c.input.SinceHumanKeystroke(now) < freshSignalWindow {
		c.store.UpdateToday(func(s *domain.DailyStats) {
			s.HumanChars += chars
			s.HumanTypedLines += lines
		})
		return domain.ProvenanceHumanTyped
	}

	// Machine burst: too long for a slow keystroke, no fresh signal.
	if len(change.Text) > machineBurstChars {
		edited := change.RangeLength > 0
		c.store.UpdateToday(func(s *domain.DailyStats) {
			s.AIChars += chars
			if edited {
				s.AIEditedLines += lines
			} else {
				s.AIGeneratedLines += lines
			}
		})

		if len(change.Text) > clipboardCheckChars {
			go c.correctClipboardPaste(change.Text, lines, edited, now)
		}

		if edited {
			return domain.ProvenanceAIEdited
		}
		return domain.ProvenanceAIGenerated
	}

	// Tiny change with weak timing signals: give the human the benefit
	// of the doubt so slow typing is not over-counted as AI.
	c.store.UpdateToday(func(s *domain.DailyStats) {
		s.HumanChars += chars
		s.HumanTypedLines += lines
	})
	return domain.ProvenanceHumanTyped
}

// correctClipboardPaste compares an AI-attributed insertion against the
// clipboard. On an exact match the AI credit is reversed and the change is
// re-credited as a safe paste, as a single compensating mutation targeting
// the specific counters. Clipboard failures leave the AI attribution
// standing.
func (c *Classifier) correctClipboardPaste(text string, lines int64, edited bool, classifiedAt time.Time) {
	content, err := c.clipboard.Read()
	if err != nil {
		c.logger.Debug(fmt.Sprintf("clipboard read failed, keeping AI attribution: %v", err))
		return
	}
	if content != text {
		return
	}
	if c.clock.Now().Sub(classifiedAt) > correctionWindow {
		c.logger.Debug("clipboard match resolved too late, keeping AI attribution")
		return
	}

	chars := int64(len(text))
	c.store.UpdateToday(func(s *domain.DailyStats) {
		s.AIChars -= chars
		if edited {
			s.AIEditedLines -= lines
		} else {
			s.AIGeneratedLines -= lines
		}
		s.RefactorChars += chars
		s.HumanRefactoredLines += lines
	})
}
