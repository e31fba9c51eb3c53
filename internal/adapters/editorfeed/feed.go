// Package editorfeed binds the host editor's event stream to the
// classifiers. Events arrive as newline-delimited JSON on a reader, the
// same shape an editor extension writes on a pipe. The feed updates the
// shared input Monitor and dispatches document and focus events.
package editorfeed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mkidding/vibertime/internal/clock"
	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

// Event is one editor signal on the wire.
type Event struct {
	Type string `json:"type"`

	// Focused applies to focus events.
	Focused bool `json:"focused,omitempty"`

	// Text, DeletedLines, RangeLength and UndoRedo apply to document events.
	Text         string `json:"text,omitempty"`
	DeletedLines int    `json:"deleted_lines,omitempty"`
	RangeLength  int    `json:"range_length,omitempty"`
	UndoRedo     bool   `json:"undo_redo,omitempty"`
}

// Wire event types.
const (
	TypeKeystroke = "keystroke"
	TypePaste     = "paste"
	TypeSelection = "selection"
	TypeFocus     = "focus"
	TypeDocument  = "document"
)

// Classifier consumes document changes and reports the inferred bucket.
type Classifier interface {
	HandleDocumentChange(change domain.DocumentChange) domain.Provenance
}

// ActivitySink consumes focus transitions and classified edits.
type ActivitySink interface {
	SetFocused(focused bool)
	ObserveEdit(p domain.Provenance)
}

// Feed decodes the editor event stream and dispatches it.
type Feed struct {
	clock      clock.Clock
	logger     ports.Logger
	input      *Monitor
	classifier Classifier
	activity   ActivitySink
}

// New creates a feed writing input signals to the given monitor and
// dispatching to the classifier and activity sink.
func New(clk clock.Clock, input *Monitor, classifier Classifier, activity ActivitySink, logger ports.Logger) *Feed {
	return &Feed{
		clock:      clk,
		logger:     logger,
		input:      input,
		classifier: classifier,
		activity:   activity,
	}
}

// Run reads events until the reader is exhausted or the context is
// canceled. A malformed line is logged and skipped, never fatal.
func (f *Feed) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	// Document events can carry whole generated files.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			f.logger.Debug(fmt.Sprintf("skipping malformed event: %v", err))
			continue
		}
		f.Dispatch(ev)
	}
	return scanner.Err()
}

// Dispatch routes one event. Exposed so an in-process editor binding can
// feed events without serializing them.
func (f *Feed) Dispatch(ev Event) {
	now := f.clock.Now()

	switch ev.Type {
	case TypeKeystroke:
		f.input.Keystroke(now)
	case TypePaste:
		f.input.Paste(now)
	case TypeSelection:
		f.input.ManualInteraction(now)
	case TypeFocus:
		f.activity.SetFocused(ev.Focused)
	case TypeDocument:
		p := f.classifier.HandleDocumentChange(domain.DocumentChange{
			Text:         ev.Text,
			DeletedLines: ev.DeletedLines,
			RangeLength:  ev.RangeLength,
			UndoRedo:     ev.UndoRedo,
		})
		f.activity.ObserveEdit(p)
	default:
		f.logger.Debug(fmt.Sprintf("unknown event type %q", ev.Type))
	}
}
