package domain

// Provenance is the inferred originator category of a text change.
type Provenance int

const (
	// ProvenanceNone marks events that credit nothing (empty no-op
	// deletions) or were discarded before classification.
	ProvenanceNone Provenance = iota
	ProvenanceHumanTyped
	ProvenanceHumanRefactored
	ProvenanceAIGenerated
	ProvenanceAIEdited
)

// String returns a human-readable name for the provenance bucket.
func (p Provenance) String() string {
	switch p {
	case ProvenanceHumanTyped:
		return "human-typed"
	case ProvenanceHumanRefactored:
		return "human-refactored"
	case ProvenanceAIGenerated:
		return "ai-generated"
	case ProvenanceAIEdited:
		return "ai-edited"
	default:
		return "none"
	}
}

// MachineOrigin reports whether the bucket was attributed to automated
// insertion rather than a direct human signal.
func (p Provenance) MachineOrigin() bool {
	return p == ProvenanceAIGenerated || p == ProvenanceAIEdited
}

// DocumentChange describes one text-document mutation from the host editor.
type DocumentChange struct {
	// Text is the inserted content; empty for a pure deletion.
	Text string
	// DeletedLines is the number of lines the change removed, 0 if none.
	DeletedLines int
	// RangeLength is the length of the replaced range before the change.
	// 0 means a pure insertion.
	RangeLength int
	// UndoRedo marks changes produced by undo/redo; they carry no new
	// provenance and are discarded before classification.
	UndoRedo bool
}

// InsertedLines returns the number of newlines in the inserted text.
func (c DocumentChange) InsertedLines() int {
	n := 0
	for i := 0; i < len(c.Text); i++ {
		if c.Text[i] == '\n' {
			n++
		}
	}
	return n
}
