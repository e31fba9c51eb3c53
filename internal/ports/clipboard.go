package ports

// Clipboard reads the host clipboard. Read failures are treated as
// "no match" by callers; the provenance correction is best-effort.
type Clipboard interface {
	Read() (string, error)
}
