// Package clipboard provides the system clipboard binding used by the
// provenance correction.
package clipboard

import "github.com/atotto/clipboard"

// System reads the host clipboard.
type System struct{}

// New creates a system clipboard reader.
func New() System { return System{} }

// Read returns the current clipboard contents.
func (System) Read() (string, error) {
	return clipboard.ReadAll()
}
