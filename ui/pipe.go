package ui

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/best8oy/LyricsCMUS/state"
)

// PipeMode prints state changes as plain text until ctx is done: the title
// whenever it changes, then the lyrics whenever a new body is published.
func PipeMode(ctx context.Context, store *state.Store, w io.Writer) error {
	var last state.Snapshot
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-store.Changed():
		}
		snap := store.Snapshot()
		if snap.Title != last.Title {
			if _, err := fmt.Fprintln(w, snap.Title); err != nil {
				return err
			}
		}
		if len(snap.Body) > 0 && !slices.Equal(snap.Body, last.Body) {
			for _, line := range snap.Body {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
		}
		last = snap
	}
}
