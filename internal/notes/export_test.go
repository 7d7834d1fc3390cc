package notes

import "testing"

func SetMaxNoteSize(t testing.TB, n int64) {
	prev := maxNoteSize
	maxNoteSize = n
	t.Cleanup(func() { maxNoteSize = prev })
}
