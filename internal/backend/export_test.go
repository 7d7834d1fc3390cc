package backend

import "testing"

func SetMaxResultBody(t testing.TB, n int64) {
	prev := maxResultBody
	maxResultBody = n
	t.Cleanup(func() { maxResultBody = prev })
}
