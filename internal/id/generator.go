package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// Kind prefixes generated IDs so they are recognisable in files and logs.
type Kind string

const (
	Board Kind = "b"
	List  Kind = "l"
	Card  Kind = "c"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(3)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique ID for the given kind, e.g. "c_0A3kd9x".
func Generate(kind Kind) string {
	return string(kind) + "_" + generator.MustGenerate()
}

// WellFormed reports whether s could be an ID: non-empty and made only of
// letters, digits, '_' and '-'. Anything else is never looked up on disk.
func WellFormed(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
