package translations

import (
	"sort"
	"time"
)

// IsStaleWrite reports whether a draft mutation raced with a newer write.
// A conflict exists iff the stored timestamp is strictly later than the
// caller-supplied guard; equality means the caller saw the current state and
// re-saving it is allowed. A nil guard skips the check entirely.
func IsStaleWrite(lastModifiedAt time.Time, ifUnmodifiedSince *time.Time) bool {
	if ifUnmodifiedSince == nil {
		return false
	}
	return lastModifiedAt.After(*ifUnmodifiedSince)
}

// DataEqual reports whether two snapshot key→value maps carry identical
// content. Equality is computed over sorted key sets: any key-count mismatch,
// key mismatch, or value mismatch means "changed".
func DataEqual(current, previous map[string]string) bool {
	if len(current) != len(previous) {
		return false
	}

	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prev, ok := previous[k]
		if !ok {
			return false
		}
		if current[k] != prev {
			return false
		}
	}
	return true
}
