package entity

import "time"

// FileEntry is a snapshot of a single entry inside a backup directory.
type FileEntry struct {
	Name         string    // Base name of the entry
	Path         string    // Full path to the entry on disk
	Size         int64     // Size in bytes as reported by stat
	Timestamp    time.Time // Depends on the timestamp policy
	HasTimestamp bool      // False when the policy could not derive a timestamp
}

// NewerThan orders entries most recent first. Entries without a timestamp
// sort after every entry that has one.
func (f *FileEntry) NewerThan(other *FileEntry) bool {
	if f.HasTimestamp != other.HasTimestamp {
		return f.HasTimestamp
	}

	return f.Timestamp.After(other.Timestamp)
}
