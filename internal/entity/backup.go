package entity

import "time"

// BackupDirectory is one monitored subdirectory of the scan root.
type BackupDirectory struct {
	Path    string       // Path to the directory on disk
	Entries []*FileEntry // Most recent first
}

func (d *BackupDirectory) IsEmpty() bool {
	return len(d.Entries) == 0
}

// Reference returns the newest valid timestamp among the entries.
// The second value is false when no entry carries a timestamp.
func (d *BackupDirectory) Reference() (time.Time, bool) {
	var (
		ref   time.Time
		found bool
	)

	for _, entry := range d.Entries {
		if !entry.HasTimestamp {
			continue
		}

		if !found || entry.Timestamp.After(ref) {
			ref = entry.Timestamp
			found = true
		}
	}

	return ref, found
}
