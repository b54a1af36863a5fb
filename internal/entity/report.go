package entity

import "time"

const (
	// MaxReportEntries caps the number of entries listed per directory.
	MaxReportEntries = 5

	LabelNever = "never"
)

type DirectoryReport struct {
	Path    string
	Entries []*FileEntry
}

// AgeGroup collects outdated directories that share a relative age label.
type AgeGroup struct {
	Label string
	Dirs  []string
}

type Report struct {
	Hostname    string
	GeneratedAt time.Time
	Directories []*DirectoryReport // Scan order
	AgeGroups   []*AgeGroup        // Ascending by reference timestamp
	Note        *Note
}

func (r *Report) IsEmpty() bool {
	return len(r.Directories) == 0
}

// Note is an optional operator supplied text appended to the report.
type Note struct {
	Subject  string
	Title    string
	Markdown string
	HTML     string
}

// Message is what the senders deliver.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
	Headers map[string]string
}
