package check

import (
	"sort"
	"time"

	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/util"
)

// BuildDirectoryReports lists up to entity.MaxReportEntries newest entries
// for every directory, keeping the directory order.
func BuildDirectoryReports(dirs []*entity.BackupDirectory) []*entity.DirectoryReport {
	reports := make([]*entity.DirectoryReport, 0, len(dirs))

	for _, dir := range dirs {
		entries := make([]*entity.FileEntry, len(dir.Entries))
		copy(entries, dir.Entries)

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].NewerThan(entries[j])
		})

		if len(entries) > entity.MaxReportEntries {
			entries = entries[:entity.MaxReportEntries]
		}

		reports = append(reports, &entity.DirectoryReport{
			Path:    dir.Path,
			Entries: entries,
		})
	}

	return reports
}

type dirAge struct {
	path  string
	ts    time.Time
	label string
}

// GroupByAge orders dirs from the longest unchanged to the freshest and
// merges neighbours that share the same relative age label. Directories
// without a reference timestamp come first, labelled "never".
func GroupByAge(dirs []*entity.BackupDirectory, now time.Time) []*entity.AgeGroup {
	ages := make([]dirAge, 0, len(dirs))
	for _, dir := range dirs {
		age := dirAge{path: dir.Path, label: entity.LabelNever}

		if ref, ok := dir.Reference(); ok {
			age.ts = ref
			age.label = util.TimeAgo(ref, now)
		}

		ages = append(ages, age)
	}

	sort.SliceStable(ages, func(i, j int) bool {
		return ages[i].ts.Before(ages[j].ts)
	})

	groups := make([]*entity.AgeGroup, 0)
	for _, age := range ages {
		if len(groups) == 0 || groups[len(groups)-1].Label != age.label {
			groups = append(groups, &entity.AgeGroup{Label: age.label})
		}

		last := groups[len(groups)-1]
		last.Dirs = append(last.Dirs, age.path)
	}

	return groups
}
