package fsadapter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jgivc/backupnotify/internal/common"
	"github.com/jgivc/backupnotify/internal/config"
)

const filenameDateSeparator = "_"

// TimestampPolicy decides which timestamp represents an entry.
// ok is false when no timestamp can be derived; such entries do not take
// part in the freshness decision.
type TimestampPolicy interface {
	Timestamp(info os.FileInfo) (ts time.Time, ok bool)
}

type MTimePolicy struct{}

func (MTimePolicy) Timestamp(info os.FileInfo) (time.Time, bool) {
	return info.ModTime(), true
}

// FilenameDatePolicy reads the date from the part of the name before the
// first underscore, e.g. "24-12-2023_db.tar.gz".
type FilenameDatePolicy struct {
	Layout   string
	Location *time.Location
}

func (p FilenameDatePolicy) Timestamp(info os.FileInfo) (time.Time, bool) {
	prefix, _, _ := strings.Cut(info.Name(), filenameDateSeparator)

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	ts, err := time.ParseInLocation(p.Layout, prefix, loc)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

func NewPolicy(name, layout string) (TimestampPolicy, error) {
	switch name {
	case config.PolicyMTime:
		return MTimePolicy{}, nil
	case config.PolicyFilename:
		if layout == "" {
			layout = config.DefaultDateLayout
		}

		return FilenameDatePolicy{Layout: layout}, nil
	}

	return nil, fmt.Errorf("%w: %s", common.ErrUnknownPolicy, name)
}
