package check

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jgivc/backupnotify/internal/entity"
)

const (
	serviceName = "check"
)

type Clock interface {
	Now() time.Time
}

type BackupStorage interface {
	Scan(ctx context.Context) ([]*entity.BackupDirectory, error)
}

type CheckService struct {
	store     BackupStorage
	clock     Clock
	threshold time.Duration
	log       *slog.Logger
}

func NewCheckService(store BackupStorage, clock Clock, threshold time.Duration, log *slog.Logger) *CheckService {
	return &CheckService{
		store:     store,
		clock:     clock,
		threshold: threshold,
		log:       log.With(slog.String("service", serviceName)),
	}
}

// IsOutdated reports whether the newest timestamp in dir is strictly older
// than threshold. A directory without any usable timestamp is outdated.
func IsOutdated(dir *entity.BackupDirectory, now time.Time, threshold time.Duration) bool {
	if dir.IsEmpty() {
		return true
	}

	ref, ok := dir.Reference()
	if !ok {
		return true
	}

	return now.Sub(ref) > threshold
}

// Check scans the backup root and builds the report of outdated directories.
func (c *CheckService) Check(ctx context.Context) (*entity.Report, error) {
	now := c.clock.Now()

	dirs, err := c.store.Scan(ctx)
	if err != nil {
		c.log.Error("Cannot scan", slog.Any("error", err))

		return nil, fmt.Errorf("cannot scan backup directories: %w", err)
	}

	var outdated []*entity.BackupDirectory
	for _, dir := range dirs {
		if IsOutdated(dir, now, c.threshold) {
			outdated = append(outdated, dir)
		}
	}

	c.log.Info("Scan backup dirs", slog.Int("count", len(dirs)), slog.Int("outdated", len(outdated)))

	return &entity.Report{
		GeneratedAt: now,
		Directories: BuildDirectoryReports(outdated),
		AgeGroups:   GroupByAge(outdated, now),
	}, nil
}
