package backup

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jgivc/backupnotify/internal/common"
	"github.com/jgivc/backupnotify/internal/entity"
)

type FSAdapter interface {
	ListDirs(root string) ([]string, error)
	ToBackupDirectory(folderPath string) (*entity.BackupDirectory, error)
}

type backupStorage struct {
	running atomic.Bool
	adapter FSAdapter
	root    string
	log     *slog.Logger
}

func NewBackupStorage(adapter FSAdapter, root string, log *slog.Logger) *backupStorage {
	return &backupStorage{
		adapter: adapter,
		root:    root,
		log:     log.With(slog.String("item", "BackupStorage")),
	}
}

// Scan reads every immediate subdirectory of the root, in lexical order.
// An invalid root aborts the scan before anything is read.
func (s *backupStorage) Scan(ctx context.Context) ([]*entity.BackupDirectory, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, common.ErrScanHasAlreadyStarted
	}
	defer s.running.Store(false)

	dirs, err := s.adapter.ListDirs(s.root)
	if err != nil {
		return nil, err
	}

	backups := make([]*entity.BackupDirectory, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			s.log.Info("Interrupted")

			return nil, err
		}

		backup, err := s.adapter.ToBackupDirectory(dir)
		if err != nil {
			s.log.Error("Cannot scan folder", slog.String("folder_path", dir), slog.Any("error", err))

			continue
		}

		s.log.Debug("Found folder", slog.String("path", backup.Path), slog.Int("entries", len(backup.Entries)))
		backups = append(backups, backup)
	}

	return backups, nil
}
