package fsadapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jgivc/backupnotify/internal/common"
	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/spf13/afero"
)

const (
	hiddenPrefix = "."
)

type fsAdapter struct {
	fs     afero.Fs
	policy TimestampPolicy

	log *slog.Logger
}

func NewFSAdapter(policy TimestampPolicy, log *slog.Logger) *fsAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), policy, log)
}

func NewFSAdapterWithFS(fs afero.Fs, policy TimestampPolicy, log *slog.Logger) *fsAdapter {
	return &fsAdapter{
		fs:     fs,
		policy: policy,
		log:    log.With(slog.String("item", "FSAdapter")),
	}
}

// ListDirs returns the immediate subdirectories of root in lexical order.
// Anything that is not a directory is skipped.
func (a *fsAdapter) ListDirs(root string) ([]string, error) {
	stat, err := a.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidScanRoot, root, err)
	}

	if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s: not a directory", common.ErrInvalidScanRoot, root)
	}

	infos, err := a.readDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read scan root: %w", err)
	}

	var dirs []string
	for _, info := range infos {
		if !info.IsDir() {
			a.log.Debug("Skip non directory", slog.String("name", info.Name()))

			continue
		}

		dirs = append(dirs, filepath.Join(root, info.Name()))
	}

	return dirs, nil
}

// ToBackupDirectory reads the entries of folderPath, newest first.
func (a *fsAdapter) ToBackupDirectory(folderPath string) (*entity.BackupDirectory, error) {
	infos, err := a.readDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read backup directory: %w", err)
	}

	dir := &entity.BackupDirectory{
		Path:    folderPath,
		Entries: make([]*entity.FileEntry, 0, len(infos)),
	}

	for _, info := range infos {
		entry := &entity.FileEntry{
			Name: info.Name(),
			Path: filepath.Join(folderPath, info.Name()),
			Size: info.Size(),
		}

		ts, ok := a.policy.Timestamp(info)
		if ok {
			entry.Timestamp = ts
			entry.HasTimestamp = true
		} else {
			a.log.Debug("Cannot get entry timestamp", slog.String("path", entry.Path))
		}

		dir.Entries = append(dir.Entries, entry)
	}

	// Entries without a timestamp go last, ties keep name order.
	sort.SliceStable(dir.Entries, func(i, j int) bool {
		return dir.Entries[i].NewerThan(dir.Entries[j])
	})

	return dir, nil
}

// readDir lists folderPath without hidden entries. Symlinks are resolved;
// an entry that cannot be resolved is logged and skipped.
func (a *fsAdapter) readDir(folderPath string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(a.fs, folderPath)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), hiddenPrefix) {
			continue
		}

		if entry.Mode()&os.ModeSymlink != 0 {
			path := filepath.Join(folderPath, entry.Name())

			resolved, err := a.fs.Stat(path)
			if err != nil {
				a.log.Error("Cannot stat entry", slog.String("path", path), slog.Any("error", err))

				continue
			}

			entry = resolved
		}

		infos = append(infos, entry)
	}

	return infos, nil
}
