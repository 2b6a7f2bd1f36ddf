package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/spf13/afero"
)

const (
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
	lockRetryDelay = 50 * time.Millisecond
)

// FileStoreConfig configures a FileTaskStore.
type FileStoreConfig struct {
	Path     string
	Format   Format   // json, yaml or toml; empty means json
	Checksum bool     // maintain and verify a sha256 sidecar file
	Fs       afero.Fs // nil means the OS filesystem
}

// FileTaskStore persists the collection as a single JSON, YAML or TOML document.
// Writes go to a temporary file that is renamed over the data file.
type FileTaskStore struct {
	fs       afero.Fs
	filePath string
	format   Format
	checksum bool
	locker   *fileLocker
}

// NewFileTaskStore creates a file-backed persister, creating the parent
// directory if needed. No data is read until Load.
func NewFileTaskStore(cfg FileStoreConfig) (*FileTaskStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	format, err := ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	if !format.IsFile() {
		return nil, fmt.Errorf("format %s is not a file document format", format)
	}

	fsys := cfg.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return &FileTaskStore{
		fs:       fsys,
		filePath: cfg.Path,
		format:   format,
		checksum: cfg.Checksum,
		locker:   newFileLocker(cfg.Path, isOsFs(fsys)),
	}, nil
}

// Path returns the data file path.
func (s *FileTaskStore) Path() string { return s.filePath }

// Format returns the document format.
func (s *FileTaskStore) Format() Format { return s.format }

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads and parses the data file.
func (s *FileTaskStore) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistErr("load", s.filePath, err)
	}

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, persistErr("load", s.filePath, err)
	}

	if s.checksum {
		if err := s.verifyChecksum(data); err != nil {
			return nil, persistErr("load", s.filePath, err)
		}
	}

	tasks, err := decode(s.format, data)
	if err != nil {
		return nil, persistErr("load", s.filePath, err)
	}
	return tasks, nil
}

// verifyChecksum compares data against the sidecar. A missing sidecar is
// accepted so files written before checksums were enabled still load.
func (s *FileTaskStore) verifyChecksum(data []byte) error {
	expected, err := afero.ReadFile(s.fs, s.filePath+checksumSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read checksum file: %w", err)
	}
	if actual := calculateChecksum(data); actual != strings.TrimSpace(string(expected)) {
		return fmt.Errorf("checksum mismatch - expected %s, got %s - file is corrupt or was edited", strings.TrimSpace(string(expected)), actual)
	}
	return nil
}

// Save writes the whole collection, replacing the data file atomically.
func (s *FileTaskStore) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return persistErr("save", s.filePath, err)
	}

	data, err := encode(s.format, tasks)
	if err != nil {
		return persistErr("save", s.filePath, err)
	}

	if err := s.writeAtomic(s.filePath, data); err != nil {
		return persistErr("save", s.filePath, err)
	}
	if s.checksum {
		if err := s.writeAtomic(s.filePath+checksumSuffix, []byte(calculateChecksum(data))); err != nil {
			return persistErr("save", s.filePath, fmt.Errorf("data file updated but checksum was not: %w", err))
		}
	}
	return nil
}

func (s *FileTaskStore) writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write temporary file %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// Lock acquires the exclusive lock for a read-modify-write cycle.
func (s *FileTaskStore) Lock(ctx context.Context) (func() error, error) {
	unlock, err := s.locker.lock(ctx)
	if err != nil {
		return nil, persistErr("lock", s.filePath, err)
	}
	return unlock, nil
}

// Close releases the file lock if it is still held.
func (s *FileTaskStore) Close() error {
	return s.locker.close()
}

func isOsFs(fsys afero.Fs) bool {
	_, ok := fsys.(*afero.OsFs)
	return ok
}

// fileLocker serializes writers. Across processes it uses flock on a
// sibling lock file, since the data file itself is replaced by rename.
type fileLocker struct {
	mu  sync.Mutex
	flk *flock.Flock
}

func newFileLocker(dataPath string, crossProcess bool) *fileLocker {
	l := &fileLocker{}
	if crossProcess {
		l.flk = flock.New(dataPath + lockSuffix)
	}
	return l
}

func (l *fileLocker) lock(ctx context.Context) (func() error, error) {
	l.mu.Lock()
	if l.flk == nil {
		return func() error { l.mu.Unlock(); return nil }, nil
	}
	locked, err := l.flk.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("acquire file lock: %w", err)
	}
	if !locked {
		l.mu.Unlock()
		return nil, fmt.Errorf("acquire file lock: %s is held by another process", l.flk.Path())
	}
	return func() error {
		defer l.mu.Unlock()
		return l.flk.Unlock()
	}, nil
}

func (l *fileLocker) close() error {
	if l.flk != nil {
		return l.flk.Close()
	}
	return nil
}
