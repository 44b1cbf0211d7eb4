package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vidpub/internal/logging"
	"vidpub/internal/services"
)

// ErrUploadInProgress is returned when another process holds the lock for the same video.
var ErrUploadInProgress = services.Wrap(services.ErrValidation, "publish", "lock", "an upload of this file is already running", nil)

// lockPath maps a video to its lock file. The name is derived from the
// absolute path so different directories never share a lock.
func (p *Publisher) lockPath(video string) (string, error) {
	abs, err := filepath.Abs(video)
	if err != nil {
		return "", fmt.Errorf("resolve video path: %w", err)
	}
	dir := p.lockDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String() + ".lock"
	return filepath.Join(dir, name), nil
}

// acquire takes the exclusive publish lock for video and returns its release.
func (p *Publisher) acquire(video string) (func(), error) {
	path, err := p.lockPath(video)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUploadInProgress, video)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release publish lock", logging.Args(logging.String("lock", path), logging.Error(err))...)
		}
	}, nil
}
