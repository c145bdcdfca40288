package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/logging"
)

var (
	// ErrReleased is returned when a handle is released a second time.
	ErrReleased = errors.New("preview handle already released")
	// ErrNotImage is returned for files whose content is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrPoolClosed is returned by Open after Close.
	ErrPoolClosed = errors.New("preview pool closed")
)

// Opener creates preview handles for photo files.
type Opener interface {
	Open(path string) (*Handle, error)
}

// Handle is a scoped preview resource for one photo. The underlying file
// stays open until Release is called.
type Handle struct {
	id   string
	path string
	mime string
	size int64

	file *os.File
	pool *Pool

	mu       sync.Mutex
	released bool
}

// ID returns the opaque preview identifier.
func (h *Handle) ID() string { return h.id }

// Path returns the file the preview was created from.
func (h *Handle) Path() string { return h.path }

// Name returns the base name of the photo file.
func (h *Handle) Name() string { return filepath.Base(h.path) }

// MIME returns the detected content type, e.g. "image/png".
func (h *Handle) MIME() string { return h.mime }

// Size returns the file size in bytes.
func (h *Handle) Size() int64 { return h.size }

// Released reports whether Release has already run.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release frees the handle. The first call closes the file; any later call
// returns ErrReleased and has no effect.
func (h *Handle) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return ErrReleased
	}
	h.released = true
	h.mu.Unlock()

	if h.pool != nil {
		h.pool.forget(h.id)
	}

	logging.Debug("Preview released", zap.String("id", h.id), zap.String("path", h.path))
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("failed to close preview %s: %w", h.id, err)
	}
	return nil
}

// Pool tracks every live handle it opened so that they can all be released
// when the owning form goes away.
type Pool struct {
	mu     sync.Mutex
	live   map[string]*Handle
	closed bool
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{live: make(map[string]*Handle)}
}

// Open opens path, checks that it holds an image and returns a live handle.
func (p *Pool) Open(path string) (*Handle, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat photo: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrNotImage)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to detect photo type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		_ = f.Close()
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), mtype.String(), ErrNotImage)
	}

	h := &Handle{
		id:   "preview:" + uuid.NewString(),
		path: path,
		mime: mtype.String(),
		size: info.Size(),
		file: f,
		pool: p,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = f.Close()
		return nil, ErrPoolClosed
	}
	p.live[h.id] = h

	logging.Debug("Preview created",
		zap.String("id", h.id),
		zap.String("path", path),
		zap.String("mime", h.mime),
	)
	return h, nil
}

func (p *Pool) forget(id string) {
	p.mu.Lock()
	delete(p.live, id)
	p.mu.Unlock()
}

// Live returns the number of handles not yet released.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Close releases every outstanding handle and refuses further opens.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	handles := make([]*Handle, 0, len(p.live))
	for _, h := range p.live {
		handles = append(handles, h)
	}
	p.mu.Unlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i].id < handles[j].id })

	var errs []error
	for _, h := range handles {
		if err := h.Release(); err != nil && !errors.Is(err, ErrReleased) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
