// Package media stores uploaded product images on local disk and removes
// them again when their product rows are replaced or deleted.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/logging"
)

var (
	ErrNoFile          = errors.New("no image file provided")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)

// allowed maps a sniffed MIME type to the extension it is stored under.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Stored describes a saved upload.
type Stored struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Storage writes uploads under Dir and publishes them as PublicPrefix/<filename>.
type Storage struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64

	log      zerolog.Logger
	failures prometheus.Counter
	now      func() time.Time
}

// New creates a Storage. failures may be nil.
func New(dir, publicPrefix string, maxBytes int64, logger zerolog.Logger, failures prometheus.Counter) *Storage {
	return &Storage{
		Dir:          dir,
		PublicPrefix: strings.Trim(publicPrefix, "/"),
		MaxBytes:     maxBytes,
		log:          logging.PackageLogger(logger, "media"),
		failures:     failures,
		now:          time.Now,
	}
}

// MaxSizeLabel renders the size limit for messages, e.g. "5MB".
func (s *Storage) MaxSizeLabel() string {
	if s.MaxBytes%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", s.MaxBytes>>20)
	}
	return fmt.Sprintf("%dKB", s.MaxBytes>>10)
}

// Save validates and stores one uploaded image. The type is sniffed from the
// content, never taken from the client, and is checked before the size.
func (s *Storage) Save(fh *multipart.FileHeader) (*Stored, error) {
	if fh == nil {
		return nil, ErrNoFile
	}

	// 1. --- Sniff the content type ---
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	ext, ok := allowed[mtype.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	// 2. --- Size ---
	if fh.Size > s.MaxBytes {
		return nil, ErrTooLarge
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	// 3. --- Write under a collision-free name ---
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	filename := fmt.Sprintf("product-%s-%d%s", strings.ReplaceAll(uuid.NewString(), "-", ""), s.now().Unix(), ext)
	dst, err := os.OpenFile(filepath.Join(s.Dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	// Copy one byte past the limit so a lying Size header is still caught.
	n, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(filepath.Join(s.Dir, filename))
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write upload: %w", err)
	}

	s.log.Info().Str("filename", filename).Str("type", mtype.String()).Int64("size", n).Msg("image stored")
	return &Stored{URL: s.PublicPrefix + "/" + filename, Filename: filename}, nil
}

// PathFor maps a public URL back to its file. Only URLs of the form
// PublicPrefix/<name> with a plain file name are accepted.
func (s *Storage) PathFor(url string) (string, bool) {
	name, ok := strings.CutPrefix(strings.TrimPrefix(url, "/"), s.PublicPrefix+"/")
	if !ok || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}

// Cleanup removes the files behind urls. Missing files and foreign URLs are
// skipped; every other failure is logged and counted, never returned.
func (s *Storage) Cleanup(urls []string) {
	for _, url := range urls {
		path, ok := s.PathFor(url)
		if !ok {
			s.log.Debug().Str("url", url).Msg("skipping image outside upload dir")
			continue
		}
		err := os.Remove(path)
		switch {
		case err == nil:
			s.log.Debug().Str("path", path).Msg("image removed")
		case errors.Is(err, os.ErrNotExist):
			s.log.Debug().Str("path", path).Msg("image already gone")
		default:
			s.log.Warn().Err(err).Str("path", path).Msg("failed to remove image")
			if s.failures != nil {
				s.failures.Inc()
			}
		}
	}
}
