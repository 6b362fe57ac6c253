// Package upload validates and stores user uploads (profile pictures and
// attachments) on a pluggable backend.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
)

// Storage subdirectories
const (
	Pictures = "pictures"
	Files    = "files"
)

// TimestampLayout is the suffix appended to derived filenames
const TimestampLayout = "20060102_150405"

// ErrInvalidFile is returned when a file is missing or its extension is not allowed
var ErrInvalidFile = errors.New("invalid file")

// ExtensionSet is the allow-list of lower-case extensions, without dots
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from a list such as config.AllowedExtensions
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// Has reports whether ext is allowed
func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Extension returns the lower-cased text after the last dot, or "" when there is none
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Validate accepts a filename whose extension is in the allow-list
func Validate(filename string, allowed ExtensionSet) bool {
	ext := Extension(filename)
	return ext != "" && allowed.Has(ext)
}

// File is one uploaded part
type File struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// FileStore persists uploaded bytes under a key such as "pictures/ada_lovelace_20240101_120000.png"
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}

// Handler applies the allow-list and naming scheme on top of a FileStore
type Handler struct {
	store   FileStore
	allowed ExtensionSet
	now     func() time.Time
	logger  *slog.Logger
}

// NewHandler creates a Handler. A nil logger uses slog.Default.
func NewHandler(store FileStore, allowed ExtensionSet, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   store,
		allowed: allowed,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "upload")),
	}
}

// WithClock replaces the time source used for derived filenames
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Allowed reports whether filename passes the configured allow-list
func (h *Handler) Allowed(filename string) bool {
	return Validate(filename, h.allowed)
}

// DeriveFilename builds "{first}_{last}_{timestamp}.{ext}" from the owner names
func DeriveFilename(first, last, original string, at time.Time) string {
	name := sanitize(first) + "_" + sanitize(last) + "_" + at.Format(TimestampLayout)
	if ext := Extension(original); ext != "" {
		name += "." + ext
	}
	return name
}

// sanitize keeps ASCII letters, digits, dash and underscore
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// StoreUnique validates and writes f under subdir with a derived name and
// returns that name. An object already at the derived key is replaced.
func (h *Handler) StoreUnique(ctx context.Context, f *File, first, last, subdir string) (string, error) {
	if f == nil || f.Content == nil || f.Filename == "" {
		return "", fmt.Errorf("%w: no file provided", ErrInvalidFile)
	}
	if !h.Allowed(f.Filename) {
		return "", fmt.Errorf("%w: extension of %q is not allowed", ErrInvalidFile, f.Filename)
	}

	name := DeriveFilename(first, last, f.Filename, h.now())
	key := path.Join(subdir, name)

	exists, err := h.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", key, err)
	}
	if exists {
		if err := h.store.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("replace %s: %w", key, err)
		}
	}

	if err := h.store.Save(ctx, key, f.Content, f.Size); err != nil {
		return "", fmt.Errorf("save %s: %w", key, err)
	}

	h.logger.Info("stored upload", slog.String("key", key), slog.Int64("size", f.Size))
	return name, nil
}

// Remove deletes a superseded file; missing files are not an error
func (h *Handler) Remove(ctx context.Context, subdir, name string) error {
	if name == "" {
		return nil
	}
	key := path.Join(subdir, path.Base(name))
	if err := h.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// URL returns the public address of a stored file, or "" for an empty name
func (h *Handler) URL(subdir, name string) string {
	if name == "" {
		return ""
	}
	return h.store.URL(path.Join(subdir, path.Base(name)))
}
