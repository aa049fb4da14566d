package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/checksum"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the dataset directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute storage root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the root and rejects any
// result that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: %w: empty name", apperr.ErrInvalidInput)
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: %w: absolute paths not allowed: %s", apperr.ErrInvalidInput, rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: %w: path escapes root: %s", apperr.ErrInvalidInput, rel)
	}
	return abs, nil
}

// datasetPath is safePath restricted to dataset files outside the uploads
// tree.
func (f *FS) datasetPath(name string) (string, error) {
	if !codec.IsDataset(name) {
		return "", fmt.Errorf("storage: %w: not a dataset file: %s", apperr.ErrInvalidInput, name)
	}
	abs, err := f.safePath(name)
	if err != nil {
		return "", err
	}
	if rel, _ := filepath.Rel(f.root, abs); rel == UploadsDir || strings.HasPrefix(rel, UploadsDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: %w: reserved path: %s", apperr.ErrInvalidInput, name)
	}
	return abs, nil
}

// List walks the root and returns metadata for every dataset file.
func (f *FS) List() ([]models.DatasetMetadata, error) {
	var out []models.DatasetMetadata
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != f.root && (d.Name() == UploadsDir || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !codec.IsDataset(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		rel = filepath.ToSlash(rel)
		out = append(out, models.DatasetMetadata{
			Name:      strings.TrimSuffix(rel, filepath.Ext(rel)),
			Path:      rel,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a dataset file.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.datasetPath(name)
	if err != nil {
		return nil, err
	}
	return readFile(abs, name)
}

// Write atomically writes a dataset file.
func (f *FS) Write(name string, content []byte) error {
	abs, err := f.datasetPath(name)
	if err != nil {
		return err
	}
	return writeAtomic(abs, content)
}

// Delete removes a dataset file.
func (f *FS) Delete(name string) error {
	abs, err := f.datasetPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, notFound(err))
	}
	return nil
}

// Move renames a dataset file.
func (f *FS) Move(oldName, newName string) error {
	absOld, err := f.datasetPath(oldName)
	if err != nil {
		return err
	}
	absNew, err := f.datasetPath(newName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for move: %w", err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("storage: move: %w", notFound(err))
	}
	return nil
}

func (f *FS) uploadPath(dataset, token string) (string, error) {
	if token == "" || strings.ContainsAny(token, `/\`) || token == "." || token == ".." {
		return "", fmt.Errorf("storage: %w: bad upload token %q", apperr.ErrInvalidInput, token)
	}
	return f.safePath(filepath.Join(UploadsDir, dataset, token))
}

// PutUpload stores an uploaded asset under uploads/<dataset>/<token>.
func (f *FS) PutUpload(dataset, token string, data []byte) error {
	abs, err := f.uploadPath(dataset, token)
	if err != nil {
		return err
	}
	return writeAtomic(abs, data)
}

// ReadUpload returns a stored asset.
func (f *FS) ReadUpload(dataset, token string) ([]byte, error) {
	abs, err := f.uploadPath(dataset, token)
	if err != nil {
		return nil, err
	}
	return readFile(abs, dataset+"/"+token)
}

func readFile(abs, name string) ([]byte, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, notFound(err))
	}
	return data, nil
}

// notFound maps a missing file onto apperr.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}
	return err
}

// writeAtomic writes content: tmp file → fsync → rename.
func writeAtomic(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ord-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
