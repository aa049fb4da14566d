// Package storage persists dataset files and their uploaded assets.
package storage

import "github.com/antonkast-google/ord-editor/internal/models"

// UploadsDir is the directory, relative to the storage root, that holds
// uploaded assets. It is never listed as a dataset.
const UploadsDir = "uploads"

// Provider is the interface for dataset file operations. Names are paths
// relative to the storage root, extension included.
type Provider interface {
	// List returns metadata for every dataset file under the root.
	List() ([]models.DatasetMetadata, error)
	// Read returns the raw bytes of the named dataset.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named dataset.
	Write(name string, content []byte) error
	// Delete removes the named dataset.
	Delete(name string) error
	// Move renames a dataset.
	Move(oldName, newName string) error
	// PutUpload stores an asset uploaded for dataset under token.
	PutUpload(dataset, token string, data []byte) error
	// ReadUpload returns a stored asset.
	ReadUpload(dataset, token string) ([]byte, error)
}
