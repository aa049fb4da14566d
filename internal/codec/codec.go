// Package codec converts reaction records to and from their binary (JSON)
// and text (YAML) encodings.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// ContentType is the media type of the binary encoding.
const ContentType = "application/json"

// TextContentType is the media type of the text encoding.
const TextContentType = "application/x-yaml"

// Marshal encodes v in the binary encoding.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes the binary encoding into v. Unknown fields are
// rejected so typos in hand-edited files surface early.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("codec: unmarshal: %w: %w", apperr.ErrInvalidInput, err)
	}
	return nil
}

// MarshalText encodes v as block-style YAML with the binary encoding's
// field names.
func MarshalText(v any) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("codec: marshal text: %w", err)
	}
	plain(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("codec: marshal text: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: marshal text: %w", err)
	}
	return buf.Bytes(), nil
}

// plain drops the flow and quoting styles inherited from JSON; the encoder
// re-quotes scalars whose plain form would change type.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}

// UnmarshalText decodes YAML text into v.
func UnmarshalText(data []byte, v any) error {
	bin, err := TextToBinary(data)
	if err != nil {
		return err
	}
	return Unmarshal(bin, v)
}

// TextToBinary converts YAML text into the binary encoding without decoding
// it into a message. Empty text becomes an empty message.
func TextToBinary(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("codec: unmarshal text: %w: %w", apperr.ErrInvalidInput, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	bin, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: unmarshal text: %w: %w", apperr.ErrInvalidInput, err)
	}
	return bin, nil
}

// IsText reports whether a storage path holds the text encoding.
func IsText(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".pbtxt":
		return true
	}
	return false
}

// IsDataset reports whether path names a dataset file in either encoding.
func IsDataset(path string) bool {
	return IsText(path) || strings.EqualFold(filepath.Ext(path), ".json")
}

// DecodeDataset decodes a dataset file, choosing the encoding by extension.
func DecodeDataset(path string, data []byte) (*models.Dataset, error) {
	var ds models.Dataset
	var err error
	if IsText(path) {
		err = UnmarshalText(data, &ds)
	} else {
		err = Unmarshal(data, &ds)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return &ds, nil
}

// EncodeDataset encodes ds for the file at path.
func EncodeDataset(path string, ds *models.Dataset) ([]byte, error) {
	if IsText(path) {
		return MarshalText(ds)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	return append(data, '\n'), nil
}
