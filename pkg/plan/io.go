package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Request encodings accepted by [DecodeRequest].
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatFromPath returns the request encoding implied by a file extension,
// or "" when the extension is not recognized.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// =============================================================================
// Request Serialization API
// =============================================================================

// DecodeRequest parses a request in the given encoding.
func DecodeRequest(data []byte, format string) (Request, error) {
	var req Request
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &req)
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&req)
	case FormatYAML:
		err = yaml.Unmarshal(data, &req)
	default:
		return Request{}, fmt.Errorf("unsupported request format %q", format)
	}
	if err != nil {
		return Request{}, fmt.Errorf("decode %s request: %w", format, err)
	}
	return req, nil
}

// ReadRequest reads a JSON request.
func ReadRequest(r io.Reader) (Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Request{}, err
	}
	return DecodeRequest(data, FormatJSON)
}

// ReadRequestFile reads a request, choosing the decoder by file extension.
func ReadRequestFile(path string) (Request, error) {
	format := FormatFromPath(path)
	if format == "" {
		return Request{}, fmt.Errorf("%s: unrecognized request extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeRequest(data, format)
}

// MarshalRequest serializes a request to pretty-printed JSON.
func MarshalRequest(r Request) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// =============================================================================
// Result Serialization API
// =============================================================================

// MarshalResult serializes a result to pretty-printed JSON bytes.
func MarshalResult(r *Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalResult deserializes JSON bytes into a result.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	if r.Floor.Width <= 0 || r.Floor.Height <= 0 {
		return nil, fmt.Errorf("result must contain floor dimensions")
	}
	return &r, nil
}

// WriteResult writes a result as JSON.
func WriteResult(r *Result, w io.Writer) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteResultFile writes a result to a JSON file.
func WriteResultFile(r *Result, path string) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadResultFile reads a result from a JSON file.
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalResult(data)
}
