package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// entryExt is the file extension of cache entries. Clear only removes
// files carrying it.
const entryExt = ".entry"

// entryMagic prefixes every entry file.
var entryMagic = []byte("FPC1")

// FileCache stores entries as files under a directory, for CLI use.
// Keys are hashed and fanned out into 256 subdirectories. Each file holds
// a small header (magic, expiry, key) followed by the raw value, and is
// written through a temp file and rename so readers never see a partial
// entry.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the value for key. Expired, corrupt and colliding entries are
// reported as misses; the first two are also removed.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	storedKey, expires, data, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if storedKey != key {
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes key. A ttl of zero or less means no expiry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(key, expires, data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	n := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

// Entry layout: magic | expiry unix nanos (int64, 0 = none) | key length
// (uint32) | key | value. All integers big-endian.
func encodeEntry(key string, expires time.Time, data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(entryMagic) + 12 + len(key) + len(data))
	buf.Write(entryMagic)
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	_ = binary.Write(&buf, binary.BigEndian, nanos)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(key)))
	buf.WriteString(key)
	buf.Write(data)
	return buf.Bytes()
}

func decodeEntry(raw []byte) (key string, expires time.Time, data []byte, ok bool) {
	const header = 4 + 8 + 4
	if len(raw) < header || !bytes.Equal(raw[:4], entryMagic) {
		return "", time.Time{}, nil, false
	}
	nanos := int64(binary.BigEndian.Uint64(raw[4:12]))
	keyLen := int(binary.BigEndian.Uint32(raw[12:16]))
	if keyLen > len(raw)-header {
		return "", time.Time{}, nil, false
	}
	if nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	key = string(raw[header : header+keyLen])
	return key, expires, raw[header+keyLen:], true
}

var _ Cache = (*FileCache)(nil)
