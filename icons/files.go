package icons

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-crypt/x/blake2b"
)

// FileName returns the cache file name for an item name: a hex BLAKE2b-64
// digest plus ext.
func FileName(name, ext string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil)) + ext
}

// imageExt validates that data is a raster image and returns its extension.
func imageExt(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoIcon
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mtype.String())
	}
	return mtype.Extension(), nil
}

// save writes data for name into dir and returns the absolute file path.
func save(dir, name string, data []byte) (string, error) {
	ext, err := imageExt(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create icon directory: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(dir, FileName(name, ext)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write icon: %w", err)
	}
	return path, nil
}

// copyFile validates src as an image and copies it into dir under name.
func copyFile(dir, name, src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return save(dir, name, data)
}
