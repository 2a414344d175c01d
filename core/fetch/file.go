package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gaurav-prasanna/html22text/core"
)

// FileLoader reads HTML files from the local filesystem. It implements
// core.Loader. The read is a single synchronous attempt.
type FileLoader struct {
	// MaxBytes bounds the file size. Zero means unlimited.
	MaxBytes int64
}

// NewFileLoader creates a FileLoader with the given size ceiling.
func NewFileLoader(maxBytes int64) *FileLoader {
	return &FileLoader{MaxBytes: maxBytes}
}

// Load returns the contents of path as UTF-8 text. Every failure is a
// *core.InputError.
func (l *FileLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", classify(path, err)
	}
	if info.IsDir() {
		return "", core.NewInputError(path, core.ErrIsDirectory, nil)
	}
	if l.MaxBytes > 0 && info.Size() > l.MaxBytes {
		return "", core.NewInputError(path, core.ErrInputTooLarge,
			fmt.Errorf("%d bytes, limit is %d", info.Size(), l.MaxBytes))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", classify(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if l.MaxBytes > 0 {
		r = io.LimitReader(f, l.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", classify(path, err)
	}
	if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
		return "", core.NewInputError(path, core.ErrInputTooLarge, fmt.Errorf("limit is %d bytes", l.MaxBytes))
	}

	text, err := decode(data)
	if err != nil {
		return "", core.NewInputError(path, core.ErrInvalidEncoding, err)
	}
	return text, nil
}

// classify maps a filesystem error to an input error kind.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return core.NewInputError(path, core.ErrNotFound, err)
	case errors.Is(err, syscall.EISDIR):
		return core.NewInputError(path, core.ErrIsDirectory, err)
	default:
		// Permission denied and any other read failure.
		return core.NewInputError(path, core.ErrPermission, err)
	}
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode strips a byte order mark and returns the text as UTF-8. Input
// without a UTF-16 BOM must already be valid UTF-8.
func decode(data []byte) (string, error) {
	utf16 := bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
	if !utf16 && !utf8.Valid(data) {
		return "", errors.New("invalid UTF-8 byte sequence")
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}
	return string(out), nil
}
