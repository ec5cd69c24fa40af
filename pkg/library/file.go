package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/log"
)

// CompressedExt marks files that are stored zstd compressed.
const CompressedExt = ".zst"

// IsCompressed reports whether path is read and written through zstd.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// Write stores records at path. The file is written to a temporary sibling
// and renamed into place, so a failed write never leaves a partial file.
func Write(path string, records []book.Record) (err error) {
	l := log.ForService("library")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if IsCompressed(path) {
		enc, err := zstd.NewWriter(tmp)
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		if err := Encode(enc, records); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing zstd stream: %w", err)
		}
	} else if err := Encode(tmp, records); err != nil {
		return err
	}

	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}

	l.Debugf("Wrote %d records to %s", len(records), path)
	return nil
}

// Read loads the records stored at path. A missing file is reported with an
// error matching ErrNotFound.
func Read(path string) ([]book.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var r io.Reader = f
	if IsCompressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	records, err := Decode(r)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}

	log.ForService("library").Debugf("Read %d records from %s", len(records), path)
	return records, nil
}
