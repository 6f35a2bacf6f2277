package workbook

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

// writeAtomic saves f to a unique temporary file next to path and renames it
// into place. The temporary file never survives a failure.
func writeAtomic(f *excelize.File, path string, compress bool) (size int64, err error) {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if compress {
		var buf bytes.Buffer
		if _, err = f.WriteTo(&buf); err != nil {
			return 0, fmt.Errorf("serialize workbook: %w", err)
		}
		if err = recompress(buf.Bytes(), tmp); err != nil {
			return 0, fmt.Errorf("compress workbook: %w", err)
		}
	} else if _, err = f.WriteTo(tmp); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync temp file: %w", err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, err
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("move into place: %w", err)
	}
	return info.Size(), nil
}

// recompress repacks a zip container with every entry deflated at the best
// compression level. Entry order and names are preserved.
func recompress(src []byte, dst io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return err
	}

	zw := zip.NewWriter(dst)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, entry := range zr.File {
		header := entry.FileHeader
		header.Method = zip.Deflate
		header.CRC32 = 0
		header.CompressedSize64 = 0
		header.UncompressedSize64 = 0
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return err
		}
		rc, err := entry.Open()
		if err != nil {
			return err
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return zw.Close()
}
