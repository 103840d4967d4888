// Package zip packages index snapshot directories as zip archives.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/navigator"
)

// Prefix is the directory name snapshot files are stored under.
const Prefix = "docs_vectors/"

// maxFileSize bounds a single extracted file.
const maxFileSize = 1 << 30

// Pack writes every regular file in dir into a zip archive under Prefix.
func Pack(dir string, w io.Writer) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		fw, err := zw.Create(Prefix + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(fw, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("pack %s: %w", dir, err)
	}
	return zw.Close()
}

// Unpack extracts the files stored under Prefix into dir. Entries outside
// Prefix are skipped. Entries that would escape dir are rejected.
func Unpack(r io.ReaderAt, size int64, dir string) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return navigator.WrapError(navigator.EINVALID, err, "reading index archive")
	}

	var n int
	for _, f := range zr.File {
		name, ok := strings.CutPrefix(f.Name, Prefix)
		if !ok || name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		clean := path.Clean(name)
		if !fs.ValidPath(clean) {
			return navigator.Errorf(navigator.EINVALID, "archive entry %q escapes target directory", f.Name)
		}
		if err := extract(f, filepath.Join(dir, filepath.FromSlash(clean))); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		n++
	}
	if n == 0 {
		return navigator.Errorf(navigator.EINVALID, "archive has no %s entries", strings.TrimSuffix(Prefix, "/"))
	}
	return nil
}

// UnpackFile extracts the archive at archivePath into dir.
func UnpackFile(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return Unpack(f, info.Size(), dir)
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(rc, maxFileSize)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
