// Package assets checks the local asset directory before it is staged for upload.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrMissingDir      = errors.New("assets: directory not found")
	ErrNotDir          = errors.New("assets: path is not a directory")
	ErrEmptyDir        = errors.New("assets: directory is empty")
	ErrMissingDocument = errors.New("assets: document not found")
)

var pdfMagic = []byte("%PDF-")

// File describes one file that will be uploaded.
type File struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Manifest is the result of a successful Check.
type Manifest struct {
	Dir      string `json:"dir"`
	Document string `json:"document"`
	Files    []File `json:"files"`

	// DocumentIsPDF is false when the document lacks the %PDF- header.
	DocumentIsPDF bool `json:"document_is_pdf"`
}

// TotalSize is the sum of all file sizes.
func (m Manifest) TotalSize() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Size
	}
	return total
}

// Check verifies that dir exists, is non-empty and contains document.
//
// Hidden files (dot-prefixed) are ignored. Paths in the manifest are slash-separated
// and relative to dir, sorted lexically.
func Check(dir, document string) (Manifest, error) {
	document = strings.TrimLeft(strings.TrimSpace(document), "/")
	manifest := Manifest{Dir: dir, Document: document}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return manifest, fmt.Errorf("%w: %s", ErrMissingDir, dir)
	case err != nil:
		return manifest, fmt.Errorf("assets: stat %s: %w", dir, err)
	case !info.IsDir():
		return manifest, fmt.Errorf("%w: %s", ErrNotDir, dir)
	}

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		fi, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		manifest.Files = append(manifest.Files, File{
			Path:        filepath.ToSlash(rel),
			Size:        fi.Size(),
			ContentType: contentType(name),
		})
		return nil
	})
	if walkErr != nil {
		return manifest, fmt.Errorf("assets: walk %s: %w", dir, walkErr)
	}

	if len(manifest.Files) == 0 {
		return manifest, fmt.Errorf("%w: %s", ErrEmptyDir, dir)
	}
	sort.Slice(manifest.Files, func(i, j int) bool {
		return manifest.Files[i].Path < manifest.Files[j].Path
	})

	if !manifest.contains(document) {
		return manifest, fmt.Errorf("%w: %s in %s", ErrMissingDocument, document, dir)
	}

	isPDF, err := hasPDFHeader(filepath.Join(dir, filepath.FromSlash(document)))
	if err != nil {
		return manifest, fmt.Errorf("assets: read %s: %w", document, err)
	}
	manifest.DocumentIsPDF = isPDF

	return manifest, nil
}

func (m Manifest) contains(path string) bool {
	for _, f := range m.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func hasPDFHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return bytes.Equal(head[:n], pdfMagic), nil
}
