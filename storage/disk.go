package storage

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

var (
	ErrNotImage      = errors.New("file is not a supported image")
	ErrInvalidPath   = errors.New("invalid storage path")
	imageNamePattern = regexp.MustCompile(`(?i)\.(jpe?g|png|webp|gif)$`)
)

// Upload is one received file, already read into memory.
type Upload struct {
	Name string
	Data []byte
}

// Disk is the public file disk. Paths are slash separated and relative to its root.
type Disk struct {
	fs        afero.Fs
	publicURL string
}

func NewDisk(fs afero.Fs, publicURL string) *Disk {
	return &Disk{fs: fs, publicURL: strings.TrimRight(publicURL, "/")}
}

// NewLocalDisk roots the disk at a directory on the host filesystem.
func NewLocalDisk(root, publicURL string) (*Disk, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewDisk(afero.NewBasePathFs(osFs, root), publicURL), nil
}

// IsImagePath reports whether the name carries one of the gallery image extensions.
func IsImagePath(name string) bool {
	return imageNamePattern.MatchString(name)
}

func clean(p string) (string, error) {
	p = strings.TrimLeft(path.Clean("/"+strings.TrimSpace(p)), "/")
	if p == "" || strings.HasPrefix(p, "..") {
		return "", ErrInvalidPath
	}
	return p, nil
}

func (d *Disk) Exists(p string) bool {
	rel, err := clean(p)
	if err != nil {
		return false
	}
	info, err := d.fs.Stat("/" + rel)
	return err == nil && !info.IsDir()
}

// Delete removes a file. A missing file is not an error.
func (d *Disk) Delete(p string) error {
	rel, err := clean(p)
	if err != nil {
		return err
	}
	if err := d.fs.Remove("/" + rel); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	return nil
}

// Files lists the regular files directly inside dir, sorted by name. A missing dir is empty.
func (d *Disk) Files(dir string) ([]string, error) {
	rel, err := clean(dir)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(d.fs, "/"+rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", rel, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, path.Join(rel, entry.Name()))
	}
	return files, nil
}

// ImageFiles is Files filtered to gallery image extensions. Listing errors yield no files.
func (d *Disk) ImageFiles(dir string) []string {
	files, err := d.Files(dir)
	if err != nil {
		return nil
	}

	images := files[:0]
	for _, f := range files {
		if IsImagePath(f) {
			images = append(images, f)
		}
	}
	return images
}

// Write stores data at an exact path, creating parent directories.
func (d *Disk) Write(p string, data []byte) error {
	rel, err := clean(p)
	if err != nil {
		return err
	}
	if err := d.fs.MkdirAll("/"+path.Dir(rel), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	return afero.WriteFile(d.fs, "/"+rel, data, 0o644)
}

// StoreImage sniffs the upload and stores it under dir with a random name.
func (d *Disk) StoreImage(dir string, upload Upload) (string, error) {
	ext, err := SniffImage(upload.Data)
	if err != nil {
		return "", err
	}

	rel, err := clean(dir)
	if err != nil {
		return "", err
	}

	p := path.Join(rel, uuid.New().String()+"."+ext)
	if err := d.Write(p, upload.Data); err != nil {
		return "", err
	}
	return p, nil
}

// SniffImage returns the extension for image content, or ErrNotImage.
func SniffImage(data []byte) (string, error) {
	if !filetype.IsImage(data) {
		return "", ErrNotImage
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return "", ErrNotImage
	}
	if !IsImagePath("." + kind.Extension) {
		return "", ErrNotImage
	}
	return kind.Extension, nil
}

// URL maps a disk path to its public URL.
func (d *Disk) URL(p string) string {
	rel, err := clean(p)
	if err != nil {
		return ""
	}
	return d.publicURL + "/" + rel
}

// Handler serves the disk read-only. Mount it with the public URL prefix stripped.
func (d *Disk) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(d.fs)))
}
