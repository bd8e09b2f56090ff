package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"marcha-api/config"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrFileTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFormat = errors.New("only PNG and JPEG images are accepted")
	ErrInvalidImage      = errors.New("image could not be decoded")
)

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// ImageStorage stores uploaded crests and photos on the local disk
// and returns the public path they are served from.
type ImageStorage interface {
	SaveImage(folder string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

type localImageStorage struct {
	dir          string
	urlPrefix    string
	maxBytes     int64
	maxDimension int
	log          *logrus.Logger
}

func NewLocalImageStorage(cfg config.UploadConfig, log *logrus.Logger) ImageStorage {
	maxDimension := cfg.MaxDimension
	if maxDimension <= 0 {
		maxDimension = 512
	}
	return &localImageStorage{
		dir:          cfg.Dir,
		urlPrefix:    strings.TrimRight(cfg.URLPrefix, "/"),
		maxBytes:     cfg.MaxBytes,
		maxDimension: maxDimension,
		log:          log,
	}
}

// SaveImage sniffs, decodes and normalizes the upload to a PNG that fits
// maxDimension x maxDimension, then writes it under folder.
func (s *localImageStorage) SaveImage(folder string, r io.Reader) (string, error) {
	// one extra byte tells us the limit was crossed
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrInvalidImage
	}

	bounds := img.Bounds()
	if bounds.Dx() > s.maxDimension || bounds.Dy() > s.maxDimension {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	}

	targetDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ".png"
	if err := imaging.Save(img, filepath.Join(targetDir, filename)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	s.log.Debugf("Stored %s upload as %s/%s", mtype.String(), folder, filename)

	return path.Join(s.urlPrefix, folder, filename), nil
}

// Remove deletes a file previously returned by SaveImage. Unknown paths are ignored.
func (s *localImageStorage) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, s.urlPrefix+"/") {
		return nil
	}
	rel := strings.TrimPrefix(publicPath, s.urlPrefix+"/")
	if strings.Contains(rel, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
