package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// allowedExtensions is the upload allowlist: documents, spreadsheets,
// presentations, images and archives.
var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	".ppt": true, ".pptx": true, ".xls": true, ".xlsx": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".zip": true,
}

// dangerousExtensions are rejected outright, even before the allowlist.
var dangerousExtensions = map[string]bool{
	".exe": true, ".sh": true, ".py": true, ".bat": true,
	".cmd": true, ".ps1": true, ".jar": true, ".app": true,
}

// MediaService handles file upload storage and cleanup.
type MediaService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, log zerolog.Logger) *MediaService {
	return &MediaService{
		cfg: cfg,
		log: log.With().Str("component", "media_service").Logger(),
	}
}

// SaveUpload saves an uploaded file to local storage with a UUID
// filename, keeping the original extension.
func (s *MediaService) SaveUpload(file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))

	if dangerousExtensions[ext] {
		return nil, fmt.Errorf("%w: %s is not permitted", ErrUnsupportedFileType, ext)
	}
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	s.log.Info().Str("filename", filename).Int64("size", written).Msg("File stored")
	return &model.UploadResult{
		URL:      "/uploads/" + filename,
		Filename: filename,
		Size:     written,
	}, nil
}

// RemoveByURL deletes a locally stored upload given its public URL.
// URLs outside /uploads/ are ignored; missing files are not an error.
func (s *MediaService) RemoveByURL(url string) {
	const prefix = "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return
	}

	// filepath.Base guards against traversal in stored links.
	filename := filepath.Base(strings.TrimPrefix(url, prefix))
	path := filepath.Join(s.cfg.UploadDir, filename)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("Failed to remove upload")
		return
	}
	s.log.Debug().Str("filename", filename).Msg("Upload removed")
}
