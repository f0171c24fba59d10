package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// Sentinel errors for material uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed material MIME types mapped to stored extensions.
var allowedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/zip": ".zip",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"video/mp4":       ".mp4",
	"text/plain":      ".txt",
}

// MaterialService handles course material uploads and metadata.
type MaterialService struct {
	cfg          *config.Config
	materialRepo *repository.MaterialRepository
	sectionRepo  *repository.SectionRepository
	log          zerolog.Logger
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(
	cfg *config.Config,
	materialRepo *repository.MaterialRepository,
	sectionRepo *repository.SectionRepository,
	log zerolog.Logger,
) *MaterialService {
	return &MaterialService{
		cfg:          cfg,
		materialRepo: materialRepo,
		sectionRepo:  sectionRepo,
		log:          log.With().Str("component", "material_service").Logger(),
	}
}

// Upload validates and stores the file under a UUID name, then records the
// material metadata. Ownership of the section is checked first.
func (s *MaterialService) Upload(
	ctx context.Context,
	sectionID uuid.UUID,
	lectureID *uuid.UUID,
	lecturerID int,
	title, description string,
	file multipart.File,
	header *multipart.FileHeader,
) (*model.Material, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return nil, ErrNotOwner
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
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

	if _, err := io.Copy(dst, file); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	material := &model.Material{
		SectionID:   sectionID,
		LectureID:   lectureID,
		Title:       title,
		Description: description,
		FilePath:    "/uploads/" + filename,
		FileType:    contentType,
		FileSize:    header.Size,
		UploadedBy:  section.LecturerID,
	}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		// Metadata insert failed; don't leave the file orphaned.
		os.Remove(destPath)
		return nil, err
	}

	s.log.Info().
		Str("material_id", material.ID.String()).
		Str("section_id", sectionID.String()).
		Int64("size", header.Size).
		Msg("Material uploaded")
	return material, nil
}

// GetByID retrieves a material's metadata.
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	return s.materialRepo.GetByID(ctx, id)
}

// ListBySection retrieves a section's materials with pagination.
func (s *MaterialService) ListBySection(ctx context.Context, sectionID uuid.UUID, page, perPage int) ([]model.Material, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	materials, total, err := s.materialRepo.ListBySection(ctx, sectionID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if materials == nil {
		materials = []model.Material{}
	}
	return materials, buildPagination(page, perPage, total), nil
}

// Delete removes a material record and unlinks its file.
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID, lecturerID int) error {
	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	section, err := s.sectionRepo.GetByID(ctx, material.SectionID)
	if err != nil {
		return err
	}
	if lecturerID != 0 && section.LecturerID != lecturerID {
		return ErrNotOwner
	}

	filePath, err := s.materialRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	local := filepath.Join(s.cfg.UploadDir, filepath.Base(filePath))
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", local).Msg("Failed to unlink material file")
	}
	return nil
}
