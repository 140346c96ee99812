package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/service"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// formAsset extracts an optional multipart file field as an upload. The
// returned close func is a no-op when the field is absent.
func formAsset(c *fiber.Ctx, field string) (*service.AssetUpload, func(), error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// fiber reports a missing field as an error; absent files are fine
		return nil, func() {}, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, apperrors.NewValidationError("unreadable upload", map[string]any{"field": field})
	}
	upload := &service.AssetUpload{
		Content:   file,
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes: fileHeader.Size,
	}
	return upload, func() { _ = file.Close() }, nil
}

// streamAsset sends asset bytes with the stored content type. fasthttp
// closes the stream when the response completes.
func streamAsset(c *fiber.Ctx, rc io.ReadCloser, ref *domain.AssetRef) error {
	if ref.MimeType != "" {
		c.Set(fiber.HeaderContentType, ref.MimeType)
	}
	if ref.SizeBytes > 0 {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(ref.SizeBytes, 10))
		return c.SendStream(rc, int(ref.SizeBytes))
	}
	return c.SendStream(rc)
}
