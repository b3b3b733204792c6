package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop/internal/apperr"
	"petshop/internal/response"
	"petshop/internal/storage"
)

var errNoFile = apperr.Validation("no file uploaded")

// multipartOverhead leaves room for form boundaries around the file.
const multipartOverhead = 1 << 20

// UploadImage stores the multipart file in field under folder.
func UploadImage(images *storage.ImageStore, field, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+multipartOverhead)

		file, err := c.FormFile(field)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, storage.ErrImageTooLarge)
				return
			}
			response.Error(c, errNoFile)
			return
		}
		if file.Size > storage.MaxImageSize {
			response.Error(c, storage.ErrImageTooLarge)
			return
		}

		src, err := file.Open()
		if err != nil {
			response.Error(c, err)
			return
		}
		defer src.Close()

		ctx, cancel := requestContext(c)
		defer cancel()

		img, err := images.ReadSave(ctx, folder, src)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "image uploaded", img)
	}
}

func DeleteImage(images *storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := images.Delete(ctx, c.Param("publicId")); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "image deleted", nil)
	}
}

// ServeImage streams a stored upload.
func ServeImage(images *storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		r, err := images.Open(ctx, c.Param("publicId"))
		if err != nil {
			response.Error(c, err)
			return
		}
		defer r.Close()

		c.DataFromReader(http.StatusOK, r.Size(), r.ContentType(), r, map[string]string{
			"Cache-Control": "public, max-age=31536000, immutable",
		})
	}
}
