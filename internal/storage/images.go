// Package storage keeps uploaded images in a blob bucket.
package storage

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"regexp"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"petshop/internal/apperr"
)

const MaxImageSize = 5 << 20

const (
	FolderProducts = "products"
	FolderAvatars  = "avatars"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

var publicIDPattern = regexp.MustCompile(`^(products|avatars)-[0-9a-f-]{36}\.(jpg|png|gif)$`)

var (
	ErrImageTooLarge   = apperr.Validation("image file too large (max 5MB)")
	ErrUnsupportedType = apperr.Validation("only jpeg, png and gif images are allowed")
	ErrImageNotFound   = apperr.NotFound("image not found")
	ErrEmptyImage      = apperr.Validation("image file is empty")
)

// Image describes a stored upload.
type Image struct {
	URL         string `json:"url"`
	PublicID    string `json:"publicId"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
	ContentType string `json:"-"`
}

// ImageStore saves images in bucket and builds their public URLs.
type ImageStore struct {
	bucket    *blob.Bucket
	publicURL string
}

// Open opens the bucket at bucketURL, e.g. file:///app/public/images or mem://.
func Open(ctx context.Context, bucketURL, publicURL string) (*ImageStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}
	return New(bucket, publicURL), nil
}

func New(bucket *blob.Bucket, publicURL string) *ImageStore {
	return &ImageStore{bucket: bucket, publicURL: publicURL}
}

func (s *ImageStore) Close() error {
	return s.bucket.Close()
}

// ValidPublicID reports whether id could have been produced by Save.
func ValidPublicID(id string) bool {
	return publicIDPattern.MatchString(id)
}

func (s *ImageStore) URL(publicID string) string {
	return s.publicURL + "/" + publicID
}

// Save sniffs, measures and stores data under folder.
func (s *ImageStore) Save(ctx context.Context, folder string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return Image{}, ErrUnsupportedType
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, apperr.Validation("image could not be decoded")
	}

	publicID := folder + "-" + uuid.NewString() + ext
	opts := &blob.WriterOptions{ContentType: mtype.String()}
	if err := s.bucket.WriteAll(ctx, publicID, data, opts); err != nil {
		return Image{}, errors.Wrap(err, "write image")
	}

	return Image{
		URL:         s.URL(publicID),
		PublicID:    publicID,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
		ContentType: mtype.String(),
	}, nil
}

// ReadSave reads at most MaxImageSize+1 bytes from r and saves them.
func (s *ImageStore) ReadSave(ctx context.Context, folder string, r io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return Image{}, errors.Wrap(err, "read upload")
	}
	return s.Save(ctx, folder, data)
}

// Open returns a reader for a stored image. The caller closes it.
func (s *ImageStore) Open(ctx context.Context, publicID string) (*blob.Reader, error) {
	if !ValidPublicID(publicID) {
		return nil, ErrImageNotFound
	}
	r, err := s.bucket.NewReader(ctx, publicID, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrImageNotFound
		}
		return nil, errors.Wrap(err, "open image")
	}
	return r, nil
}

func (s *ImageStore) Delete(ctx context.Context, publicID string) error {
	if !ValidPublicID(publicID) {
		return ErrImageNotFound
	}
	if err := s.bucket.Delete(ctx, publicID); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrImageNotFound
		}
		return errors.Wrap(err, "delete image")
	}
	return nil
}
