package repository

import (
	"context"

	"welfare-cms/internal/content/domain/model"
)

// GalleryRepository stores albums and images as two collections linked by Image.AlbumID.
// Methods that touch both collections run atomically.
type GalleryRepository interface {
	ListAlbums(ctx context.Context) ([]model.Album, error)
	GetAlbum(ctx context.Context, id string) (*model.Album, error)
	// InsertAlbum returns ErrAlbumExists when the id is taken.
	InsertAlbum(ctx context.Context, album *model.Album) error
	// DeleteAlbumCascade removes the album and all of its images in one step and
	// returns the number of images removed.
	DeleteAlbumCascade(ctx context.Context, id string) (int, error)

	// ListImages returns the images of albumID, or every image when albumID is empty.
	ListImages(ctx context.Context, albumID string) ([]model.Image, error)
	GetImage(ctx context.Context, id string) (*model.Image, error)
	// InsertImage fails with ErrAlbumNotFound, without writing, if the album is missing,
	// and with ErrImageExists if the id is already taken in any album.
	InsertImage(ctx context.Context, image *model.Image) error
	// UpdateImage replaces the stored image. It fails with ErrImageNotFound or ErrAlbumNotFound.
	UpdateImage(ctx context.Context, image *model.Image) error
	DeleteImage(ctx context.Context, id string) error

	// ReplaceAll swaps both collections for the given lists.
	ReplaceAll(ctx context.Context, gallery *model.Gallery) error
}
