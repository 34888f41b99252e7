package memory

import (
	"context"
	"sync"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
)

// GalleryRepository keeps albums and images in two maps guarded by one lock,
// so cross-collection operations are atomic.
type GalleryRepository struct {
	mu     sync.RWMutex
	albums map[string]model.Album
	images map[string]model.Image
}

// NewGalleryRepository creates an empty gallery
func NewGalleryRepository() *GalleryRepository {
	return &GalleryRepository{
		albums: make(map[string]model.Album),
		images: make(map[string]model.Image),
	}
}

func (r *GalleryRepository) ListAlbums(ctx context.Context) ([]model.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Album, 0, len(r.albums))
	for _, a := range r.albums {
		out = append(out, a)
	}
	return out, nil
}

func (r *GalleryRepository) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.albums[id]
	if !ok {
		return nil, repository.ErrAlbumNotFound
	}
	return &a, nil
}

func (r *GalleryRepository) InsertAlbum(ctx context.Context, album *model.Album) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.albums[album.ID]; exists {
		return repository.ErrAlbumExists
	}
	r.albums[album.ID] = *album
	return nil
}

func (r *GalleryRepository) DeleteAlbumCascade(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.albums[id]; !ok {
		return 0, repository.ErrAlbumNotFound
	}
	removed := 0
	for imgID, img := range r.images {
		if img.AlbumID == id {
			delete(r.images, imgID)
			removed++
		}
	}
	delete(r.albums, id)
	return removed, nil
}

func (r *GalleryRepository) ListImages(ctx context.Context, albumID string) ([]model.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Image, 0, len(r.images))
	for _, img := range r.images {
		if albumID == "" || img.AlbumID == albumID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *GalleryRepository) GetImage(ctx context.Context, id string) (*model.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, repository.ErrImageNotFound
	}
	return &img, nil
}

func (r *GalleryRepository) InsertImage(ctx context.Context, image *model.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.albums[image.AlbumID]; !ok {
		return repository.ErrAlbumNotFound
	}
	if _, exists := r.images[image.ID]; exists {
		return repository.ErrImageExists
	}
	r.images[image.ID] = *image
	return nil
}

func (r *GalleryRepository) UpdateImage(ctx context.Context, image *model.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[image.ID]; !ok {
		return repository.ErrImageNotFound
	}
	if _, ok := r.albums[image.AlbumID]; !ok {
		return repository.ErrAlbumNotFound
	}
	r.images[image.ID] = *image
	return nil
}

func (r *GalleryRepository) DeleteImage(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return repository.ErrImageNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *GalleryRepository) ReplaceAll(ctx context.Context, gallery *model.Gallery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	albums := make(map[string]model.Album, len(gallery.Albums))
	for _, a := range gallery.Albums {
		albums[a.ID] = a
	}
	images := make(map[string]model.Image, len(gallery.Images))
	for _, img := range gallery.Images {
		images[img.ID] = img
	}

	r.mu.Lock()
	r.albums, r.images = albums, images
	r.mu.Unlock()
	return nil
}
