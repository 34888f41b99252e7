package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/shared/eventbus"
	apperrors "welfare-cms/internal/shared/errors"
)

// Gallery messages shared with the HTTP layer.
const (
	MsgAlbumNameRequired  = "Album name is required"
	MsgImageFieldsMissing = "Image URL and albumId are required"
	MsgImageIDRequired    = "Image ID is required"
	MsgAlbumIDRequired    = "Album ID is required"
	MsgInvalidGallery     = "Invalid data format"
)

// mapGalleryError turns repository sentinels into client-facing errors.
func mapGalleryError(err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrAlbumNotFound):
		return apperrors.NewNotFoundError("Album").WithCause(err)
	case errors.Is(err, repository.ErrImageNotFound):
		return apperrors.NewNotFoundError("Image").WithCause(err)
	case errors.Is(err, repository.ErrAlbumExists):
		return apperrors.NewConflictError("Album already exists").WithCause(err)
	case errors.Is(err, repository.ErrImageExists):
		return apperrors.NewConflictError("Image already exists").WithCause(err)
	default:
		return wrapStoreError(err, fallback)
	}
}

func sortAlbums(albums []model.Album) {
	sort.SliceStable(albums, func(i, j int) bool {
		if !albums[i].CreatedAt.Equal(albums[j].CreatedAt) {
			return albums[i].CreatedAt.Before(albums[j].CreatedAt)
		}
		return albums[i].ID < albums[j].ID
	})
}

func sortImages(images []model.Image) {
	sort.SliceStable(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.Before(images[j].CreatedAt)
		}
		return images[i].ID < images[j].ID
	})
}

// GetGallery returns all albums and images. A gallery that was never written is empty.
func (uc *ContentUsecase) GetGallery(ctx context.Context) (*model.Gallery, error) {
	var cached model.Gallery
	if uc.cache.load(ctx, model.DomainGallery, &cached) {
		return &cached, nil
	}

	albums, err := uc.gallery.ListAlbums(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to fetch gallery data.")
	}
	images, err := uc.gallery.ListImages(ctx, "")
	if err != nil {
		return nil, wrapStoreError(err, "Failed to fetch gallery data.")
	}

	g := &model.Gallery{Albums: albums, Images: images}
	if g.Albums == nil {
		g.Albums = []model.Album{}
	}
	if g.Images == nil {
		g.Images = []model.Image{}
	}
	sortAlbums(g.Albums)
	sortImages(g.Images)

	uc.cache.store(ctx, model.DomainGallery, g)
	return g, nil
}

// GetAlbum returns one album with its images.
func (uc *ContentUsecase) GetAlbum(ctx context.Context, albumID string) (*model.AlbumWithImages, error) {
	if albumID == "" {
		return nil, apperrors.NewValidationError(MsgAlbumIDRequired)
	}
	album, err := uc.gallery.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, mapGalleryError(err, "Failed to fetch album.")
	}
	images, err := uc.gallery.ListImages(ctx, albumID)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to fetch album.")
	}
	if images == nil {
		images = []model.Image{}
	}
	sortImages(images)
	return &model.AlbumWithImages{Album: *album, Images: images}, nil
}

// CreateAlbum adds an album. The id is generated as album-<8 hex> unless supplied.
func (uc *ContentUsecase) CreateAlbum(ctx context.Context, req CreateAlbumRequest) (*model.Album, error) {
	name := strings.TrimSpace(req.AlbumName)
	if name == "" {
		return nil, apperrors.NewValidationError(MsgAlbumNameRequired)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = "album-" + uc.newID()[:8]
	}

	album := &model.Album{
		ID:          id,
		AlbumName:   name,
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		CreatedAt:   uc.now(),
	}
	if err := uc.gallery.InsertAlbum(ctx, album); err != nil {
		return nil, mapGalleryError(err, "Failed to create album.")
	}

	uc.galleryChanged(ctx, "album.created", map[string]interface{}{"albumId": album.ID})
	return album, nil
}

// DeleteAlbum removes an album and every image that references it, atomically.
// It returns the number of images removed.
func (uc *ContentUsecase) DeleteAlbum(ctx context.Context, albumID string) (int, error) {
	if albumID == "" {
		return 0, apperrors.NewValidationError(MsgAlbumIDRequired)
	}
	removed, err := uc.gallery.DeleteAlbumCascade(ctx, albumID)
	if err != nil {
		return 0, mapGalleryError(err, "Failed to delete album.")
	}

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"albumId":       albumID,
		"deletedImages": removed,
	}).Info("Album deleted")
	uc.galleryChanged(ctx, "album.deleted", map[string]interface{}{"albumId": albumID, "deletedImages": removed})
	return removed, nil
}

// AddImage appends an image to an existing album.
func (uc *ContentUsecase) AddImage(ctx context.Context, req ImageRequest) (*model.Image, error) {
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.AlbumID) == "" {
		return nil, apperrors.NewValidationError(MsgImageFieldsMissing)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uc.newID()
	}

	img := &model.Image{
		ID:        id,
		URL:       strings.TrimSpace(req.URL),
		AlbumID:   strings.TrimSpace(req.AlbumID),
		CreatedAt: uc.now(),
	}
	if req.Caption != nil {
		img.Caption = *req.Caption
	}
	if req.Date != nil {
		img.Date = *req.Date
	}

	if err := uc.gallery.InsertImage(ctx, img); err != nil {
		return nil, mapGalleryError(err, "Failed to add image.")
	}

	uc.galleryChanged(ctx, "image.created", map[string]interface{}{"imageId": img.ID, "albumId": img.AlbumID})
	return img, nil
}

// UpdateImage merges the request over the stored image and re-checks the album.
func (uc *ContentUsecase) UpdateImage(ctx context.Context, req ImageRequest) (*model.Image, error) {
	if req.ID == "" || strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.AlbumID) == "" {
		return nil, apperrors.NewValidationError("Image ID, URL, and albumId are required")
	}

	existing, err := uc.gallery.GetImage(ctx, req.ID)
	if err != nil {
		return nil, mapGalleryError(err, "Failed to update image.")
	}

	updated := *existing
	updated.URL = strings.TrimSpace(req.URL)
	updated.AlbumID = strings.TrimSpace(req.AlbumID)
	if req.Caption != nil {
		updated.Caption = *req.Caption
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	now := uc.now()
	updated.UpdatedAt = &now

	if err := uc.gallery.UpdateImage(ctx, &updated); err != nil {
		return nil, mapGalleryError(err, "Failed to update image.")
	}

	uc.galleryChanged(ctx, "image.updated", map[string]interface{}{"imageId": updated.ID, "albumId": updated.AlbumID})
	return &updated, nil
}

// DeleteImage removes one image.
func (uc *ContentUsecase) DeleteImage(ctx context.Context, imageID string) error {
	if imageID == "" {
		return apperrors.NewValidationError(MsgImageIDRequired)
	}
	if err := uc.gallery.DeleteImage(ctx, imageID); err != nil {
		return mapGalleryError(err, "Failed to delete image.")
	}
	uc.galleryChanged(ctx, "image.deleted", map[string]interface{}{"imageId": imageID})
	return nil
}

// ReplaceGallery swaps the whole gallery. Every image must reference an album in
// the same payload. Missing ids and timestamps are filled in.
func (uc *ContentUsecase) ReplaceGallery(ctx context.Context, g *model.Gallery) error {
	if g == nil || g.Albums == nil || g.Images == nil {
		return apperrors.NewValidationError(MsgInvalidGallery)
	}

	now := uc.now()
	albumIDs := make(map[string]bool, len(g.Albums))
	for i := range g.Albums {
		a := &g.Albums[i]
		if strings.TrimSpace(a.AlbumName) == "" {
			return apperrors.NewValidationError(MsgAlbumNameRequired).WithDetail("index", i)
		}
		if a.ID == "" {
			a.ID = "album-" + uc.newID()[:8]
		}
		if albumIDs[a.ID] {
			return apperrors.NewValidationError("Duplicate album id: " + a.ID)
		}
		albumIDs[a.ID] = true
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
	}

	imageIDs := make(map[string]bool, len(g.Images))
	for i := range g.Images {
		img := &g.Images[i]
		if img.URL == "" || img.AlbumID == "" {
			return apperrors.NewValidationError(MsgImageFieldsMissing).WithDetail("index", i)
		}
		if !albumIDs[img.AlbumID] {
			return apperrors.NewValidationError("Image references unknown album: " + img.AlbumID).WithDetail("index", i)
		}
		if img.ID == "" {
			img.ID = uc.newID()
		}
		if imageIDs[img.ID] {
			return apperrors.NewValidationError("Duplicate image id: " + img.ID)
		}
		imageIDs[img.ID] = true
		if img.CreatedAt.IsZero() {
			img.CreatedAt = now
		}
	}

	if err := uc.gallery.ReplaceAll(ctx, g); err != nil {
		return wrapStoreError(err, "Failed to save gallery data.")
	}

	uc.galleryChanged(ctx, "gallery.replaced", map[string]interface{}{"albums": len(g.Albums), "images": len(g.Images)})
	return nil
}

func (uc *ContentUsecase) galleryChanged(ctx context.Context, action string, data map[string]interface{}) {
	uc.cache.invalidate(ctx, model.DomainGallery)
	data["action"] = action
	uc.publish(ctx, eventbus.EventTypeGalleryChanged, model.DomainGallery.String(), data)
}
