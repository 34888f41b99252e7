package firestore

import (
	"context"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"

	"cloud.google.com/go/firestore"
)

// GalleryRepository keeps albums and images in two collections whose document
// ids are the album and image ids. Cross-collection writes use transactions.
type GalleryRepository struct {
	client *firestore.Client
	albums *firestore.CollectionRef
	images *firestore.CollectionRef
}

func NewGalleryRepository(client *firestore.Client, albums, images string) *GalleryRepository {
	return &GalleryRepository{
		client: client,
		albums: client.Collection(albums),
		images: client.Collection(images),
	}
}

func (r *GalleryRepository) ListAlbums(ctx context.Context) ([]model.Album, error) {
	snaps, err := r.albums.OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.Album, 0, len(snaps))
	for _, snap := range snaps {
		var a model.Album
		if err := snap.DataTo(&a); err != nil {
			return nil, err
		}
		a.ID = snap.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

func (r *GalleryRepository) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	snap, err := r.albums.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrAlbumNotFound
		}
		return nil, err
	}
	var a model.Album
	if err := snap.DataTo(&a); err != nil {
		return nil, err
	}
	a.ID = snap.Ref.ID
	return &a, nil
}

func (r *GalleryRepository) InsertAlbum(ctx context.Context, album *model.Album) error {
	if _, err := r.albums.Doc(album.ID).Create(ctx, album); err != nil {
		if isAlreadyExists(err) {
			return repository.ErrAlbumExists
		}
		return err
	}
	return nil
}

func (r *GalleryRepository) DeleteAlbumCascade(ctx context.Context, id string) (int, error) {
	var removed int
	albumRef := r.albums.Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		removed = 0
		if _, err := tx.Get(albumRef); err != nil {
			if isNotFound(err) {
				return repository.ErrAlbumNotFound
			}
			return err
		}
		snaps, err := tx.Documents(r.images.Where("albumId", "==", id)).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			if err := tx.Delete(snap.Ref); err != nil {
				return err
			}
		}
		removed = len(snaps)
		return tx.Delete(albumRef)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *GalleryRepository) ListImages(ctx context.Context, albumID string) ([]model.Image, error) {
	q := r.images.OrderBy("createdAt", firestore.Asc)
	if albumID != "" {
		q = r.images.Where("albumId", "==", albumID)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.Image, 0, len(snaps))
	for _, snap := range snaps {
		var img model.Image
		if err := snap.DataTo(&img); err != nil {
			return nil, err
		}
		img.ID = snap.Ref.ID
		out = append(out, img)
	}
	return out, nil
}

func (r *GalleryRepository) GetImage(ctx context.Context, id string) (*model.Image, error) {
	snap, err := r.images.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrImageNotFound
		}
		return nil, err
	}
	var img model.Image
	if err := snap.DataTo(&img); err != nil {
		return nil, err
	}
	img.ID = snap.Ref.ID
	return &img, nil
}

func (r *GalleryRepository) InsertImage(ctx context.Context, image *model.Image) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(r.albums.Doc(image.AlbumID)); err != nil {
			if isNotFound(err) {
				return repository.ErrAlbumNotFound
			}
			return err
		}
		return tx.Create(r.images.Doc(image.ID), image)
	})
	if isAlreadyExists(err) {
		return repository.ErrImageExists
	}
	return err
}

func (r *GalleryRepository) UpdateImage(ctx context.Context, image *model.Image) error {
	imgRef := r.images.Doc(image.ID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(imgRef); err != nil {
			if isNotFound(err) {
				return repository.ErrImageNotFound
			}
			return err
		}
		if _, err := tx.Get(r.albums.Doc(image.AlbumID)); err != nil {
			if isNotFound(err) {
				return repository.ErrAlbumNotFound
			}
			return err
		}
		return tx.Set(imgRef, image)
	})
}

func (r *GalleryRepository) DeleteImage(ctx context.Context, id string) error {
	if _, err := r.images.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return repository.ErrImageNotFound
		}
		return err
	}
	return nil
}

// ReplaceAll is bounded by the transaction write limit of 500 documents.
// Documents that are rewritten are not deleted first, so each is written once.
func (r *GalleryRepository) ReplaceAll(ctx context.Context, gallery *model.Gallery) error {
	keepAlbums := make(map[string]bool, len(gallery.Albums))
	for _, a := range gallery.Albums {
		keepAlbums[a.ID] = true
	}
	keepImages := make(map[string]bool, len(gallery.Images))
	for _, img := range gallery.Images {
		keepImages[img.ID] = true
	}

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		oldImages, err := tx.Documents(r.images).GetAll()
		if err != nil {
			return err
		}
		oldAlbums, err := tx.Documents(r.albums).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range oldImages {
			if keepImages[snap.Ref.ID] {
				continue
			}
			if err := tx.Delete(snap.Ref); err != nil {
				return err
			}
		}
		for _, snap := range oldAlbums {
			if keepAlbums[snap.Ref.ID] {
				continue
			}
			if err := tx.Delete(snap.Ref); err != nil {
				return err
			}
		}
		for i := range gallery.Albums {
			a := gallery.Albums[i]
			if err := tx.Set(r.albums.Doc(a.ID), a); err != nil {
				return err
			}
		}
		for i := range gallery.Images {
			img := gallery.Images[i]
			if err := tx.Set(r.images.Doc(img.ID), img); err != nil {
				return err
			}
		}
		return nil
	})
}
