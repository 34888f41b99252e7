package mongodb

import (
	"context"
	"errors"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GalleryRepository stores albums and images in two collections. Writes that
// touch both run through the TransactionRunner.
type GalleryRepository struct {
	albums CollectionInterface
	images CollectionInterface
	tx     TransactionRunner
	logger logger.Logger
}

func NewGalleryRepository(albums, images CollectionInterface, tx TransactionRunner, log logger.Logger) *GalleryRepository {
	if log == nil {
		log = logger.Nop()
	}
	if tx == nil {
		tx = NewSequentialRunner(log)
	}
	return &GalleryRepository{albums: albums, images: images, tx: tx, logger: log.WithComponent("mongo-gallery")}
}

var createdOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (r *GalleryRepository) ListAlbums(ctx context.Context) ([]model.Album, error) {
	cur, err := r.albums.Find(ctx, bson.M{}, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Album, 0)
	for cur.Next(ctx) {
		var a model.Album
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, cur.Err()
}

func (r *GalleryRepository) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	var a model.Album
	if err := r.albums.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAlbumNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GalleryRepository) InsertAlbum(ctx context.Context, album *model.Album) error {
	if _, err := r.albums.InsertOne(ctx, album); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlbumExists
		}
		return err
	}
	return nil
}

func (r *GalleryRepository) albumExists(ctx context.Context, id string) error {
	n, err := r.albums.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbumCascade deletes images before the album so that a non-transactional
// failure never leaves images pointing at a missing album.
func (r *GalleryRepository) DeleteAlbumCascade(ctx context.Context, id string) (int, error) {
	var removed int
	err := r.tx.Run(ctx, func(ctx context.Context) error {
		if err := r.albumExists(ctx, id); err != nil {
			return err
		}
		res, err := r.images.DeleteMany(ctx, bson.M{"albumId": id})
		if err != nil {
			return err
		}
		removed = int(res.Deleted())
		if _, err := r.albums.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *GalleryRepository) ListImages(ctx context.Context, albumID string) ([]model.Image, error) {
	filter := bson.M{}
	if albumID != "" {
		filter["albumId"] = albumID
	}
	cur, err := r.images.Find(ctx, filter, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Image, 0)
	for cur.Next(ctx) {
		var img model.Image
		if err := cur.Decode(&img); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, cur.Err()
}

func (r *GalleryRepository) GetImage(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	if err := r.images.FindOne(ctx, bson.M{"_id": id}).Decode(&img); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrImageNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *GalleryRepository) InsertImage(ctx context.Context, image *model.Image) error {
	return r.tx.Run(ctx, func(ctx context.Context) error {
		if err := r.albumExists(ctx, image.AlbumID); err != nil {
			return err
		}
		if _, err := r.images.InsertOne(ctx, image); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrImageExists
			}
			return err
		}
		return nil
	})
}

func (r *GalleryRepository) UpdateImage(ctx context.Context, image *model.Image) error {
	return r.tx.Run(ctx, func(ctx context.Context) error {
		if err := r.albumExists(ctx, image.AlbumID); err != nil {
			return err
		}
		res, err := r.images.ReplaceOne(ctx, bson.M{"_id": image.ID}, image)
		if err != nil {
			return err
		}
		if res.Matched() == 0 {
			return repository.ErrImageNotFound
		}
		return nil
	})
}

func (r *GalleryRepository) DeleteImage(ctx context.Context, id string) error {
	res, err := r.images.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.Deleted() == 0 {
		return repository.ErrImageNotFound
	}
	return nil
}

func (r *GalleryRepository) ReplaceAll(ctx context.Context, gallery *model.Gallery) error {
	albums := make([]interface{}, len(gallery.Albums))
	for i := range gallery.Albums {
		albums[i] = gallery.Albums[i]
	}
	images := make([]interface{}, len(gallery.Images))
	for i := range gallery.Images {
		images[i] = gallery.Images[i]
	}

	return r.tx.Run(ctx, func(ctx context.Context) error {
		if _, err := r.images.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
		if _, err := r.albums.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
		if err := r.albums.InsertMany(ctx, albums); err != nil {
			return err
		}
		return r.images.InsertMany(ctx, images)
	})
}
