package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	apperrors "welfare-cms/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDocumentStore_GetMissing(t *testing.T) {
	col := new(mockCollection)
	col.On("FindOne", mock.Anything, bson.M{"_id": "homeData"}).Return(singleResult{err: mongo.ErrNoDocuments})

	store := NewDocumentStore(col, nil, nil)
	_, err := store.Get(context.Background(), model.DomainHome)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDocumentStore_GetNormalisesBSON(t *testing.T) {
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	col := new(mockCollection)
	col.On("FindOne", mock.Anything, bson.M{"_id": "membersData"}).Return(singleResult{doc: bson.M{
		"_id":       "membersData",
		"headline":  "Team",
		"updatedAt": stamp,
		"members":   bson.A{bson.M{"id": "m1", "name": "Asha"}},
	}})

	store := NewDocumentStore(col, nil, nil)
	doc, err := store.Get(context.Background(), model.DomainMembers)
	require.NoError(t, err)

	assert.NotContains(t, doc, "_id")
	assert.Equal(t, stamp, doc["updatedAt"])
	members, ok := doc["members"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": "m1", "name": "Asha"}, members[0])
}

func TestDocumentStore_MergeSetsDottedPaths(t *testing.T) {
	col := new(mockCollection)
	col.On("FindOne", mock.Anything, bson.M{"_id": "homeData"}).Return(singleResult{err: mongo.ErrNoDocuments})
	col.On("UpdateOne", mock.Anything, bson.M{"_id": "homeData"}, bson.M{"$set": bson.M{
		"hero.headline":     "Hi",
		"featuredMemberIds": []interface{}{"m1"},
	}}).Return(&MongoUpdateResultAdapter{matched: 1}, nil)

	store := NewDocumentStore(col, nil, nil)
	err := store.Merge(context.Background(), model.DomainHome, model.Fields{
		"hero":              map[string]interface{}{"headline": "Hi"},
		"featuredMemberIds": []interface{}{"m1"},
	})
	require.NoError(t, err)
	col.AssertExpectations(t)
}

func TestDocumentStore_MergeOverScalarSetsWholeValue(t *testing.T) {
	col := new(mockCollection)
	col.On("FindOne", mock.Anything, bson.M{"_id": "homeData"}).Return(singleResult{doc: bson.M{
		"_id":  "homeData",
		"hero": "plain text",
		"cta":  bson.M{"label": "Join", "link": "/contact"},
	}})
	col.On("UpdateOne", mock.Anything, bson.M{"_id": "homeData"}, bson.M{"$set": bson.M{
		"hero":      map[string]interface{}{"headline": "Hi", "description": "New"},
		"cta.label": "Donate",
	}}).Return(&MongoUpdateResultAdapter{matched: 1}, nil)

	store := NewDocumentStore(col, nil, nil)
	err := store.Merge(context.Background(), model.DomainHome, model.Fields{
		"hero": map[string]interface{}{"headline": "Hi", "description": "New"},
		"cta":  map[string]interface{}{"label": "Donate"},
	})
	require.NoError(t, err)
	col.AssertExpectations(t)
}

func TestDocumentStore_MergeTopLevelOnlySkipsRead(t *testing.T) {
	col := new(mockCollection)
	col.On("UpdateOne", mock.Anything, bson.M{"_id": "aboutData"}, bson.M{"$set": bson.M{
		"title": "Who we are",
	}}).Return(&MongoUpdateResultAdapter{matched: 1}, nil)

	store := NewDocumentStore(col, nil, nil)
	require.NoError(t, store.Merge(context.Background(), model.DomainAbout, model.Fields{"title": "Who we are"}))
	col.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestDocumentStore_EmptyMergeIsNoop(t *testing.T) {
	col := new(mockCollection)
	store := NewDocumentStore(col, nil, nil)
	require.NoError(t, store.Merge(context.Background(), model.DomainAbout, model.Fields{}))
	col.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentStore_ReplaceKeepsID(t *testing.T) {
	col := new(mockCollection)
	col.On("ReplaceOne", mock.Anything, bson.M{"_id": "membersData"}, bson.M{
		"_id":      "membersData",
		"headline": "Team",
	}).Return(&MongoUpdateResultAdapter{matched: 1}, nil)

	store := NewDocumentStore(col, nil, nil)
	require.NoError(t, store.Replace(context.Background(), model.DomainMembers, model.Fields{"headline": "Team"}))
	col.AssertExpectations(t)
}

func TestSubmissionRepository_InsertAssignsHexIDs(t *testing.T) {
	col := new(mockCollection)
	col.On("InsertMany", mock.Anything, mock.Anything).Return(nil)

	repo := NewSubmissionRepository(col)
	subs := []*model.Submission{{Name: "A"}, {Name: "B"}}
	require.NoError(t, repo.Insert(context.Background(), subs))

	for _, s := range subs {
		_, err := primitive.ObjectIDFromHex(s.ID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, subs[0].ID, subs[1].ID)
}

func TestSubmissionRepository_InsertFailureLeavesIDsEmpty(t *testing.T) {
	col := new(mockCollection)
	col.On("InsertMany", mock.Anything, mock.Anything).Return(errors.New("boom"))

	repo := NewSubmissionRepository(col)
	subs := []*model.Submission{{Name: "A"}}
	require.Error(t, repo.Insert(context.Background(), subs))
	assert.Empty(t, subs[0].ID)
}

func TestSubmissionRepository_List(t *testing.T) {
	oid := primitive.NewObjectID()
	stamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	col := new(mockCollection)
	col.On("Find", mock.Anything, bson.M{}).Return(&sliceCursor{docs: []interface{}{
		bson.M{"_id": oid, "name": "A", "email": "a@b.c", "message": "m", "submittedAt": stamp},
	}}, nil)

	repo := NewSubmissionRepository(col)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, oid.Hex(), list[0].ID)
	assert.True(t, stamp.Equal(list[0].SubmittedAt))
}

func TestSubmissionRepository_DeleteUnknown(t *testing.T) {
	col := new(mockCollection)
	repo := NewSubmissionRepository(col)

	assert.ErrorIs(t, repo.Delete(context.Background(), "not-hex"), repository.ErrSubmissionNotFound)

	oid := primitive.NewObjectID()
	col.On("DeleteOne", mock.Anything, bson.M{"_id": oid}).Return(&MongoDeleteResultAdapter{deleted: 0}, nil)
	assert.ErrorIs(t, repo.Delete(context.Background(), oid.Hex()), repository.ErrSubmissionNotFound)
}

func TestSubmissionRepository_DeleteFirstByTimestamp(t *testing.T) {
	oid := primitive.NewObjectID()
	stamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	col := new(mockCollection)
	col.On("FindOneAndDelete", mock.Anything, bson.M{"submittedAt": stamp}).
		Return(singleResult{doc: bson.M{"_id": oid, "submittedAt": stamp}})

	repo := NewSubmissionRepository(col)
	id, err := repo.DeleteFirstByTimestamp(context.Background(), stamp)
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), id)
}

func TestGalleryRepository_CascadeDeletesImagesFirst(t *testing.T) {
	albums, images := new(mockCollection), new(mockCollection)
	var order []string
	albums.On("CountDocuments", mock.Anything, bson.M{"_id": "album-1"}).Return(int64(1), nil)
	images.On("DeleteMany", mock.Anything, bson.M{"albumId": "album-1"}).
		Run(func(mock.Arguments) { order = append(order, "images") }).
		Return(&MongoDeleteResultAdapter{deleted: 3}, nil)
	albums.On("DeleteOne", mock.Anything, bson.M{"_id": "album-1"}).
		Run(func(mock.Arguments) { order = append(order, "album") }).
		Return(&MongoDeleteResultAdapter{deleted: 1}, nil)

	tx := &recordingRunner{}
	repo := NewGalleryRepository(albums, images, tx, nil)
	removed, err := repo.DeleteAlbumCascade(context.Background(), "album-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{"images", "album"}, order)
	assert.Equal(t, 1, tx.runs)
}

func TestGalleryRepository_CascadeMissingAlbum(t *testing.T) {
	albums, images := new(mockCollection), new(mockCollection)
	albums.On("CountDocuments", mock.Anything, bson.M{"_id": "ghost"}).Return(int64(0), nil)

	repo := NewGalleryRepository(albums, images, &recordingRunner{}, nil)
	_, err := repo.DeleteAlbumCascade(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrAlbumNotFound)
	images.AssertNotCalled(t, "DeleteMany", mock.Anything, mock.Anything)
}

func TestGalleryRepository_InsertImageRequiresAlbum(t *testing.T) {
	albums, images := new(mockCollection), new(mockCollection)
	albums.On("CountDocuments", mock.Anything, bson.M{"_id": "ghost"}).Return(int64(0), nil)

	repo := NewGalleryRepository(albums, images, nil, nil)
	err := repo.InsertImage(context.Background(), &model.Image{ID: "i1", AlbumID: "ghost", URL: "/x.jpg"})
	assert.ErrorIs(t, err, repository.ErrAlbumNotFound)
	images.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestGalleryRepository_InsertImageTakenID(t *testing.T) {
	albums, images := new(mockCollection), new(mockCollection)
	albums.On("CountDocuments", mock.Anything, bson.M{"_id": "a2"}).Return(int64(1), nil)
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	images.On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)

	repo := NewGalleryRepository(albums, images, nil, nil)
	err := repo.InsertImage(context.Background(), &model.Image{ID: "x", AlbumID: "a2", URL: "/2.jpg"})
	assert.ErrorIs(t, err, repository.ErrImageExists)
}

func TestGalleryRepository_GetAlbum(t *testing.T) {
	albums := new(mockCollection)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	albums.On("FindOne", mock.Anything, bson.M{"_id": "a1"}).
		Return(singleResult{doc: bson.M{"_id": "a1", "albumName": "Picnic", "createdAt": created}})
	albums.On("FindOne", mock.Anything, bson.M{"_id": "a2"}).
		Return(singleResult{err: mongo.ErrNoDocuments})

	repo := NewGalleryRepository(albums, new(mockCollection), nil, nil)
	a, err := repo.GetAlbum(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Picnic", a.AlbumName)
	assert.True(t, created.Equal(a.CreatedAt))

	_, err = repo.GetAlbum(context.Background(), "a2")
	assert.ErrorIs(t, err, repository.ErrAlbumNotFound)
}
