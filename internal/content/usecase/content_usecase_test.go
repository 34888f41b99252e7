package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/service"
	apperrors "welfare-cms/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetDocument_EmptyStoreReturnsDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for _, d := range model.DocumentDomains {
		doc, err := env.uc.GetDocument(ctx, d)
		require.NoError(t, err, d)
		assert.Equal(t, model.Defaults(d), doc, d)
	}
}

func TestGetDocument_RejectsGallery(t *testing.T) {
	env := newTestEnv()
	_, err := env.uc.GetDocument(context.Background(), model.DomainGallery)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSaveDocument_HomeMergeRoundTrip(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.uc.SaveDocument(ctx, model.DomainHome, model.Fields{
		"hero": map[string]interface{}{"headline": "Hi"},
	}, model.WriteModeMerge)
	require.NoError(t, err)

	err = env.uc.SaveDocument(ctx, model.DomainHome, model.Fields{
		"featuredMemberIds": []interface{}{"m1", "m2"},
	}, model.WriteModeMerge)
	require.NoError(t, err)

	doc, err := env.uc.GetDocument(ctx, model.DomainHome)
	require.NoError(t, err)

	hero := doc["hero"].(map[string]interface{})
	assert.Equal(t, "Hi", hero["headline"])
	assert.Equal(t, "Learn More", hero["button1Text"])
	assert.Equal(t, "/images/default-hero.jpg", hero["backgroundImage"])
	assert.Equal(t, "Heart2Heart Welfare", doc["siteTitle"])
	assert.Equal(t, []interface{}{"m1", "m2"}, doc["featuredMemberIds"])
}

func TestSaveDocument_HomeRejectsTooManyFeatured(t *testing.T) {
	env := newTestEnv()
	err := env.uc.SaveDocument(context.Background(), model.DomainHome, model.Fields{
		"featuredMemberIds": []interface{}{"a", "b", "c", "d"},
	}, model.WriteModeMerge)
	assert.True(t, apperrors.IsValidation(err))

	_, getErr := env.documents.Get(context.Background(), model.DomainHome)
	assert.True(t, apperrors.IsNotFound(getErr))
}

func TestSaveDocument_MembersReplaceDropsFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.uc.SaveDocument(ctx, model.DomainMembers, model.Fields{
		"headline":     "Team",
		"callToAction": "Join",
		"members":      []interface{}{map[string]interface{}{"name": "Asha"}},
	}, model.WriteModeReplace))

	require.NoError(t, env.uc.SaveDocument(ctx, model.DomainMembers, model.Fields{
		"headline": "Team 2",
		"members":  []interface{}{},
	}, model.WriteModeReplace))

	stored, err := env.documents.Get(ctx, model.DomainMembers)
	require.NoError(t, err)
	assert.Equal(t, "Team 2", stored["headline"])
	assert.NotContains(t, stored, "callToAction")
	assert.Equal(t, env.clock, stored["updatedAt"])
}

func TestSaveDocument_MembersAssignsIDs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.uc.SaveDocument(ctx, model.DomainMembers, model.Fields{
		"headline": "Team",
		"members": []interface{}{
			map[string]interface{}{"name": "Asha"},
			map[string]interface{}{"id": "keep", "name": "Ravi"},
		},
	}, model.WriteModeReplace))

	doc, err := env.uc.GetDocument(ctx, model.DomainMembers)
	require.NoError(t, err)
	members := doc["members"].([]interface{})
	assert.Equal(t, "member-00000001", members[0].(map[string]interface{})["id"])
	assert.Equal(t, "keep", members[1].(map[string]interface{})["id"])
}

func TestSaveDocument_MembersShapeMismatch(t *testing.T) {
	env := newTestEnv()
	err := env.uc.SaveDocument(context.Background(), model.DomainMembers, model.Fields{
		"headline": "Team",
		"members":  "nope",
	}, model.WriteModeReplace)
	require.Error(t, err)
	assert.Equal(t, service.MsgInvalidMembersPayload, err.Error())
}

func TestSaveDocument_InvalidatesCache(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.uc.GetDocument(ctx, model.DomainAbout)
	require.NoError(t, err)
	_, err = env.cache.Get(ctx, CacheKey(model.DomainAbout))
	require.NoError(t, err)

	require.NoError(t, env.uc.SaveDocument(ctx, model.DomainAbout, model.Fields{"mission": "Care"}, model.WriteModeMerge))

	doc, err := env.uc.GetDocument(ctx, model.DomainAbout)
	require.NoError(t, err)
	assert.Equal(t, "Care", doc["mission"])
	assert.Equal(t, "About Us", doc["title"])
}

func TestSaveDocument_RejectsOperatorKeys(t *testing.T) {
	env := newTestEnv()
	err := env.uc.SaveDocument(context.Background(), model.DomainContact, model.Fields{"$set": "x"}, model.WriteModeMerge)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetDocument_StoreFailureReturnsDefaultsAndError(t *testing.T) {
	store := new(mockDocumentStore)
	store.On("Get", mock.Anything, model.DomainContact).Return(nil, errors.New("connection refused"))

	uc := NewContentUsecase(Dependencies{Documents: store})
	doc, err := uc.GetDocument(context.Background(), model.DomainContact)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	assert.Equal(t, model.Defaults(model.DomainContact), doc)
	store.AssertExpectations(t)
}

func TestSaveDocument_StoreFailure(t *testing.T) {
	store := new(mockDocumentStore)
	store.On("Merge", mock.Anything, model.DomainHome, mock.Anything).Return(errors.New("write timeout"))

	uc := NewContentUsecase(Dependencies{Documents: store})
	err := uc.SaveDocument(context.Background(), model.DomainHome, model.Fields{"siteTitle": "X"}, model.WriteModeMerge)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Error saving homepage data to database", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestSaveDocument_RecordsChange(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Without a bus, nothing reaches the change log.
	require.NoError(t, env.uc.SaveDocument(ctx, model.DomainAbout, model.Fields{"mission": "x"}, model.WriteModeMerge))
	changes, err := env.uc.RecentChanges(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
