package service

import (
	"strings"
	"testing"

	"welfare-cms/internal/content/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFields_RecursesIntoObjectsAndReplacesLists(t *testing.T) {
	stored := model.Fields{
		"siteTitle":         "Old",
		"hero":              map[string]interface{}{"headline": "Hi", "description": "kept"},
		"featuredMemberIds": []interface{}{"a", "b"},
	}
	patch := model.Fields{
		"hero":              map[string]interface{}{"headline": "Hello"},
		"featuredMemberIds": []interface{}{"c"},
	}

	merged := MergeFields(stored, patch)

	assert.Equal(t, "Old", merged["siteTitle"])
	hero := merged["hero"].(map[string]interface{})
	assert.Equal(t, "Hello", hero["headline"])
	assert.Equal(t, "kept", hero["description"])
	assert.Equal(t, []interface{}{"c"}, merged["featuredMemberIds"])

	// inputs untouched
	assert.Equal(t, "Hi", stored["hero"].(map[string]interface{})["headline"])
}

// setPaths writes dotted paths into a copy of doc the way a document store's
// field-level set does.
func setPaths(doc model.Fields, flat map[string]interface{}) model.Fields {
	out := model.CloneFields(doc)
	if out == nil {
		out = model.Fields{}
	}
	for path, v := range flat {
		parts := strings.Split(path, ".")
		cur := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = model.CloneValue(v)
	}
	return out
}

func TestMergeFields_AgreesWithFlattenedWrite(t *testing.T) {
	stored := model.Fields{
		"siteTitle":   "Old",
		"hero":        map[string]interface{}{"headline": "Hi", "description": "kept"},
		"socialLinks": map[string]interface{}{"facebook": "https://fb.example"},
		"values":      []interface{}{"a", "b"},
	}
	tests := []struct {
		name  string
		patch model.Fields
	}{
		{"leaf in object", model.Fields{"hero": map[string]interface{}{"headline": "Hello"}}},
		{"empty object clears", model.Fields{"socialLinks": map[string]interface{}{}}},
		{"new nested object", model.Fields{"cta": map[string]interface{}{"link": map[string]interface{}{"href": "/x"}}}},
		{"list replaced", model.Fields{"values": []interface{}{"c"}}},
		{"mixed", model.Fields{
			"siteTitle":   "New",
			"hero":        map[string]interface{}{"description": "changed"},
			"socialLinks": map[string]interface{}{},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, setPaths(stored, FlattenFields(tt.patch)), MergeFields(stored, tt.patch))
		})
	}
}

func TestMergeFields_EmptyObjectReplacesStored(t *testing.T) {
	merged := MergeFields(
		model.Fields{"socialLinks": map[string]interface{}{"facebook": "https://fb.example"}},
		model.Fields{"socialLinks": map[string]interface{}{}},
	)
	assert.Equal(t, map[string]interface{}{}, merged["socialLinks"])
}

func TestResolveDocument_EmptyStoreReturnsDefaults(t *testing.T) {
	for _, d := range model.AllDomains {
		got := ResolveDocument(d, nil, false)
		assert.Equal(t, model.Defaults(d), got, d.String())
	}
}

func TestResolveDocument_HomeMergesSectionsIndependently(t *testing.T) {
	stored := model.Fields{
		"siteTitle": "H2H",
		"hero":      map[string]interface{}{"headline": "Hello", "backgroundImage": ""},
		"cta":       "not an object",
	}

	got := ResolveDocument(model.DomainHome, stored, true)

	assert.Equal(t, "H2H", got["siteTitle"])
	hero := got["hero"].(map[string]interface{})
	assert.Equal(t, "Hello", hero["headline"])
	assert.Equal(t, "Learn More", hero["button1Text"])
	assert.Equal(t, "/images/default-hero.jpg", hero["backgroundImage"])

	about := got["aboutSummary"].(map[string]interface{})
	assert.Equal(t, "Read More", about["buttonText"])

	cta := got["cta"].(map[string]interface{})
	assert.Equal(t, "Donate Now", cta["button2Text"])
	assert.Equal(t, []interface{}{}, got["featuredMemberIds"])
}

func TestResolveDocument_ContactReplacesSocialLinksWholesale(t *testing.T) {
	stored := model.Fields{
		"email":       "info@h2h.org",
		"socialLinks": map[string]interface{}{"facebook": "fb"},
	}

	got := ResolveDocument(model.DomainContact, stored, true)

	assert.Equal(t, "info@h2h.org", got["email"])
	assert.Equal(t, "Get In Touch", got["contactHeadline"])
	assert.Equal(t, true, got["formEnabled"])
	assert.Equal(t, map[string]interface{}{"facebook": "fb"}, got["socialLinks"])
}

func TestResolveDocument_MembersAsStored(t *testing.T) {
	stored := model.Fields{"headline": "Team", "members": nil}

	got := ResolveDocument(model.DomainMembers, stored, true)

	assert.Equal(t, "Team", got["headline"])
	assert.Equal(t, []interface{}{}, got["members"])
	_, hasDescription := got["description"]
	assert.False(t, hasDescription)
}

func TestFlattenFields(t *testing.T) {
	flat := FlattenFields(model.Fields{
		"hero":        map[string]interface{}{"headline": "x", "inner": map[string]interface{}{"a": 1}},
		"socialLinks": map[string]interface{}{},
		"values":      []interface{}{"a"},
	})

	assert.Equal(t, "x", flat["hero.headline"])
	assert.Equal(t, 1, flat["hero.inner.a"])
	assert.Equal(t, map[string]interface{}{}, flat["socialLinks"])
	assert.Equal(t, []interface{}{"a"}, flat["values"])
	assert.Equal(t, []string{"hero.headline", "hero.inner.a", "socialLinks", "values"}, FieldPaths(model.Fields{
		"hero":        map[string]interface{}{"headline": "x", "inner": map[string]interface{}{"a": 1}},
		"socialLinks": map[string]interface{}{},
		"values":      []interface{}{"a"},
	}))
}

func TestShallowMerge_NilDefaults(t *testing.T) {
	got := ShallowMerge(nil, model.Fields{"a": 1})
	require.NotNil(t, got)
	assert.Equal(t, 1, got["a"])
}
