package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"welfare-cms/internal/content/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/home", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"siteTitle":"Test Site","featuredMemberIds":["m1"]}`))
	})
	mux.HandleFunc("/api/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"store_error","message":"Failed to fetch about content"}`))
	})
	mux.HandleFunc("/api/contact/submit", func(w http.ResponseWriter, r *http.Request) {
		var in model.SubmissionInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_request","message":"Name, email, and message are required."}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"id":"sub-1"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestContentClient_Home(t *testing.T) {
	srv := newTestAPI(t)
	client := NewContentClient(srv.URL, time.Second)

	home, err := client.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Site", home.SiteTitle)
	assert.Equal(t, []string{"m1"}, home.FeaturedMemberIDs)
}

func TestContentClient_ErrorStatus(t *testing.T) {
	srv := newTestAPI(t)
	client := NewContentClient(srv.URL, time.Second)

	_, err := client.About(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "store_error", apiErr.Code)
	assert.Equal(t, "Failed to fetch about content", apiErr.Message)
}

func TestContentClient_Submit(t *testing.T) {
	srv := newTestAPI(t)
	client := NewContentClient(srv.URL, time.Second)

	id, err := client.Submit(context.Background(), model.SubmissionInput{Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)

	_, err = client.Submit(context.Background(), model.SubmissionInput{Name: "A", Message: "hi"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Name, email, and message are required.", apiErr.Message)
}

func TestContentClient_SubmitForwardsClientIP(t *testing.T) {
	forwarded := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded <- r.Header.Get("X-Forwarded-For")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"id":"sub-1"}`))
	}))
	t.Cleanup(srv.Close)
	client := NewContentClient(srv.URL, time.Second)
	in := model.SubmissionInput{Name: "A", Email: "a@example.com", Message: "hi"}

	_, err := client.Submit(WithClientIP(context.Background(), "203.0.113.7"), in)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", <-forwarded)

	_, err = client.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, <-forwarded)
}

func TestContentClient_Unreachable(t *testing.T) {
	client := NewContentClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.Home(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestContentClient_CanceledContext(t *testing.T) {
	client := NewContentClient("http://127.0.0.1:1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Gallery(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
