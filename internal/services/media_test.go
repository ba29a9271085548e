package services

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipebot-backend/internal/models"
)

func TestLocalMediaStoreSavePhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewLocalMediaStore(dir, "", "")

	handle, err := store.Save(MediaPhoto, &models.Attachment{
		ID:          "ME123",
		URL:         server.URL + "/media/ME123",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("photos", "ME123.jpg"), handle)

	body, err := os.ReadFile(filepath.Join(dir, handle))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	assert.NoError(t, store.Resolve(handle))
}

func TestLocalMediaStoreSaveVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ogg-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewLocalMediaStore(dir, "", "")

	handle, err := store.Save(MediaVoice, &models.Attachment{
		ID:          "ME456",
		URL:         server.URL + "/media/ME456",
		ContentType: "audio/ogg",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("voices", "ME456.ogg"), handle)
}

func TestLocalMediaStoreGeneratesIDWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	store := NewLocalMediaStore(t.TempDir(), "", "")

	handle, err := store.Save(MediaPhoto, &models.Attachment{URL: server.URL})
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Join("photos", ".jpg"), handle)
	assert.NoError(t, store.Resolve(handle))
}

func TestLocalMediaStoreFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := NewLocalMediaStore(t.TempDir(), "", "")

	_, err := store.Save(MediaPhoto, &models.Attachment{ID: "ME789", URL: server.URL})
	require.Error(t, err)

	var mediaErr *MediaError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, "fetch", mediaErr.Op)
}

func TestLocalMediaStoreAttachesBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte("x"))
	}))
	defer server.Close()

	store := NewLocalMediaStore(t.TempDir(), "ACxxxx", "secret")

	_, err := store.Save(MediaPhoto, &models.Attachment{ID: "ME001", URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "ACxxxx", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestLocalMediaStoreResolveMissing(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir(), "", "")

	err := store.Resolve("photos/nope.jpg")
	require.Error(t, err)

	var mediaErr *MediaError
	assert.ErrorAs(t, err, &mediaErr)
}
