package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomrelay/internal/app/storage"
	"roomrelay/internal/configs"
	"roomrelay/internal/pkg/logx"
)

// wordBucket serves one path-style bucket holding the given objects.
func wordBucket(t *testing.T, objects map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := strings.CutPrefix(r.URL.Path, "/relay-assets/")
		body, exists := objects[key]
		if !ok || !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Range", "bytes 0-"+strconv.Itoa(len(body)-1)+"/"+strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func s3Config(endpoint, key string) *configs.AppConfig {
	return &configs.AppConfig{
		ProfanityS3Key:    key,
		S3BucketName:      "relay-assets",
		S3Endpoint:        endpoint,
		S3AccessKeyID:     "test-key",
		S3SecretAccessKey: "test-secret",
	}
}

func TestLoadWordListDefaultOnly(t *testing.T) {
	logx.SetOutput(io.Discard)

	words, err := loadWordList(context.Background(), &configs.AppConfig{})
	require.NoError(t, err)

	assert.True(t, words.IsProfane("oh shit"))
	assert.False(t, words.IsProfane("fiddlesticks"))
}

func TestLoadWordListExtendsFromFileAndBucket(t *testing.T) {
	logx.SetOutput(io.Discard)

	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# local additions\nfiddlesticks\n"), 0o644))

	srv := wordBucket(t, map[string]string{"lists/extra.txt": "balderdash\nbad egg\n"})

	cfg := s3Config(srv.URL, "lists/extra.txt")
	cfg.ProfanityWordsFile = path

	words, err := loadWordList(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, words.IsProfane("oh shit"), "built-in entries are kept")
	assert.True(t, words.IsProfane("well, fiddlesticks"))
	assert.True(t, words.IsProfane("utter Balderdash!"))
	assert.True(t, words.IsProfane("what a bad egg"))
	assert.False(t, words.IsProfane("a bad day"))
}

func TestLoadWordListMissingObject(t *testing.T) {
	logx.SetOutput(io.Discard)

	srv := wordBucket(t, map[string]string{})

	_, err := loadWordList(context.Background(), s3Config(srv.URL, "lists/missing.txt"))
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLoadWordListMissingFile(t *testing.T) {
	logx.SetOutput(io.Discard)

	cfg := &configs.AppConfig{ProfanityWordsFile: filepath.Join(t.TempDir(), "nope.txt")}

	_, err := loadWordList(context.Background(), cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
