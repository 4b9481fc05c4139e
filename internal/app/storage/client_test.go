package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket serves HEAD and GET for objects of a single bucket, path-style.
func fakeBucket(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := strings.CutPrefix(r.URL.Path, "/"+bucket+"/")
		body, exists := objects[key]
		if !ok || !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("ETag", `"abc123"`)

		switch r.Method {
		case http.MethodHead:
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.Header().Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", len(body)-1, len(body)))
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func newTestService(t *testing.T, endpoint string) StorageService {
	t.Helper()

	svc, err := NewStorageService(context.Background(), ServiceConfig{
		S3BucketName:      "relay-assets",
		S3Endpoint:        endpoint,
		S3AccessKeyID:     "test-key",
		S3SecretAccessKey: "test-secret",
	})
	require.NoError(t, err)
	return svc
}

func TestReadObject(t *testing.T) {
	srv := fakeBucket(t, "relay-assets", map[string]string{"lists/words.txt": "heck\nfiddlesticks\n"})
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	data, err := svc.ReadObject(context.Background(), "lists/words.txt")
	require.NoError(t, err)
	assert.Equal(t, "heck\nfiddlesticks\n", string(data))

	meta, err := svc.GetObjectMetadata(context.Background(), "lists/words.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", meta["Content-Type"])
	assert.Equal(t, "18", meta["Content-Length"])
}

func TestReadObjectNotFound(t *testing.T) {
	srv := fakeBucket(t, "relay-assets", map[string]string{})
	defer srv.Close()

	_, err := newTestService(t, srv.URL).ReadObject(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestReadObjectTooLarge(t *testing.T) {
	srv := fakeBucket(t, "relay-assets", map[string]string{"big.txt": strings.Repeat("x", MaxObjectSize+1)})
	defer srv.Close()

	_, err := newTestService(t, srv.URL).ReadObject(context.Background(), "big.txt")
	assert.ErrorIs(t, err, ErrObjectTooLarge)
}
