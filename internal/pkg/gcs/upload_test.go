package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/option"
)

const testBucketName = "test-bucket"

func newFakeGCS(t *testing.T, handler http.Handler) (*storage.Client, func()) {
	server := httptest.NewServer(handler)

	client, err := storage.NewClient(
		context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("Failed to create fake GCS client: %v", err)
	}

	return client, server.Close
}

func TestGCSClientCloseNilSafe(t *testing.T) {
	gcsClient := &GCSClient{Client: nil, BucketName: testBucketName}

	assert.NotPanics(t, func() {
		gcsClient.Close(context.Background())
	})
}

func TestUploadJSONSuccess(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		switch r.Method {
		case "POST":
			w.Header().Set("Location", "/upload-session")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
		case "PUT":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
		default:
			t.Errorf("Unexpected call: %s %s", r.Method, r.URL.Path)
		}
	})

	client, closeServer := newFakeGCS(t, handler)
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}

	payload := map[string]interface{}{"defaultersCount": 2}
	err := gcsClient.UploadJSON(context.Background(), "defaulter-reports/1700000000_all.json", payload)
	assert.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.Contains(strings.Join(bodies, ""), `"defaultersCount":2`))
}

func TestUploadJSONPreconditionFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})

	client, closeServer := newFakeGCS(t, handler)
	defer closeServer()

	gcsClient := &GCSClient{Client: client, BucketName: testBucketName}

	err := gcsClient.UploadJSON(context.Background(), "defaulter-reports/1_all.json", map[string]int{"a": 1})
	assert.Error(t, err)
}

func TestUploadJSONMarshalError(t *testing.T) {
	gcsClient := &GCSClient{BucketName: testBucketName}

	err := gcsClient.UploadJSON(context.Background(), "x.json", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}
