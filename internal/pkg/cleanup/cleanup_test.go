package cleanup

import (
	"context"
	"errors"
	"net/http"
	"testing"

	redispkg "github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/redis"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

type mockScheduler struct {
	stopped bool
}

func (m *mockScheduler) Stop() context.Context {
	m.stopped = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

type mockUploader struct {
	closed bool
}

func (m *mockUploader) UploadJSON(context.Context, string, interface{}) error { return nil }

func (m *mockUploader) Close(context.Context) { m.closed = true }

func TestCleanupResources_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		CleanupResources(context.Background(), Resources{})
	})
}

func TestCleanupResources_ClosesEverything(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := &redispkg.RedisClient{Client: redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})}

	kafka := &mockCloser{}
	pubsub := &mockCloser{err: errors.New("close failed")}
	scheduler := &mockScheduler{}
	uploader := &mockUploader{}
	tracerStopped := false

	CleanupResources(context.Background(), Resources{
		Scheduler:       scheduler,
		Server:          &http.Server{Addr: ":0"},
		KafkaProducer:   kafka,
		PubSubPublisher: pubsub,
		RedisClient:     redisClient,
		GCSClient:       uploader,
		TracerShutdown: func(context.Context) error {
			tracerStopped = true
			return nil
		},
	})

	assert.True(t, scheduler.stopped)
	assert.True(t, kafka.closed)
	assert.True(t, pubsub.closed)
	assert.True(t, uploader.closed)
	assert.True(t, tracerStopped)
	assert.Error(t, redisClient.Client.Ping(context.Background()).Err())
}

func TestCleanupResources_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() {
		CleanupResources(ctx, Resources{
			Server:         &http.Server{Addr: ":0"},
			TracerShutdown: func(context.Context) error { return errors.New("boom") },
		})
	})
}
