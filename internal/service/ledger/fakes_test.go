package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryChalans is an in-memory chalan store with a version check on replace.
type memoryChalans struct {
	mu       sync.Mutex
	chalans  map[primitive.ObjectID]models.FeeChalan
	getErr   error
	replaces int
	// interfere runs before each replace, standing in for a concurrent writer
	interfere func(c *models.FeeChalan)
}

func newMemoryChalans(chalans ...models.FeeChalan) *memoryChalans {
	m := &memoryChalans{chalans: map[primitive.ObjectID]models.FeeChalan{}}
	for _, c := range chalans {
		m.chalans[c.ID] = c
	}
	return m
}

func (m *memoryChalans) Create(_ context.Context, chalan *models.FeeChalan) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chalans[chalan.ID] = *chalan
	return chalan.ID, nil
}

func (m *memoryChalans) GetByID(_ context.Context, id primitive.ObjectID) (*models.FeeChalan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.chalans[id]
	if !ok {
		return nil, apperr.NewNotFound("fee chalan", id.Hex())
	}
	c.PaymentHistory = append([]models.PaymentRecord(nil), c.PaymentHistory...)
	return &c, nil
}

func (m *memoryChalans) ReplaceIfVersion(_ context.Context, chalan *models.FeeChalan, expected int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	stored := m.chalans[chalan.ID]
	if m.interfere != nil {
		m.interfere(&stored)
		m.chalans[chalan.ID] = stored
	}
	if stored.Version != expected {
		return false, nil
	}
	m.chalans[chalan.ID] = *chalan
	return true, nil
}

func (m *memoryChalans) Find(context.Context, models.ChalanFilter) ([]models.FeeChalan, error) {
	return nil, errors.New("not used")
}

func (m *memoryChalans) EnsureIndexes(context.Context) error { return nil }

func (m *memoryChalans) get(id primitive.ObjectID) models.FeeChalan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chalans[id]
}

type memoryEvents struct {
	mu        sync.Mutex
	events    []models.FeePaymentEvent
	published map[primitive.ObjectID]bool
	createErr error
}

func newMemoryEvents() *memoryEvents {
	return &memoryEvents{published: map[primitive.ObjectID]bool{}}
}

func (m *memoryEvents) CreateEntry(_ context.Context, event *models.FeePaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryEvents) MarkPublished(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[id] = true
	return nil
}

func (m *memoryEvents) MarkPublishedInBulk(context.Context, []string) ([]string, error) {
	return nil, nil
}

func (m *memoryEvents) GetUnpublishedCursor(context.Context, string, int32) (*mongo.Cursor, error) {
	return nil, errors.New("not used")
}

type staticSchedules struct {
	class    *models.FeeSchedule
	standard *models.FeeSchedule
	err      error
}

func (s staticSchedules) ClassSchedule(context.Context, string) (*models.FeeSchedule, error) {
	return s.class, s.err
}

func (s staticSchedules) StandardSchedule(context.Context) (*models.FeeSchedule, error) {
	return s.standard, s.err
}

// fakeTx runs fn directly. failures are returned, one per call, before fn is invoked.
type fakeTx struct {
	calls    int
	failures []error
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}
	return fn(ctx)
}

type recordingKafka struct {
	mu   sync.Mutex
	keys []string
	msgs [][]byte
	err  error
}

func (k *recordingKafka) Publish(_ context.Context, key string, msg []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return k.err
	}
	k.keys = append(k.keys, key)
	k.msgs = append(k.msgs, msg)
	return nil
}

type recordingNotifier struct {
	topics []string
	msgs   [][]byte
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, topic string, msg []byte, _ map[string]string) error {
	if n.err != nil {
		return n.err
	}
	n.topics = append(n.topics, topic)
	n.msgs = append(n.msgs, msg)
	return nil
}
