package chalan_generation_in_progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	mongodb "github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/repository"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChalanGenerationInProgressRepository implements the ChalanGenerationInProgressRepoInterface
type ChalanGenerationInProgressRepository struct {
	create        func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	delete        func(ctx context.Context, filter interface{}) (int64, error)
	createIndexes func(ctx context.Context, models []mongo.IndexModel) error
	dropIndex     func(ctx context.Context, name string) error
	ttl           time.Duration
	now           func() time.Time
}

// Ensure ChalanGenerationInProgressRepository implements the ChalanGenerationInProgressRepoInterface
var _ interfaces.ChalanGenerationInProgressRepoInterface = (*ChalanGenerationInProgressRepository)(nil)

// NewChalanGenerationInProgressRepository builds the marker store. Markers older than ttl are
// expired by the TTL index and may be taken over by the next request for the same student.
func NewChalanGenerationInProgressRepository(
	client *mongodb.MongoClient, ttl time.Duration) interfaces.ChalanGenerationInProgressRepoInterface {
	collection := client.Database.Collection(consts.ChalanGenerationInProgressCollection)
	repo := repository.NewMongoRepository[models.ChalanGenerationInProgress](collection)
	return &ChalanGenerationInProgressRepository{
		create: repo.Create,
		delete: repo.Delete,
		createIndexes: func(ctx context.Context, indexModels []mongo.IndexModel) error {
			_, err := collection.Indexes().CreateMany(ctx, indexModels)
			return err
		},
		dropIndex: func(ctx context.Context, name string) error {
			_, err := collection.Indexes().DropOne(ctx, name)
			return err
		},
		ttl: ttl,
		now: time.Now,
	}
}

// CreateEntry returns apperr.ErrGenerationInProgress when the student already has a live entry.
func (r *ChalanGenerationInProgressRepository) CreateEntry(ctx context.Context, studentID string) error {
	err := r.insert(ctx, studentID)
	if mongo.IsDuplicateKeyError(err) {
		taken, takeErr := r.takeOverStale(ctx, studentID)
		if takeErr != nil {
			return takeErr
		}
		if !taken {
			return apperr.ErrGenerationInProgress
		}
		err = r.insert(ctx, studentID)
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrGenerationInProgress
		}
	}
	if err != nil {
		logger.CtxError(ctx, "Failed to create chalan generation entry", err, slog.String("studentId", studentID))
		return err
	}
	logger.CtxDebug(ctx, "Created chalan generation entry", slog.String("studentId", studentID))
	return nil
}

func (r *ChalanGenerationInProgressRepository) insert(ctx context.Context, studentID string) error {
	entry := models.ChalanGenerationInProgress{
		StudentID: studentID,
		TraceID:   logger.GetTraceID(ctx),
		CreatedAt: r.now().UTC(),
	}
	_, err := r.create(ctx, entry)
	return err
}

// takeOverStale removes the student's entry when it was created more than ttl ago. The TTL
// monitor only runs once a minute, so an expired entry can outlive its ttl.
func (r *ChalanGenerationInProgressRepository) takeOverStale(ctx context.Context, studentID string) (bool, error) {
	if r.ttl <= 0 {
		return false, nil
	}
	cutoff := r.now().UTC().Add(-r.ttl)
	deleted, err := r.delete(ctx, bson.M{"_id": studentID, "createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		logger.CtxError(ctx, "Failed to remove stale chalan generation entry", err, slog.String("studentId", studentID))
		return false, err
	}
	if deleted == 0 {
		return false, nil
	}
	logger.CtxWarn(ctx, log_messages.ChalanGenerationMarkerStale,
		slog.String("studentId", studentID), slog.Duration("ttl", r.ttl))
	return true, nil
}

func (r *ChalanGenerationInProgressRepository) DeleteEntry(ctx context.Context, studentID string) error {
	_, err := r.delete(ctx, bson.M{"_id": studentID})
	if err != nil {
		logger.CtxError(ctx, "Failed to delete chalan generation entry", err, slog.String("studentId", studentID))
		return err
	}
	logger.CtxDebug(ctx, "Deleted chalan generation entry", slog.String("studentId", studentID))
	return nil
}

// EnsureIndexes creates the TTL index on createdAt. An existing index built with a different
// expiry is dropped and rebuilt.
func (r *ChalanGenerationInProgressRepository) EnsureIndexes(ctx context.Context) error {
	if r.ttl <= 0 {
		return nil
	}
	indexModels := []mongo.IndexModel{ttlIndex(r.ttl)}
	err := r.createIndexes(ctx, indexModels)
	if isIndexConflict(err) {
		if err = r.dropIndex(ctx, consts.GenerationMarkerTTLIndex); err == nil {
			err = r.createIndexes(ctx, indexModels)
		}
		if err == nil {
			logger.CtxInfo(ctx, log_messages.ChalanGenerationTTLReplaced, slog.Duration("ttl", r.ttl))
		}
	}
	if err != nil {
		logger.CtxError(ctx, "Failed to create chalan generation TTL index", err)
		return err
	}
	logger.CtxInfo(ctx, log_messages.IndexesEnsured,
		slog.String("collection", consts.ChalanGenerationInProgressCollection), slog.Duration("ttl", r.ttl))
	return nil
}

func ttlIndex(ttl time.Duration) mongo.IndexModel {
	seconds := int32(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().
			SetName(consts.GenerationMarkerTTLIndex).
			SetExpireAfterSeconds(seconds),
	}
}

func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return cmdErr.Code == consts.IndexOptionsConflictErrorCode || cmdErr.Code == consts.IndexKeySpecsConflictErrorCode
}
