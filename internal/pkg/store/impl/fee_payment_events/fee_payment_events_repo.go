package fee_payment_events

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	mongodb "github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/repository"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeePaymentEventsRepository implements the FeePaymentEventsRepoInterface
type FeePaymentEventsRepository struct {
	create     func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	updateOne  func(ctx context.Context, filter interface{}, update interface{}) error
	updateMany func(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	find       func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FeePaymentEvent, error)
	aggregate  func(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Ensure FeePaymentEventsRepository implements the FeePaymentEventsRepoInterface
var _ interfaces.FeePaymentEventsRepoInterface = (*FeePaymentEventsRepository)(nil)

func NewFeePaymentEventsRepository(client *mongodb.MongoClient) interfaces.FeePaymentEventsRepoInterface {
	collection := client.Database.Collection(consts.FeePaymentEventsCollection)
	repo := repository.NewMongoRepository[models.FeePaymentEvent](collection)
	return &FeePaymentEventsRepository{
		create:     repo.Create,
		updateOne:  repo.UpdateOne,
		updateMany: repo.UpdateMany,
		find:       repo.Find,
		aggregate:  repo.GetCollection().Aggregate,
	}
}

func (r *FeePaymentEventsRepository) CreateEntry(ctx context.Context, event *models.FeePaymentEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if _, err := r.create(ctx, event); err != nil {
		logger.CtxError(ctx, "Failed to create payment event", err, slog.String("chalanId", event.ChalanID.Hex()))
		return err
	}
	logger.CtxDebug(ctx, "Created payment event", slog.String("eventId", event.ID.Hex()))
	return nil
}

func (r *FeePaymentEventsRepository) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	update := bson.M{"publishedToKafka": true, "publishedAt": time.Now().UTC()}
	if err := r.updateOne(ctx, filter, update); err != nil {
		logger.CtxError(ctx, "Error marking payment event as published", err, slog.String("eventId", id.Hex()))
		return err
	}
	return nil
}

// MarkPublishedInBulk flags every id as published and returns the ids whose flag is still unset.
func (r *FeePaymentEventsRepository) MarkPublishedInBulk(ctx context.Context, ids []string) ([]string, error) {
	objectIDs := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			logger.CtxError(ctx, "Invalid payment event id", err, slog.String("eventId", id))
			return nil, err
		}
		objectIDs[i] = objectID
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}
	update := bson.M{"$set": bson.M{"publishedToKafka": true, "publishedAt": time.Now().UTC()}}

	updateResult, err := r.updateMany(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	failedIDs := []string{}
	if updateResult.MatchedCount != int64(len(objectIDs)) || updateResult.MatchedCount != updateResult.ModifiedCount {
		filterFailed := bson.M{
			"_id":              bson.M{"$in": objectIDs},
			"publishedToKafka": bson.M{"$ne": true},
		}
		failed, err := r.find(ctx, filterFailed)
		if err != nil {
			return nil, err
		}
		for i := range failed {
			failedIDs = append(failedIDs, failed[i].ID.Hex())
		}
	}
	if len(failedIDs) > 0 {
		logger.CtxInfo(ctx, "Some payment events could not be flagged as published",
			slog.Any("failedIds", failedIDs))
	}
	return failedIDs, nil
}

// GetUnpublishedCursor streams events not yet acknowledged by Kafka, created on or after since
// (YYYY-MM-DD).
func (r *FeePaymentEventsRepository) GetUnpublishedCursor(ctx context.Context, since string,
	batchSize int32) (*mongo.Cursor, error) {

	threshold, err := time.Parse(consts.DateLayout, since)
	if err != nil {
		logger.CtxError(ctx, "Invalid retry start date", err, slog.String("since", since))
		return nil, err
	}

	cursor, err := r.aggregate(ctx, unpublishedPipeline(threshold), options.Aggregate().SetBatchSize(batchSize))
	if err != nil {
		logger.CtxError(ctx, "Failed to query unpublished payment events", err)
		return nil, err
	}
	return cursor, nil
}

func unpublishedPipeline(threshold time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{
			{Key: "$match", Value: bson.D{
				{Key: "publishedToKafka", Value: false},
				{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: threshold}}},
			}},
		},
		{
			{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}},
		},
	}
}
