package class_fee_amounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	mongodb "github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/repository"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClassFeeAmountsRepository implements the ClassFeeAmountsRepoInterface
type ClassFeeAmountsRepository struct {
	findOne func(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.ClassFeeAmounts, error)
	find    func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ClassFeeAmounts, error)
	replace func(ctx context.Context, filter interface{}, replacement interface{},
		opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	delete func(ctx context.Context, filter interface{}) (int64, error)
}

// Ensure ClassFeeAmountsRepository implements the ClassFeeAmountsRepoInterface
var _ interfaces.ClassFeeAmountsRepoInterface = (*ClassFeeAmountsRepository)(nil)

func NewClassFeeAmountsRepository(client *mongodb.MongoClient) interfaces.ClassFeeAmountsRepoInterface {
	collection := client.Database.Collection(consts.ClassFeeAmountsCollection)
	repo := repository.NewMongoRepository[models.ClassFeeAmounts](collection)
	return &ClassFeeAmountsRepository{
		findOne: repo.FindOne,
		find:    repo.Find,
		replace: repo.Replace,
		delete:  repo.Delete,
	}
}

func (r *ClassFeeAmountsRepository) Get(ctx context.Context, classID string) (*models.ClassFeeAmounts, error) {
	entry, err := r.findOne(ctx, bson.M{"_id": classID}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxDebug(ctx, "No class fee schedule configured", slog.String("classId", classID))
			return nil, nil
		}
		logger.CtxError(ctx, "Error finding class fee schedule", err, slog.String("classId", classID))
		return nil, err
	}
	return &entry, nil
}

func (r *ClassFeeAmountsRepository) List(ctx context.Context) ([]models.ClassFeeAmounts, error) {
	entries, err := r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		logger.CtxError(ctx, "Error listing class fee schedules", err)
		return nil, err
	}
	return entries, nil
}

// Upsert replaces the whole document so that fields cleared by the caller are removed.
func (r *ClassFeeAmountsRepository) Upsert(ctx context.Context, entry *models.ClassFeeAmounts) error {
	_, err := r.replace(ctx, bson.M{"_id": entry.ClassID}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		logger.CtxError(ctx, "Failed to upsert class fee schedule", err, slog.String("classId", entry.ClassID))
		return err
	}
	logger.CtxInfo(ctx, "Upserted class fee schedule", slog.String("classId", entry.ClassID),
		slog.Int64("version", entry.Version))
	return nil
}

func (r *ClassFeeAmountsRepository) Delete(ctx context.Context, classID string) (bool, error) {
	deleted, err := r.delete(ctx, bson.M{"_id": classID})
	if err != nil {
		logger.CtxError(ctx, "Failed to delete class fee schedule", err, slog.String("classId", classID))
		return false, err
	}
	return deleted > 0, nil
}
