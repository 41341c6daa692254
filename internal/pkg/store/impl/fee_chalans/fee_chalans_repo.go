package fee_chalans

import (
	"context"
	"errors"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	mongodb "github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/repository"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const chalanResource = "fee chalan"

// FeeChalansRepository implements the FeeChalansRepoInterface
type FeeChalansRepository struct {
	create  func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	findOne func(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.FeeChalan, error)
	replace func(ctx context.Context, filter interface{}, replacement interface{},
		opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	find          func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FeeChalan, error)
	createIndexes func(ctx context.Context, models []mongo.IndexModel) error
}

// Ensure FeeChalansRepository implements the FeeChalansRepoInterface
var _ interfaces.FeeChalansRepoInterface = (*FeeChalansRepository)(nil)

func NewFeeChalansRepository(client *mongodb.MongoClient) interfaces.FeeChalansRepoInterface {
	collection := client.Database.Collection(consts.FeeChalansCollection)
	repo := repository.NewMongoRepository[models.FeeChalan](collection)
	return &FeeChalansRepository{
		create:  repo.Create,
		findOne: repo.FindOne,
		replace: repo.Replace,
		find:    repo.Find,
		createIndexes: func(ctx context.Context, indexModels []mongo.IndexModel) error {
			_, err := collection.Indexes().CreateMany(ctx, indexModels)
			return err
		},
	}
}

func (r *FeeChalansRepository) Create(ctx context.Context, chalan *models.FeeChalan) (primitive.ObjectID, error) {
	if chalan.ID.IsZero() {
		chalan.ID = primitive.NewObjectID()
	}
	if _, err := r.create(ctx, chalan); err != nil {
		logger.CtxError(ctx, log_messages.ChalanCreateFailed, err,
			slog.String("studentId", chalan.StudentID), slog.String("chalanNumber", chalan.ChalanNumber))
		return primitive.NilObjectID, err
	}
	logger.CtxInfo(ctx, log_messages.ChalanCreated, slog.String("chalanId", chalan.ID.Hex()),
		slog.String("chalanNumber", chalan.ChalanNumber))
	return chalan.ID, nil
}

func (r *FeeChalansRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FeeChalan, error) {
	chalan, err := r.findOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NewNotFound(chalanResource, id.Hex())
		}
		logger.CtxError(ctx, "Error finding fee chalan", err, slog.String("chalanId", id.Hex()))
		return nil, err
	}
	return &chalan, nil
}

// ReplaceIfVersion reports false when another writer has moved the version on since the read.
func (r *FeeChalansRepository) ReplaceIfVersion(ctx context.Context, chalan *models.FeeChalan,
	expectedVersion int64) (bool, error) {
	filter := bson.M{"_id": chalan.ID, "version": expectedVersion}
	result, err := r.replace(ctx, filter, chalan)
	if err != nil {
		logger.CtxError(ctx, "Failed to replace fee chalan", err, slog.String("chalanId", chalan.ID.Hex()))
		return false, err
	}
	if result.MatchedCount == 0 {
		logger.CtxWarn(ctx, "Fee chalan version moved on before write",
			slog.String("chalanId", chalan.ID.Hex()), slog.Int64("expectedVersion", expectedVersion))
		return false, nil
	}
	return true, nil
}

func (r *FeeChalansRepository) Find(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	chalans, err := r.find(ctx, buildFilter(filter), opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing fee chalans", err)
		return nil, err
	}
	return chalans, nil
}

func buildFilter(filter models.ChalanFilter) bson.M {
	query := bson.M{}
	if filter.StudentID != "" {
		query["studentId"] = filter.StudentID
	}
	if filter.ClassID != "" {
		query["classId"] = filter.ClassID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AcademicYear != "" {
		query["academicYear"] = filter.AcademicYear
	}
	return query
}

func (r *FeeChalansRepository) EnsureIndexes(ctx context.Context) error {
	if err := r.createIndexes(ctx, chalanIndexes()); err != nil {
		logger.CtxError(ctx, "Failed to create fee chalan indexes", err)
		return err
	}
	logger.CtxInfo(ctx, log_messages.IndexesEnsured, slog.String("collection", consts.FeeChalansCollection))
	return nil
}

func chalanIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chalanNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "classId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}
