package standard_fees

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

// StandardFeesRepository reads and writes the single standard fee document.
type StandardFeesRepository struct {
	findOne func(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.StandardFees, error)
	replace func(ctx context.Context, filter interface{}, replacement interface{},
		opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

var _ interfaces.StandardFeesRepoInterface = (*StandardFeesRepository)(nil)

func NewStandardFeesRepository(client *mongodb.MongoClient) interfaces.StandardFeesRepoInterface {
	collection := client.Database.Collection(consts.StandardFeesCollection)
	repo := repository.NewMongoRepository[models.StandardFees](collection)
	return &StandardFeesRepository{
		findOne: repo.FindOne,
		replace: repo.Replace,
	}
}

// Get returns nil, nil while no standard schedule has been saved.
func (r *StandardFeesRepository) Get(ctx context.Context) (*models.StandardFees, error) {
	entry, err := r.findOne(ctx, bson.M{"_id": consts.StandardFeesDocumentID}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxDebug(ctx, "No standard fee schedule configured")
			return nil, nil
		}
		logger.CtxError(ctx, "Error finding standard fee schedule", err)
		return nil, err
	}
	return &entry, nil
}

func (r *StandardFeesRepository) Upsert(ctx context.Context, entry *models.StandardFees) error {
	entry.ID = consts.StandardFeesDocumentID
	_, err := r.replace(ctx, bson.M{"_id": consts.StandardFeesDocumentID}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		logger.CtxError(ctx, "Failed to upsert standard fee schedule", err)
		return err
	}
	logger.CtxInfo(ctx, "Upserted standard fee schedule", slog.Int64("version", entry.Version))
	return nil
}
