package interfaces

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FeePaymentEventsRepoInterface interface {
	CreateEntry(ctx context.Context, event *models.FeePaymentEvent) error
	MarkPublished(ctx context.Context, id primitive.ObjectID) error
	MarkPublishedInBulk(ctx context.Context, ids []string) ([]string, error)
	GetUnpublishedCursor(ctx context.Context, since string, batchSize int32) (*mongo.Cursor, error)
}
