package interfaces

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeeChalansRepoInterface interface {
	Create(ctx context.Context, chalan *models.FeeChalan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FeeChalan, error)
	// ReplaceIfVersion writes chalan only when the stored version still equals expectedVersion.
	ReplaceIfVersion(ctx context.Context, chalan *models.FeeChalan, expectedVersion int64) (bool, error)
	Find(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error)
	EnsureIndexes(ctx context.Context) error
}

// ChalanGenerationInProgressRepoInterface guards concurrent generation for one student.
type ChalanGenerationInProgressRepoInterface interface {
	CreateEntry(ctx context.Context, studentID string) error
	DeleteEntry(ctx context.Context, studentID string) error
}
