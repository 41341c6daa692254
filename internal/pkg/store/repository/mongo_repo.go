package repository

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	collection interfaces.MongoRepositoryInterface
}

func NewMongoRepository[T any](collection interfaces.MongoRepositoryInterface) *MongoRepository[T] {
	return &MongoRepository[T]{collection: collection}
}

// GetCollection exposes the underlying collection for aggregation cursors and index management.
func (r *MongoRepository[T]) GetCollection() interfaces.MongoRepositoryInterface {
	return r.collection
}

func (r *MongoRepository[T]) Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {

	if result, err := r.collection.InsertOne(ctx, document); err != nil {
		return nil, err
	} else {
		return result, nil
	}

}

// FindOne decodes the first document matching filter
func (r *MongoRepository[T]) FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (T, error) {

	var result T

	var findOpts []*options.FindOneOptions
	if opt != nil {
		findOpts = append(findOpts, opt)
	}

	if err := r.collection.FindOne(ctx, filter, findOpts...).Decode(&result); err != nil {
		return result, err
	}

	return result, nil

}

// UpdateOne applies update as a $set on the first match
func (r *MongoRepository[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {

	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": update}); err != nil {
		return err
	}
	return nil

}

// Replace swaps the whole matching document
func (r *MongoRepository[T]) Replace(
	ctx context.Context,
	filter interface{},
	replacement interface{},
	opts ...*options.ReplaceOptions,
) (*mongo.UpdateResult, error) {

	if result, err := r.collection.ReplaceOne(ctx, filter, replacement, opts...); err != nil {
		return nil, err
	} else {
		return result, nil
	}

}

func (r *MongoRepository[T]) Delete(ctx context.Context, filter interface{}) (int64, error) {

	if deleteResult, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return 0, err
	} else {
		return deleteResult.DeletedCount, nil
	}
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {

	if cursor, err := r.collection.Find(ctx, filter, opts...); err != nil {
		return nil, err
	} else {
		defer func() {
			_ = cursor.Close(ctx)
		}()

		results := []T{}
		for cursor.Next(ctx) {
			var entity T
			if err := cursor.Decode(&entity); err != nil {
				return nil, err
			}
			results = append(results, entity)
		}
		return results, cursor.Err()
	}
}

// UpdateMany applies a raw update document to every match
func (r *MongoRepository[T]) UpdateMany(
	ctx context.Context,
	filter interface{},
	update interface{},
) (*mongo.UpdateResult, error) {

	if result, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return nil, err
	} else {
		return result, nil
	}
}
