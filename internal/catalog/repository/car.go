package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "drively/internal/catalog/errors"
	"drively/pkg/config"
	"drively/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "cars"

type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id string) (*model.Car, error)
	FindActiveByID(ctx context.Context, id string) (*model.Car, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Car, error)
	FindActive(ctx context.Context, query *model.CarQuery) ([]*model.Car, error)
	FindAll(ctx context.Context) ([]*model.Car, error)
	Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id string) error
}

type mongoCarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCarRepository(cfg *config.Config) CarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCarRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCarRepository) Create(ctx context.Context, car *model.Car) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	car.CreatedAt = now
	car.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, car)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		car.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCarRepository) FindByID(ctx context.Context, id string) (*model.Car, error) {
	return r.findOne(ctx, id, bson.M{})
}

// FindActiveByID resolves a car only if it is active; inactive and
// missing cars are indistinguishable to callers.
func (r *mongoCarRepository) FindActiveByID(ctx context.Context, id string) (*model.Car, error) {
	return r.findOne(ctx, id, bson.M{"is_active": true})
}

func (r *mongoCarRepository) findOne(ctx context.Context, id string, extra bson.M) (*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	for k, v := range extra {
		filter[k] = v
	}

	var car model.Car
	err = r.collection.FindOne(ctx, filter).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}

	return &car, nil
}

func (r *mongoCarRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			// Skip malformed references instead of failing the join.
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*model.Car
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *mongoCarRepository) FindActive(ctx context.Context, query *model.CarQuery) ([]*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"is_active": true}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": query.MinRating}
	}

	opts := options.Find().SetSort(sortSpec(query.SortBy))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*model.Car
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func sortSpec(sortBy string) bson.D {
	switch sortBy {
	case model.SortPriceAsc:
		return bson.D{{Key: "price_per_day", Value: 1}}
	case model.SortPriceDesc:
		return bson.D{{Key: "price_per_day", Value: -1}}
	case model.SortRating:
		return bson.D{{Key: "rating", Value: -1}}
	case model.SortNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		// Featured cars first, best rated within each group.
		return bson.D{{Key: "is_featured", Value: -1}, {Key: "rating", Value: -1}}
	}
}

func (r *mongoCarRepository) FindAll(ctx context.Context) ([]*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*model.Car
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *mongoCarRepository) Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	set := updateFields(update)
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var car model.Car
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	return &car, nil
}

func updateFields(update *model.CarUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.PricePerDay != nil {
		set["price_per_day"] = *update.PricePerDay
	}
	if update.Transmission != nil {
		set["transmission"] = *update.Transmission
	}
	if update.FuelType != nil {
		set["fuel_type"] = *update.FuelType
	}
	if update.Seats != nil {
		set["seats"] = *update.Seats
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.ReviewsCount != nil {
		set["reviews_count"] = *update.ReviewsCount
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
	}
	if update.IsFeatured != nil {
		set["is_featured"] = *update.IsFeatured
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	return set
}

func (r *mongoCarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}
