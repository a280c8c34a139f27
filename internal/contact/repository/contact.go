package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	contacterrors "drively/internal/contact/errors"
	"drively/pkg/config"
	"drively/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "contact_messages"

type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	FindByID(ctx context.Context, id string) (*model.ContactMessage, error)
	FindAll(ctx context.Context) ([]*model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type mongoContactRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContactRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoContactRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	msg.CreatedAt = now
	msg.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid.Hex()
	}
	return nil
}

func (r *mongoContactRepository) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contacterrors.ErrInvalidID, id)
	}

	var msg model.ContactMessage
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contacterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact message: %w", err)
	}

	return &msg, nil
}

func (r *mongoContactRepository) FindAll(ctx context.Context) ([]*model.ContactMessage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.ContactMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode contact messages: %w", err)
	}
	return messages, nil
}

func (r *mongoContactRepository) UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contacterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg model.ContactMessage
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contacterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}

	return &msg, nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", contacterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	if result.DeletedCount == 0 {
		return contacterrors.ErrNotFound
	}
	return nil
}
