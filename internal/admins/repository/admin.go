package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	adminserrors "drively/internal/admins/errors"
	"drively/pkg/config"
	"drively/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "admins"

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type mongoAdminRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAdminRepository(cfg *config.Config) AdminRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdminRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAdminRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	admin.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return adminserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var admin model.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, adminserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return &admin, nil
}
