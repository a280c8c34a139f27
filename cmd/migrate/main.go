package main

import (
	"context"
	"time"

	adminsrepository "drively/internal/admins/repository"
	bookingsrepository "drively/internal/bookings/repository"
	catalogrepository "drively/internal/catalog/repository"
	contactrepository "drively/internal/contact/repository"
	usersrepository "drively/internal/users/repository"
	"drively/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "migrate"

type migration struct {
	collection string
	indexes    []mongo.IndexModel
}

func main() {
	cfg := config.Load(serviceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	migrations := []migration{
		{
			collection: bookingsrepository.CollectionName,
			indexes: []mongo.IndexModel{
				// Serves the overlap query: car + status + date range.
				{
					Keys: bson.D{
						{Key: "car_id", Value: 1},
						{Key: "status", Value: 1},
						{Key: "start_date", Value: 1},
						{Key: "end_date", Value: 1},
					},
					Options: options.Index().SetName("car_status_dates"),
				},
				// Serves the per-user listing, newest first.
				{
					Keys: bson.D{
						{Key: "user_id", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("user_created"),
				},
			},
		},
		{
			collection: bookingsrepository.LockCollectionName,
			indexes: []mongo.IndexModel{
				// Reaps locks left behind by crashed holders.
				{
					Keys:    bson.D{{Key: "expires_at", Value: 1}},
					Options: options.Index().SetName("lock_ttl").SetExpireAfterSeconds(0),
				},
			},
		},
		{
			collection: catalogrepository.CollectionName,
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "is_active", Value: 1},
						{Key: "category", Value: 1},
					},
					Options: options.Index().SetName("active_category"),
				},
			},
		},
		{
			collection: usersrepository.CollectionName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("email_unique").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "phone", Value: 1}},
					Options: options.Index().SetName("phone_unique").SetUnique(true),
				},
			},
		},
		{
			collection: adminsrepository.CollectionName,
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("email_unique").SetUnique(true),
				},
			},
		},
		{
			collection: contactrepository.CollectionName,
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "status", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("status_created"),
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, m := range migrations {
		names, err := db.Collection(m.collection).Indexes().CreateMany(ctx, m.indexes)
		if err != nil {
			cfg.Log.Fatal("Failed to create indexes", "collection", m.collection, "error", err)
		}
		cfg.Log.Info("Indexes ensured", "collection", m.collection, "indexes", names)
	}

	cfg.Log.Info("Migration complete")
}
