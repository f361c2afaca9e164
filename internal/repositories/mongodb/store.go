package mongodb

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewStore wires every repository onto one database
func NewStore(db *mongo.Database) repositories.Store {
	return repositories.Store{
		Events:        NewEventRepository(db),
		Prizes:        NewPrizeRepository(db),
		Draws:         NewDrawRepository(db),
		Notifications: NewNotificationRepository(db),
		Operators:     NewOperatorRepository(db),
	}
}

// EnsureIndexes creates the indexes the queries rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(prizesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return err
	}
	if _, err := db.Collection("draw_notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := db.Collection("operators").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}
