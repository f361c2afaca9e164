package mongodb

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository implements the repositories.NotificationRepository interface
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) repositories.NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("draw_notifications"),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.DrawNotification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// FindByEventID returns the newest notifications of an event first
func (r *NotificationRepository) FindByEventID(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}) // Sort by creation date descending
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []*models.DrawNotification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*models.DrawNotification{}
	}
	return notifications, nil
}
