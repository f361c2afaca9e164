package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventsCollection = "events"

// EventRepository stores the event document with its embedded attendees and winners
type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection(eventsCollection),
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	if event.Attendees == nil {
		event.Attendees = []models.Attendee{}
	}
	if event.Winners == nil {
		event.Winners = []models.Winner{}
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrEventNotFound
		}
		return nil, err
	}
	if event.Winners == nil {
		event.Winners = []models.Winner{}
	}
	return &event, nil
}

// Update leaves winners, maxOrder and revision untouched
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	attendees := event.Attendees
	if attendees == nil {
		attendees = []models.Attendee{}
	}
	set := bson.M{
		"title":     event.Title,
		"status":    event.Status,
		"attendees": attendees,
		"updatedAt": event.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if event.Venue != "" {
		set["venue"] = event.Venue
	} else {
		update["$unset"] = bson.M{"venue": ""}
	}
	if !event.StartAt.IsZero() {
		set["startAt"] = event.StartAt
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	// Ensure an empty slice is returned instead of nil if no events found
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}
