package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DrawRepository writes draw outcomes across the events and prizes
// collections inside one multi-document transaction. Requires a replica set.
type DrawRepository struct {
	client *mongo.Client
	events *mongo.Collection
	prizes *mongo.Collection
}

func NewDrawRepository(db *mongo.Database) repositories.DrawRepository {
	return &DrawRepository{
		client: db.Client(),
		events: db.Collection(eventsCollection),
		prizes: db.Collection(prizesCollection),
	}
}

func (r *DrawRepository) SaveDraw(ctx context.Context, event *models.Event, prizes []*models.Prize) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	winners := event.Winners
	if winners == nil {
		winners = []models.Winner{}
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		res, err := r.events.UpdateOne(sc,
			bson.M{"_id": event.ID, "revision": event.Revision},
			bson.M{
				"$set": bson.M{
					"winners":   winners,
					"maxOrder":  event.MaxOrder,
					"updatedAt": now,
				},
				"$inc": bson.M{"revision": 1},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			n, err := r.events.CountDocuments(sc, bson.M{"_id": event.ID})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, models.ErrEventNotFound
			}
			return nil, models.ErrStaleDraw
		}

		for _, p := range prizes {
			res, err := r.prizes.UpdateOne(sc,
				bson.M{"_id": p.ID, "eventId": event.ID},
				bson.M{"$set": bson.M{"stock": p.Stock, "updatedAt": now}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, fmt.Errorf("%w: %s", models.ErrPrizeNotFound, p.ID)
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	event.Revision++
	return nil
}
