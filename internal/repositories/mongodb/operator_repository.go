package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure operatorRepository implements repositories.OperatorRepository
var _ repositories.OperatorRepository = (*operatorRepository)(nil)

type operatorRepository struct {
	collection *mongo.Collection
}

// NewOperatorRepository creates a new repository for control-panel operators
func NewOperatorRepository(db *mongo.Database) repositories.OperatorRepository {
	return &operatorRepository{
		collection: db.Collection("operators"),
	}
}

// Create inserts a new operator
func (r *operatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	if operator.ID == "" {
		operator.ID = primitive.NewObjectID().Hex()
	}
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, operator)
	return err
}

// FindByEmail finds an operator by their email address
func (r *operatorRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&operator)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrOperatorNotFound
		}
		return nil, err
	}
	return &operator, nil
}
