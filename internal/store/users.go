package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

type UserStore struct {
	coll         *mongo.Collection
	transactions bool
}

// NewUserStore returns a user store. With transactions enabled, Create runs
// inside a multi-document transaction, which needs a replica set or mongos.
func NewUserStore(db *mongo.Database, transactions bool) *UserStore {
	return &UserStore{coll: db.Collection(UsersCollection), transactions: transactions}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now

	insert := func(ctx context.Context) error {
		_, err := s.coll.InsertOne(ctx, u)
		return err
	}

	if !s.transactions {
		return translate(insert(ctx))
	}

	sess, err := s.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, insert(sc)
	})
	return translate(err)
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Update writes the mutable profile fields of u.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        u.Name,
		"email":       u.Email,
		"password":    u.Password,
		"phoneNumber": u.PhoneNumber,
		"updatedAt":   u.UpdatedAt,
	}}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
