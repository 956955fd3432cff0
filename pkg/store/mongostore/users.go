package mongostore

import (
	"context"
	"errors"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/database"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(collection *mongo.Collection) *UserStore {
	return &UserStore{collection: collection}
}

var withoutPassword = bson.D{{Key: "password", Value: 0}}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	existing, err := s.collection.CountDocuments(ctx, loginFilter(user.Username, user.Email))
	if err != nil {
		return err
	}
	if existing > 0 {
		return store.ErrUserExists
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err = s.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrUserExists
	}

	return err
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user *models.User

	err := s.collection.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPassword)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}

	return user, err
}

func (s *UserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := map[primitive.ObjectID]*models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, err
	}

	var found []*models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	for _, user := range found {
		users[user.ID] = user
	}

	return users, nil
}

func (s *UserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user *models.User

	err := s.collection.FindOne(ctx, loginFilter(login, login)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}

	return user, err
}

func loginFilter(username string, email string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) (*models.User, error) {
	return s.findOneAndSet(ctx, id, bson.M{"profile": profile})
}

func (s *UserStore) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	return s.findOneAndSet(ctx, id, bson.M{"role": role})
}

func (s *UserStore) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var user *models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}

	return user, err
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

func roleFilter(role models.Role) bson.M {
	if role == "" {
		return bson.M{}
	}

	return bson.M{"role": role}
}

func (s *UserStore) Count(ctx context.Context, role models.Role) (int64, error) {
	return s.collection.CountDocuments(ctx, roleFilter(role))
}

func (s *UserStore) Find(ctx context.Context, role models.Role, opts store.FindOptions) ([]*models.User, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(opts.Skip).
		SetProjection(withoutPassword)
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := s.collection.Find(ctx, roleFilter(role), findOptions)
	if err != nil {
		return nil, err
	}

	users := []*models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

var _ store.UserStore = (*UserStore)(nil)

// New binds the stores to the collections of the global connection opened by
// database.Connect.
func New() store.Stores {
	return store.Stores{
		Accidents: NewAccidentStore(database.GetCollection(database.AccidentsCollection)),
		Users:     NewUserStore(database.GetCollection(database.UsersCollection)),
	}
}
