package usercache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	rsgstore "github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Expiration = 10 * time.Minute

// UserStore reads single users through a Redis cache. Writes go straight to
// the wrapped store and drop the cached copy.
type UserStore struct {
	rsgstore.UserStore

	Cache *cache.Cache[string]
}

func New(users rsgstore.UserStore, client *redis.Client) *UserStore {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(Expiration))

	return &UserStore{
		UserStore: users,
		Cache:     cache.New[string](redisStore),
	}
}

func cacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("roadsafety/users/%s", id.Hex())
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user := s.cached(ctx, id); user != nil {
		return user, nil
	}

	user, err := s.UserStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, user)

	return user, nil
}

func (s *UserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := map[primitive.ObjectID]*models.User{}
	missing := []primitive.ObjectID{}

	for _, id := range ids {
		if user := s.cached(ctx, id); user != nil {
			users[id] = user
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return users, nil
	}

	loaded, err := s.UserStore.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, user := range loaded {
		users[id] = user
		s.remember(ctx, user)
	}

	return users, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) (*models.User, error) {
	defer s.forget(ctx, id)

	return s.UserStore.UpdateProfile(ctx, id, profile)
}

func (s *UserStore) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	defer s.forget(ctx, id)

	return s.UserStore.UpdateRole(ctx, id, role)
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer s.forget(ctx, id)

	return s.UserStore.Delete(ctx, id)
}

// cached returns nil on any miss, including a Redis failure.
func (s *UserStore) cached(ctx context.Context, id primitive.ObjectID) *models.User {
	value, err := s.Cache.Get(ctx, cacheKey(id))
	if err != nil {
		return nil
	}

	var user *models.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil
	}

	return user
}

func (s *UserStore) remember(ctx context.Context, user *models.User) {
	// The password hash is tagged json:"-" so never reaches Redis.
	userJSON, err := json.Marshal(user)
	if err != nil {
		return
	}

	if err := s.Cache.Set(ctx, cacheKey(user.ID), string(userJSON)); err != nil {
		log.Debug().Err(err).Str("user", user.ID.Hex()).Msg("Failed to cache user")
	}
}

func (s *UserStore) forget(ctx context.Context, id primitive.ObjectID) {
	if err := s.Cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Debug().Err(err).Str("user", id.Hex()).Msg("Failed to drop cached user")
	}
}

var _ rsgstore.UserStore = (*UserStore)(nil)
