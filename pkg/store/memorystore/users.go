package memorystore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore struct {
	mutex sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: map[primitive.ObjectID]*models.User{},
	}
}

func (s *UserStore) Insert(_ context.Context, user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return store.ErrUserExists
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	s.users[user.ID] = &stored

	return nil
}

func (s *UserStore) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	return withoutPassword(user), nil
}

func (s *UserStore) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	users := map[primitive.ObjectID]*models.User{}
	for _, id := range ids {
		if user, exists := s.users[id]; exists {
			users[id] = withoutPassword(user)
		}
	}

	return users, nil
}

func (s *UserStore) FindByLogin(_ context.Context, login string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, user := range s.users {
		if user.Username == login || user.Email == login {
			found := *user
			return &found, nil
		}
	}

	return nil, store.ErrUserNotFound
}

func (s *UserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, profile models.Profile) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	user.Profile = profile

	return withoutPassword(user), nil
}

func (s *UserStore) UpdateRole(_ context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	user.Role = role

	return withoutPassword(user), nil
}

func (s *UserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.users[id]; !exists {
		return store.ErrUserNotFound
	}
	delete(s.users, id)

	return nil
}

func (s *UserStore) Count(_ context.Context, role models.Role) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return int64(len(s.match(role))), nil
}

func (s *UserStore) Find(_ context.Context, role models.Role, opts store.FindOptions) ([]*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := s.match(role)

	if opts.Skip < 0 {
		opts.Skip = 0
	}
	if opts.Skip >= int64(len(matched)) {
		return []*models.User{}, nil
	}
	matched = matched[opts.Skip:]
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}

	users := make([]*models.User, 0, len(matched))
	for _, user := range matched {
		users = append(users, withoutPassword(user))
	}

	return users, nil
}

// match returns the users holding role (every user when role is empty),
// newest first.
func (s *UserStore) match(role models.Role) []*models.User {
	matched := []*models.User{}

	for _, user := range s.users {
		if role == "" || user.Role == role {
			matched = append(matched, user)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	return matched
}

func withoutPassword(user *models.User) *models.User {
	copied := *user
	copied.PasswordHash = ""

	return &copied
}

var _ store.UserStore = (*UserStore)(nil)

// New returns a matching pair of empty in-memory stores.
func New() store.Stores {
	return store.Stores{
		Accidents: NewAccidentStore(),
		Users:     NewUserStore(),
	}
}
