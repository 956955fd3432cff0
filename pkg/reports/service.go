package reports

import (
	"context"
	"time"

	"github.com/jinzhu/copier"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/events"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultRecentLimit = 5

type Service struct {
	Accidents store.AccidentStore
	Users     store.UserStore
	Events    events.Publisher

	Now func() time.Time
}

func NewService(stores store.Stores, publisher events.Publisher) *Service {
	return &Service{
		Accidents: stores.Accidents,
		Users:     stores.Users,
		Events:    publisher,
		Now:       time.Now,
	}
}

// Create stores a new report submitted by actor. Verification state and
// ownership are always set here, whatever the payload carried.
func (s *Service) Create(ctx context.Context, actor *models.User, accident *models.Accident) (*models.Accident, error) {
	now := s.Now()

	accident.ID = primitive.NilObjectID
	accident.ReportedByID = actor.ID
	accident.Status = models.StatusReported
	accident.IsVerified = false
	accident.VerifiedBy = nil
	accident.VerifiedAt = nil
	accident.RejectionReason = ""
	accident.CreatedAt = now
	accident.UpdatedAt = now
	accident.Normalise(now)

	if err := models.Validate(accident); err != nil {
		return nil, err
	}

	if err := s.Accidents.Insert(ctx, accident); err != nil {
		return nil, err
	}

	if err := AttachReporters(ctx, s.Users, accident); err != nil {
		return nil, err
	}

	events.Send(ctx, s.Events, models.NewEvent(models.EventTypeAccidentCreated, actor, accident))

	return accident, nil
}

func (s *Service) List(ctx context.Context, query store.AccidentQuery, page models.Page) (models.Paged[*models.Accident], error) {
	return FindPage(ctx, s.Accidents, s.Users, query, page)
}

func (s *Service) Recent(ctx context.Context, limit int64) ([]*models.Accident, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, models.MaxPageSize)

	accidents, err := s.Accidents.Find(ctx, store.AccidentQuery{}, store.FindOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	if err := AttachReporters(ctx, s.Users, accidents...); err != nil {
		return nil, err
	}

	return accidents, nil
}

func (s *Service) Get(ctx context.Context, hexID string) (*models.Accident, error) {
	id, err := store.ParseID(hexID, store.ErrAccidentNotFound)
	if err != nil {
		return nil, err
	}

	accident, err := s.Accidents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := AttachReporters(ctx, s.Users, accident); err != nil {
		return nil, err
	}

	return accident, nil
}

// Update merges the supplied fields onto a stored report. Only the reporter
// and users allowed to edit any report may do so, and the merged report has
// to pass the same validation as a new one.
func (s *Service) Update(ctx context.Context, actor *models.User, hexID string, patch *models.AccidentPatch) (*models.Accident, error) {
	id, err := store.ParseID(hexID, store.ErrAccidentNotFound)
	if err != nil {
		return nil, err
	}

	accident, err := s.Accidents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanModifyAccident(accident) {
		return nil, models.Forbidden("Not authorized to update this report")
	}

	if err := copier.CopyWithOption(accident, patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, err
	}

	now := s.Now()
	accident.Normalise(now)
	accident.UpdatedAt = now

	if err := models.Validate(accident); err != nil {
		return nil, err
	}

	if err := s.Accidents.Update(ctx, accident); err != nil {
		return nil, err
	}

	if err := AttachReporters(ctx, s.Users, accident); err != nil {
		return nil, err
	}

	events.Send(ctx, s.Events, models.NewEvent(models.EventTypeAccidentUpdated, actor, accident))

	return accident, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.User, hexID string) error {
	if !actor.Can(models.CapabilityDeleteAccident) {
		return models.Forbidden("Not authorized to delete reports")
	}

	id, err := store.ParseID(hexID, store.ErrAccidentNotFound)
	if err != nil {
		return err
	}

	accident, err := s.Accidents.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Accidents.Delete(ctx, id); err != nil {
		return err
	}

	events.Send(ctx, s.Events, models.NewEvent(models.EventTypeAccidentDeleted, actor, accident))

	return nil
}
