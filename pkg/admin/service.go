package admin

import (
	"context"
	"strings"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/events"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/reports"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/sourcegraph/conc/pool"
)

var ErrAdminRequired = models.Forbidden("Access denied. Admin privileges required.")

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

func guard(actor *models.User, capability models.Capability) error {
	if !actor.Can(capability) {
		return ErrAdminRequired
	}

	return nil
}

type Dashboard struct {
	TotalAccidents      int64              `json:"totalAccidents"`
	PendingVerification int64              `json:"pendingVerification"`
	VerifiedAccidents   int64              `json:"verifiedAccidents"`
	TotalUsers          int64              `json:"totalUsers"`
	RecentAccidents     []*models.Accident `json:"recentAccidents"`
	EmergencyAccidents  []*models.Accident `json:"emergencyAccidents"`
}

func (s *Service) Dashboard(ctx context.Context, actor *models.User) (*Dashboard, error) {
	if err := guard(actor, models.CapabilityViewAdminDashboard); err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}
	verified := true
	unverified := false

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) (err error) {
		dashboard.TotalAccidents, err = s.Accidents.Count(ctx, store.AccidentQuery{})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.PendingVerification, err = s.Accidents.Count(ctx, store.AccidentQuery{Verified: &unverified})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.VerifiedAccidents, err = s.Accidents.Count(ctx, store.AccidentQuery{Verified: &verified})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.TotalUsers, err = s.Users.Count(ctx, "")
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.RecentAccidents, err = s.Accidents.Find(ctx, store.AccidentQuery{}, store.FindOptions{Limit: 10})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.EmergencyAccidents, err = s.Accidents.Find(ctx, store.AccidentQuery{Severity: models.SeverityCritical}, store.FindOptions{Limit: 5})
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	joined := append(append([]*models.Accident{}, dashboard.RecentAccidents...), dashboard.EmergencyAccidents...)
	if err := reports.AttachReporters(ctx, s.Users, joined...); err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (s *Service) Pending(ctx context.Context, actor *models.User, page models.Page) (models.Paged[*models.Accident], error) {
	if err := guard(actor, models.CapabilityVerifyAccident); err != nil {
		return models.Paged[*models.Accident]{}, err
	}

	unverified := false
	return reports.FindPage(ctx, s.Accidents, s.Users, store.AccidentQuery{Verified: &unverified}, page)
}

func (s *Service) Verify(ctx context.Context, actor *models.User, hexID string) (*models.Accident, error) {
	if err := guard(actor, models.CapabilityVerifyAccident); err != nil {
		return nil, err
	}

	return s.setVerification(ctx, actor, hexID, models.EventTypeAccidentVerified, models.VerificationUpdate{
		IsVerified: true,
		VerifiedBy: actor.ID,
		VerifiedAt: s.Now(),
	})
}

// Reject closes a report. The reviewer and time are recorded in the same
// fields a verification uses, so whichever of the two ran last wins.
func (s *Service) Reject(ctx context.Context, actor *models.User, hexID string, reason string) (*models.Accident, error) {
	if err := guard(actor, models.CapabilityVerifyAccident); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError("reason", "Rejection reason is required")
	}

	return s.setVerification(ctx, actor, hexID, models.EventTypeAccidentRejected, models.VerificationUpdate{
		IsVerified:      false,
		VerifiedBy:      actor.ID,
		VerifiedAt:      s.Now(),
		Status:          models.StatusClosed,
		RejectionReason: reason,
	})
}

func (s *Service) setVerification(ctx context.Context, actor *models.User, hexID string, eventType models.EventType, update models.VerificationUpdate) (*models.Accident, error) {
	id, err := store.ParseID(hexID, store.ErrAccidentNotFound)
	if err != nil {
		return nil, err
	}

	accident, err := s.Accidents.SetVerification(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if err := reports.AttachReporters(ctx, s.Users, accident); err != nil {
		return nil, err
	}

	events.Send(ctx, s.Events, models.NewEvent(eventType, actor, accident))

	return accident, nil
}

func (s *Service) ListUsers(ctx context.Context, actor *models.User, role models.Role, page models.Page) (models.Paged[*models.User], error) {
	if err := guard(actor, models.CapabilityManageUsers); err != nil {
		return models.Paged[*models.User]{}, err
	}

	users, err := s.Users.Find(ctx, role, store.FindOptions{Skip: page.Skip(), Limit: page.Size})
	if err != nil {
		return models.Paged[*models.User]{}, err
	}

	total, err := s.Users.Count(ctx, role)
	if err != nil {
		return models.Paged[*models.User]{}, err
	}

	return models.NewPaged(users, page, total), nil
}

func (s *Service) UpdateRole(ctx context.Context, actor *models.User, hexID string, role models.Role) (*models.User, error) {
	if err := guard(actor, models.CapabilityManageUsers); err != nil {
		return nil, err
	}

	if !role.IsValid() {
		return nil, models.NewValidationError("role", "Invalid role")
	}

	id, err := store.ParseID(hexID, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	return s.Users.UpdateRole(ctx, id, role)
}
