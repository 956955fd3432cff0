package store

import (
	"context"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccidentQuery narrows a listing. Zero values leave a criterion out; the
// criteria that are set all have to match.
type AccidentQuery struct {
	Severity models.Severity
	Category models.Category
	Status   models.Status
	Location string
	Window   models.Window
	Verified *bool
}

type FindOptions struct {
	Skip  int64
	Limit int64
}

// GroupField is a report attribute the aggregator can group counts by.
type GroupField string

const (
	GroupBySeverity GroupField = "severity"
	GroupByCategory GroupField = "category"
)

// AccidentStore persists accident reports and answers the grouping queries
// the analytics run. Listings are ordered by dateTime, newest first.
type AccidentStore interface {
	Insert(ctx context.Context, accident *models.Accident) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Accident, error)
	Update(ctx context.Context, accident *models.Accident) error
	SetVerification(ctx context.Context, id primitive.ObjectID, update models.VerificationUpdate) (*models.Accident, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	Count(ctx context.Context, query AccidentQuery) (int64, error)
	Find(ctx context.Context, query AccidentQuery, opts FindOptions) ([]*models.Accident, error)

	CountBy(ctx context.Context, field GroupField, window models.Window) ([]models.GroupCount, error)
	MonthlyTrend(ctx context.Context, window models.Window, limit int) ([]models.MonthlyCount, error)
	HighRiskLocations(ctx context.Context, window models.Window, limit int) ([]models.LocationRisk, error)
	Casualties(ctx context.Context, window models.Window) (models.CasualtyStats, error)
	Trends(ctx context.Context, period models.Period, window models.Window) ([]models.TrendBucket, error)
	Heatmap(ctx context.Context, window models.Window) ([]models.HeatmapPoint, error)
}

// UserStore persists accounts. Every read except FindByLogin strips the
// password hash.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) (*models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	Count(ctx context.Context, role models.Role) (int64, error)
	Find(ctx context.Context, role models.Role, opts FindOptions) ([]*models.User, error)
}

// Stores bundles the two collections a running service works against.
type Stores struct {
	Accidents AccidentStore
	Users     UserStore
}

// ParseID reads a hex object id. Malformed ids cannot match a record, so they
// are reported with the caller's not found error.
func ParseID(hex string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound
	}

	return id, nil
}
