package analytics

import (
	"context"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/reports"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/sourcegraph/conc/pool"
)

const (
	MonthlyTrendLimit      = 12
	RecentAccidentsLimit   = 5
	HighRiskLocationsLimit = 10
)

type Aggregator struct {
	Accidents store.AccidentStore
	Users     store.UserStore
}

func NewAggregator(stores store.Stores) *Aggregator {
	return &Aggregator{
		Accidents: stores.Accidents,
		Users:     stores.Users,
	}
}

type Dashboard struct {
	TotalAccidents    int64                 `json:"totalAccidents"`
	SeverityStats     []models.GroupCount   `json:"severityStats"`
	CategoryStats     []models.GroupCount   `json:"categoryStats"`
	MonthlyTrend      []models.MonthlyCount `json:"monthlyTrend"`
	RecentAccidents   []*models.Accident    `json:"recentAccidents"`
	HighRiskLocations []models.LocationRisk `json:"highRiskLocations"`
	CasualtiesStats   models.CasualtyStats  `json:"casualtiesStats"`
}

// Dashboard computes every section over the same window concurrently. The
// first failing section cancels the rest and fails the whole call.
func (a *Aggregator) Dashboard(ctx context.Context, window models.Window) (*Dashboard, error) {
	dashboard := &Dashboard{}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) (err error) {
		dashboard.TotalAccidents, err = a.Accidents.Count(ctx, store.AccidentQuery{Window: window})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.SeverityStats, err = a.Accidents.CountBy(ctx, store.GroupBySeverity, window)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.CategoryStats, err = a.Accidents.CountBy(ctx, store.GroupByCategory, window)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.MonthlyTrend, err = a.Accidents.MonthlyTrend(ctx, window, MonthlyTrendLimit)
		return err
	})
	p.Go(func(ctx context.Context) error {
		recent, err := a.Accidents.Find(ctx, store.AccidentQuery{Window: window}, store.FindOptions{Limit: RecentAccidentsLimit})
		if err != nil {
			return err
		}
		if err := reports.AttachReporters(ctx, a.Users, recent...); err != nil {
			return err
		}

		dashboard.RecentAccidents = recent
		return nil
	})
	p.Go(func(ctx context.Context) error {
		risks, err := a.Accidents.HighRiskLocations(ctx, window, HighRiskLocationsLimit)
		if err != nil {
			return err
		}

		for i := range risks {
			risks[i].RiskLevel = models.RiskLevel(risks[i].AvgSeverity)
		}

		dashboard.HighRiskLocations = risks
		return nil
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard.CasualtiesStats, err = a.Accidents.Casualties(ctx, window)
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (a *Aggregator) Trends(ctx context.Context, period models.Period, window models.Window) ([]models.TrendBucket, error) {
	return a.Accidents.Trends(ctx, period, window)
}

func (a *Aggregator) Heatmap(ctx context.Context, window models.Window) ([]models.HeatmapPoint, error) {
	return a.Accidents.Heatmap(ctx, window)
}
