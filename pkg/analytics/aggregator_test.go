package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/memorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(value float64) *float64 {
	return &value
}

func seed(t *testing.T, stores store.Stores, accidents ...models.Accident) {
	t.Helper()

	reporter := &models.User{Username: "reporter", Email: "reporter@example.com"}
	require.NoError(t, stores.Users.Insert(context.Background(), reporter))

	for _, accident := range accidents {
		accident.ReportedByID = reporter.ID
		if accident.Category == "" {
			accident.Category = models.CategoryOther
		}
		require.NoError(t, stores.Accidents.Insert(context.Background(), &accident))
	}
}

func TestDashboardEmpty(t *testing.T) {
	aggregator := NewAggregator(memorystore.New())

	dashboard, err := aggregator.Dashboard(context.Background(), models.Window{})
	require.NoError(t, err)

	assert.Zero(t, dashboard.TotalAccidents)
	assert.Empty(t, dashboard.SeverityStats)
	assert.Empty(t, dashboard.MonthlyTrend)
	assert.Empty(t, dashboard.HighRiskLocations)
	assert.Equal(t, models.CasualtyStats{}, dashboard.CasualtiesStats)
}

func TestDashboard(t *testing.T) {
	stores := memorystore.New()
	bridge := &models.Coordinates{Latitude: float(51.5), Longitude: float(-0.12)}

	seed(t, stores,
		models.Accident{Location: "Bridge", Coordinates: bridge, Severity: models.SeverityHigh, Category: models.CategoryDrunkDriving, Casualties: models.Casualties{Injuries: 2}, DateTime: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		models.Accident{Location: "Bridge", Coordinates: bridge, Severity: models.SeverityHigh, Casualties: models.Casualties{Fatalities: 1}, DateTime: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		models.Accident{Location: "Bridge", Coordinates: bridge, Severity: models.SeverityCritical, DateTime: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		models.Accident{Location: "Field", Severity: models.SeverityLow, Casualties: models.Casualties{Injuries: 9}, DateTime: time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)},
	)

	aggregator := NewAggregator(stores)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dashboard, err := aggregator.Dashboard(context.Background(), models.Window{Start: &start})
	require.NoError(t, err)

	assert.Equal(t, int64(3), dashboard.TotalAccidents)
	assert.Equal(t, []models.GroupCount{{ID: "High", Count: 2}, {ID: "Critical", Count: 1}}, dashboard.SeverityStats)
	assert.Len(t, dashboard.MonthlyTrend, 3)
	assert.Len(t, dashboard.RecentAccidents, 3)
	assert.Equal(t, "reporter", dashboard.RecentAccidents[0].ReportedBy.Username)

	require.Len(t, dashboard.HighRiskLocations, 1)
	risk := dashboard.HighRiskLocations[0]
	assert.InDelta(t, 3.333, risk.AvgSeverity, 0.001)
	assert.Equal(t, models.SeverityHigh, risk.RiskLevel)

	assert.Equal(t, int64(1), dashboard.CasualtiesStats.TotalFatalities)
	assert.Equal(t, int64(2), dashboard.CasualtiesStats.TotalInjuries)
	assert.InDelta(t, 0.667, dashboard.CasualtiesStats.AvgInjuries, 0.001)
}

type failingStore struct {
	*memorystore.AccidentStore
}

func (failingStore) Casualties(context.Context, models.Window) (models.CasualtyStats, error) {
	return models.CasualtyStats{}, errors.New("connection reset")
}

func TestDashboardFailsWhole(t *testing.T) {
	stores := memorystore.New()
	aggregator := &Aggregator{
		Accidents: failingStore{memorystore.NewAccidentStore()},
		Users:     stores.Users,
	}

	dashboard, err := aggregator.Dashboard(context.Background(), models.Window{})
	assert.EqualError(t, err, "connection reset")
	assert.Nil(t, dashboard)
}

func TestTrendsAndHeatmap(t *testing.T) {
	stores := memorystore.New()
	seed(t, stores,
		models.Accident{Title: "A", Severity: models.SeverityLow, Coordinates: &models.Coordinates{Latitude: float(1), Longitude: float(1)}, DateTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		models.Accident{Title: "B", Severity: models.SeverityLow, DateTime: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
	)
	aggregator := NewAggregator(stores)

	trends, err := aggregator.Trends(context.Background(), models.ParsePeriod("bogus"), models.Window{})
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, int64(2), trends[0].Count)

	points, err := aggregator.Heatmap(context.Background(), models.Window{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "A", points[0].Title)
}
