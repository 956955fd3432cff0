package memorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccidentStore keeps reports in memory and answers the grouping queries with
// a single pass over the matching records.
type AccidentStore struct {
	mutex     sync.RWMutex
	accidents map[primitive.ObjectID]*models.Accident
}

func NewAccidentStore() *AccidentStore {
	return &AccidentStore{
		accidents: map[primitive.ObjectID]*models.Accident{},
	}
}

func (s *AccidentStore) Insert(_ context.Context, accident *models.Accident) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if accident.ID.IsZero() {
		accident.ID = primitive.NewObjectID()
	}
	s.accidents[accident.ID] = cloneAccident(accident)

	return nil
}

func (s *AccidentStore) Get(_ context.Context, id primitive.ObjectID) (*models.Accident, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	accident, exists := s.accidents[id]
	if !exists {
		return nil, store.ErrAccidentNotFound
	}

	return cloneAccident(accident), nil
}

func (s *AccidentStore) Update(_ context.Context, accident *models.Accident) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.accidents[accident.ID]; !exists {
		return store.ErrAccidentNotFound
	}
	s.accidents[accident.ID] = cloneAccident(accident)

	return nil
}

func (s *AccidentStore) SetVerification(_ context.Context, id primitive.ObjectID, update models.VerificationUpdate) (*models.Accident, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	accident, exists := s.accidents[id]
	if !exists {
		return nil, store.ErrAccidentNotFound
	}
	update.Apply(accident)

	return cloneAccident(accident), nil
}

func (s *AccidentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.accidents[id]; !exists {
		return store.ErrAccidentNotFound
	}
	delete(s.accidents, id)

	return nil
}

func (s *AccidentStore) Count(_ context.Context, query store.AccidentQuery) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return int64(len(s.match(query))), nil
}

func (s *AccidentStore) Find(_ context.Context, query store.AccidentQuery, opts store.FindOptions) ([]*models.Accident, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := s.match(query)

	if opts.Skip < 0 {
		opts.Skip = 0
	}
	if opts.Skip >= int64(len(matched)) {
		return []*models.Accident{}, nil
	}
	matched = matched[opts.Skip:]
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}

	results := make([]*models.Accident, 0, len(matched))
	for _, accident := range matched {
		results = append(results, cloneAccident(accident))
	}

	return results, nil
}

func (s *AccidentStore) CountBy(_ context.Context, field store.GroupField, window models.Window) ([]models.GroupCount, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := map[string]int64{}
	for _, accident := range s.match(store.AccidentQuery{Window: window}) {
		switch field {
		case store.GroupByCategory:
			counts[string(accident.Category)]++
		default:
			counts[string(accident.Severity)]++
		}
	}

	groups := make([]models.GroupCount, 0, len(counts))
	for id, count := range counts {
		groups = append(groups, models.GroupCount{ID: id, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].ID < groups[j].ID
	})

	return groups, nil
}

func (s *AccidentStore) MonthlyTrend(_ context.Context, window models.Window, limit int) ([]models.MonthlyCount, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := map[models.TrendKey]int64{}
	for _, accident := range s.match(store.AccidentQuery{Window: window}) {
		counts[models.PeriodMonth.KeyFor(accident.DateTime)]++
	}

	trend := make([]models.MonthlyCount, 0, len(counts))
	for key, count := range counts {
		trend = append(trend, models.MonthlyCount{ID: key, Count: count})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].ID.Less(trend[j].ID)
	})

	if limit > 0 && len(trend) > limit {
		trend = trend[:limit]
	}

	return trend, nil
}

func (s *AccidentStore) HighRiskLocations(_ context.Context, window models.Window, limit int) ([]models.LocationRisk, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	type totals struct {
		count    int64
		severity float64
		lat      float64
		lng      float64
	}

	byLocation := map[string]*totals{}
	for _, accident := range s.match(store.AccidentQuery{Window: window}) {
		if !accident.Coordinates.HasPosition() {
			continue
		}

		location, exists := byLocation[accident.Location]
		if !exists {
			location = &totals{}
			byLocation[accident.Location] = location
		}
		location.count++
		location.severity += accident.Severity.Score()
		location.lat += *accident.Coordinates.Latitude
		location.lng += *accident.Coordinates.Longitude
	}

	risks := make([]models.LocationRisk, 0, len(byLocation))
	for name, location := range byLocation {
		count := float64(location.count)
		risks = append(risks, models.LocationRisk{
			Location:    name,
			Count:       location.count,
			AvgSeverity: location.severity / count,
			AvgLat:      location.lat / count,
			AvgLng:      location.lng / count,
		})
	}
	sort.Slice(risks, func(i, j int) bool {
		if risks[i].Count != risks[j].Count {
			return risks[i].Count > risks[j].Count
		}
		return risks[i].Location < risks[j].Location
	})

	if limit > 0 && len(risks) > limit {
		risks = risks[:limit]
	}

	return risks, nil
}

func (s *AccidentStore) Casualties(_ context.Context, window models.Window) (models.CasualtyStats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stats := models.CasualtyStats{}

	matched := s.match(store.AccidentQuery{Window: window})
	if len(matched) == 0 {
		return stats, nil
	}

	for _, accident := range matched {
		stats.TotalFatalities += int64(accident.Casualties.Fatalities)
		stats.TotalInjuries += int64(accident.Casualties.Injuries)
	}
	stats.AvgFatalities = float64(stats.TotalFatalities) / float64(len(matched))
	stats.AvgInjuries = float64(stats.TotalInjuries) / float64(len(matched))

	return stats, nil
}

func (s *AccidentStore) Trends(_ context.Context, period models.Period, window models.Window) ([]models.TrendBucket, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	buckets := map[models.TrendKey]*models.TrendBucket{}
	for _, accident := range s.match(store.AccidentQuery{Window: window}) {
		key := period.KeyFor(accident.DateTime)

		bucket, exists := buckets[key]
		if !exists {
			bucket = &models.TrendBucket{ID: key}
			buckets[key] = bucket
		}
		bucket.Count++
		bucket.Fatalities += int64(accident.Casualties.Fatalities)
		bucket.Injuries += int64(accident.Casualties.Injuries)
	}

	trends := make([]models.TrendBucket, 0, len(buckets))
	for _, bucket := range buckets {
		trends = append(trends, *bucket)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].ID.Less(trends[j].ID)
	})

	return trends, nil
}

func (s *AccidentStore) Heatmap(_ context.Context, window models.Window) ([]models.HeatmapPoint, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	points := []models.HeatmapPoint{}
	for _, accident := range s.match(store.AccidentQuery{Window: window}) {
		if accident.Coordinates == nil {
			continue
		}

		coordinates := *accident.Coordinates
		points = append(points, models.HeatmapPoint{
			ID:          accident.ID,
			Coordinates: &coordinates,
			Severity:    accident.Severity,
			DateTime:    accident.DateTime,
			Title:       accident.Title,
			Location:    accident.Location,
		})
	}

	return points, nil
}

// match returns the stored records satisfying query, newest first. Callers
// must hold the lock.
func (s *AccidentStore) match(query store.AccidentQuery) []*models.Accident {
	matched := []*models.Accident{}

	for _, accident := range s.accidents {
		if matches(accident, query) {
			matched = append(matched, accident)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DateTime.Equal(matched[j].DateTime) {
			return matched[i].DateTime.After(matched[j].DateTime)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	return matched
}

func matches(accident *models.Accident, query store.AccidentQuery) bool {
	if query.Severity != "" && accident.Severity != query.Severity {
		return false
	}
	if query.Category != "" && accident.Category != query.Category {
		return false
	}
	if query.Status != "" && accident.Status != query.Status {
		return false
	}
	if query.Location != "" && !util.ContainsFold(accident.Location, query.Location) {
		return false
	}
	if query.Verified != nil && accident.IsVerified != *query.Verified {
		return false
	}

	return query.Window.Contains(accident.DateTime)
}

func cloneAccident(accident *models.Accident) *models.Accident {
	clone := *accident

	if accident.Coordinates != nil {
		coordinates := *accident.Coordinates
		clone.Coordinates = &coordinates
	}
	if accident.Weather != nil {
		weather := *accident.Weather
		clone.Weather = &weather
	}
	if accident.EmergencyServices != nil {
		services := *accident.EmergencyServices
		clone.EmergencyServices = &services
	}
	if accident.VerifiedBy != nil {
		verifiedBy := *accident.VerifiedBy
		clone.VerifiedBy = &verifiedBy
	}
	if accident.VerifiedAt != nil {
		verifiedAt := *accident.VerifiedAt
		clone.VerifiedAt = &verifiedAt
	}

	clone.Vehicles = append([]models.Vehicle{}, accident.Vehicles...)
	clone.Witnesses = append([]models.Witness{}, accident.Witnesses...)
	clone.Images = append([]string{}, accident.Images...)
	clone.ReportedBy = nil

	return &clone
}

var _ store.AccidentStore = (*AccidentStore)(nil)
