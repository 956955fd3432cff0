package mongostore

import (
	"context"
	"errors"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AccidentStore struct {
	collection *mongo.Collection
}

func NewAccidentStore(collection *mongo.Collection) *AccidentStore {
	return &AccidentStore{collection: collection}
}

var newestFirst = bson.D{{Key: "dateTime", Value: -1}, {Key: "_id", Value: -1}}

func (s *AccidentStore) Insert(ctx context.Context, accident *models.Accident) error {
	if accident.ID.IsZero() {
		accident.ID = primitive.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, accident)
	return err
}

func (s *AccidentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Accident, error) {
	var accident *models.Accident

	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&accident)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrAccidentNotFound
	}

	return accident, err
}

func (s *AccidentStore) Update(ctx context.Context, accident *models.Accident) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": accident.ID}, accident)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrAccidentNotFound
	}

	return nil
}

func (s *AccidentStore) SetVerification(ctx context.Context, id primitive.ObjectID, update models.VerificationUpdate) (*models.Accident, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var accident *models.Accident
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": verificationSet(update)}, opts).Decode(&accident)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrAccidentNotFound
	}

	return accident, err
}

func verificationSet(update models.VerificationUpdate) bson.M {
	set := bson.M{
		"isVerified": update.IsVerified,
		"verifiedBy": update.VerifiedBy,
		"verifiedAt": update.VerifiedAt,
		"updatedAt":  update.VerifiedAt,
	}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.RejectionReason != "" {
		set["rejectionReason"] = update.RejectionReason
	}

	return set
}

func (s *AccidentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrAccidentNotFound
	}

	return nil
}

func (s *AccidentStore) Count(ctx context.Context, query store.AccidentQuery) (int64, error) {
	return s.collection.CountDocuments(ctx, accidentFilter(query))
}

func (s *AccidentStore) Find(ctx context.Context, query store.AccidentQuery, opts store.FindOptions) ([]*models.Accident, error) {
	findOptions := options.Find().SetSort(newestFirst).SetSkip(opts.Skip)
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := s.collection.Find(ctx, accidentFilter(query), findOptions)
	if err != nil {
		return nil, err
	}

	accidents := []*models.Accident{}
	if err := cursor.All(ctx, &accidents); err != nil {
		return nil, err
	}

	return accidents, nil
}

func (s *AccidentStore) CountBy(ctx context.Context, field store.GroupField, window models.Window) ([]models.GroupCount, error) {
	groups := []models.GroupCount{}
	err := s.aggregate(ctx, countByPipeline(field, window), &groups)

	return groups, err
}

func (s *AccidentStore) MonthlyTrend(ctx context.Context, window models.Window, limit int) ([]models.MonthlyCount, error) {
	trend := []models.MonthlyCount{}
	err := s.aggregate(ctx, monthlyTrendPipeline(window, limit), &trend)

	return trend, err
}

func (s *AccidentStore) HighRiskLocations(ctx context.Context, window models.Window, limit int) ([]models.LocationRisk, error) {
	risks := []models.LocationRisk{}
	err := s.aggregate(ctx, highRiskLocationsPipeline(window, limit), &risks)

	return risks, err
}

func (s *AccidentStore) Casualties(ctx context.Context, window models.Window) (models.CasualtyStats, error) {
	results := []models.CasualtyStats{}
	if err := s.aggregate(ctx, casualtiesPipeline(window), &results); err != nil {
		return models.CasualtyStats{}, err
	}

	if len(results) == 0 {
		return models.CasualtyStats{}, nil
	}

	return results[0], nil
}

func (s *AccidentStore) Trends(ctx context.Context, period models.Period, window models.Window) ([]models.TrendBucket, error) {
	trends := []models.TrendBucket{}
	err := s.aggregate(ctx, trendsPipeline(period, window), &trends)

	return trends, err
}

func (s *AccidentStore) Heatmap(ctx context.Context, window models.Window) ([]models.HeatmapPoint, error) {
	opts := options.Find().SetSort(newestFirst).SetProjection(heatmapProjection)

	cursor, err := s.collection.Find(ctx, heatmapFilter(window), opts)
	if err != nil {
		return nil, err
	}

	points := []models.HeatmapPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}

	return points, nil
}

func (s *AccidentStore) aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	return cursor.All(ctx, results)
}

var _ store.AccidentStore = (*AccidentStore)(nil)
