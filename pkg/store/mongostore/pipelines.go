package mongostore

import (
	"regexp"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func accidentFilter(query store.AccidentQuery) bson.M {
	filter := windowFilter(query.Window)

	if query.Severity != "" {
		filter["severity"] = query.Severity
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.Location), Options: "i"}
	}
	if query.Verified != nil {
		filter["isVerified"] = *query.Verified
	}

	return filter
}

func windowFilter(window models.Window) bson.M {
	filter := bson.M{}
	if window.IsZero() {
		return filter
	}

	dateTime := bson.M{}
	if window.Start != nil {
		dateTime["$gte"] = *window.Start
	}
	if window.End != nil {
		dateTime["$lte"] = *window.End
	}
	filter["dateTime"] = dateTime

	return filter
}

func countByPipeline(field store.GroupField, window models.Window) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(window)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + string(field)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func monthlyTrendPipeline(window models.Window, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(window)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: trendGroupKey(models.PeriodMonth)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// severityScore mirrors models.Severity.Score as an aggregation expression.
var severityScore = bson.D{{Key: "$cond", Value: bson.A{
	bson.D{{Key: "$eq", Value: bson.A{"$severity", models.SeverityHigh}}}, models.SeverityHigh.Score(),
	bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$severity", models.SeverityModerate}}}, models.SeverityModerate.Score(),
		bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$severity", models.SeverityLow}}}, models.SeverityLow.Score(),
			models.Severity("").Score(),
		}}},
	}}},
}}}

func highRiskLocationsPipeline(window models.Window, limit int) mongo.Pipeline {
	match := windowFilter(window)
	match["coordinates.latitude"] = bson.M{"$type": "number"}
	match["coordinates.longitude"] = bson.M{"$type": "number"}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$location"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgSeverity", Value: bson.D{{Key: "$avg", Value: severityScore}}},
			{Key: "avgLat", Value: bson.D{{Key: "$avg", Value: "$coordinates.latitude"}}},
			{Key: "avgLng", Value: bson.D{{Key: "$avg", Value: "$coordinates.longitude"}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "count", Value: bson.D{{Key: "$gte", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func casualtiesPipeline(window models.Window) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(window)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalFatalities", Value: bson.D{{Key: "$sum", Value: "$casualties.fatalities"}}},
			{Key: "totalInjuries", Value: bson.D{{Key: "$sum", Value: "$casualties.injuries"}}},
			{Key: "avgFatalities", Value: bson.D{{Key: "$avg", Value: "$casualties.fatalities"}}},
			{Key: "avgInjuries", Value: bson.D{{Key: "$avg", Value: "$casualties.injuries"}}},
		}}},
	}
}

// trendGroupKey buckets on calendar fields of dateTime. The date operators
// work in UTC, the same as models.Period.KeyFor. Weeks pair $isoWeek with
// $isoWeekYear.
func trendGroupKey(period models.Period) bson.D {
	year := bson.E{Key: "year", Value: bson.D{{Key: "$year", Value: "$dateTime"}}}

	switch period {
	case models.PeriodDay:
		return bson.D{
			year,
			{Key: "month", Value: bson.D{{Key: "$month", Value: "$dateTime"}}},
			{Key: "day", Value: bson.D{{Key: "$dayOfMonth", Value: "$dateTime"}}},
		}
	case models.PeriodWeek:
		return bson.D{
			{Key: "year", Value: bson.D{{Key: "$isoWeekYear", Value: "$dateTime"}}},
			{Key: "week", Value: bson.D{{Key: "$isoWeek", Value: "$dateTime"}}},
		}
	default:
		return bson.D{
			year,
			{Key: "month", Value: bson.D{{Key: "$month", Value: "$dateTime"}}},
		}
	}
}

func trendsPipeline(period models.Period, window models.Window) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(window)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: trendGroupKey(period)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "fatalities", Value: bson.D{{Key: "$sum", Value: "$casualties.fatalities"}}},
			{Key: "injuries", Value: bson.D{{Key: "$sum", Value: "$casualties.injuries"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.day", Value: 1},
			{Key: "_id.week", Value: 1},
		}}},
	}
}

func heatmapFilter(window models.Window) bson.M {
	filter := windowFilter(window)
	filter["coordinates"] = bson.M{"$exists": true, "$ne": nil}

	return filter
}

var heatmapProjection = bson.D{
	{Key: "coordinates", Value: 1},
	{Key: "severity", Value: 1},
	{Key: "dateTime", Value: 1},
	{Key: "title", Value: 1},
	{Key: "location", Value: 1},
}
