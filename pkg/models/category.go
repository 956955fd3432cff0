package models

import "golang.org/x/exp/slices"

type Category string

const (
	CategoryOverspeeding      Category = "Overspeeding"
	CategoryWeatherConditions Category = "Weather conditions"
	CategoryDrunkDriving      Category = "Drunk driving"
	CategoryDistractedDriving Category = "Distracted driving"
	CategoryOther             Category = "Other"
)

var Categories = []Category{
	CategoryOverspeeding,
	CategoryWeatherConditions,
	CategoryDrunkDriving,
	CategoryDistractedDriving,
	CategoryOther,
}

func (c Category) IsValid() bool {
	return slices.Contains(Categories, c)
}
