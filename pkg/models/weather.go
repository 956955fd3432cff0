package models

import "golang.org/x/exp/slices"

type Weather struct {
	Condition  WeatherCondition `bson:"condition,omitempty" json:"condition,omitempty" validate:"omitempty,weathercondition"`
	Visibility *float64         `bson:"visibility,omitempty" json:"visibility,omitempty"`
}

type WeatherCondition string

const (
	WeatherClear  WeatherCondition = "Clear"
	WeatherRainy  WeatherCondition = "Rainy"
	WeatherFoggy  WeatherCondition = "Foggy"
	WeatherSnowy  WeatherCondition = "Snowy"
	WeatherStormy WeatherCondition = "Stormy"
)

var WeatherConditions = []WeatherCondition{WeatherClear, WeatherRainy, WeatherFoggy, WeatherSnowy, WeatherStormy}

func (w WeatherCondition) IsValid() bool {
	return slices.Contains(WeatherConditions, w)
}
