package models

import "golang.org/x/exp/slices"

type Vehicle struct {
	Type   VehicleType `bson:"type,omitempty" json:"type,omitempty" validate:"omitempty,vehicletype"`
	Damage DamageLevel `bson:"damage,omitempty" json:"damage,omitempty" validate:"omitempty,damagelevel"`
}

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "Car"
	VehicleTypeTruck      VehicleType = "Truck"
	VehicleTypeMotorcycle VehicleType = "Motorcycle"
	VehicleTypeBicycle    VehicleType = "Bicycle"
	VehicleTypeBus        VehicleType = "Bus"
	VehicleTypeOther      VehicleType = "Other"
)

var VehicleTypes = []VehicleType{
	VehicleTypeCar, VehicleTypeTruck, VehicleTypeMotorcycle, VehicleTypeBicycle, VehicleTypeBus, VehicleTypeOther,
}

func (v VehicleType) IsValid() bool {
	return slices.Contains(VehicleTypes, v)
}

type DamageLevel string

const (
	DamageMinor    DamageLevel = "Minor"
	DamageModerate DamageLevel = "Moderate"
	DamageSevere   DamageLevel = "Severe"
	DamageTotal    DamageLevel = "Total"
)

var DamageLevels = []DamageLevel{DamageMinor, DamageModerate, DamageSevere, DamageTotal}

func (d DamageLevel) IsValid() bool {
	return slices.Contains(DamageLevels, d)
}
