package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Accident struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`

	Title       string       `bson:"title" json:"title" validate:"required,max=100"`
	Location    string       `bson:"location" json:"location" validate:"required"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	DateTime    time.Time    `bson:"dateTime" json:"dateTime"`
	Description string       `bson:"description" json:"description" validate:"required,max=1000"`

	Severity Severity `bson:"severity" json:"severity" validate:"required,severity"`
	Category Category `bson:"category" json:"category" validate:"required,category"`

	Casualties        Casualties         `bson:"casualties" json:"casualties"`
	Vehicles          []Vehicle          `bson:"vehicles" json:"vehicles" validate:"dive"`
	Weather           *Weather           `bson:"weather,omitempty" json:"weather,omitempty"`
	Witnesses         []Witness          `bson:"witnesses" json:"witnesses"`
	EmergencyServices *EmergencyServices `bson:"emergencyServices,omitempty" json:"emergencyServices,omitempty"`
	Images            []string           `bson:"images" json:"images"`

	Status          Status              `bson:"status" json:"status" validate:"required,status"`
	IsVerified      bool                `bson:"isVerified" json:"isVerified"`
	VerifiedBy      *primitive.ObjectID `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time          `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	RejectionReason string              `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`

	ReportedByID primitive.ObjectID `bson:"reportedBy" json:"-"`
	ReportedBy   *UserSummary       `bson:"-" json:"reportedBy"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Coordinates struct {
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// HasPosition reports whether both halves of the coordinate pair are present.
func (c *Coordinates) HasPosition() bool {
	return c != nil && c.Latitude != nil && c.Longitude != nil
}

type Casualties struct {
	Fatalities int `bson:"fatalities" json:"fatalities" validate:"min=0"`
	Injuries   int `bson:"injuries" json:"injuries" validate:"min=0"`
}

type Witness struct {
	Name      string `bson:"name,omitempty" json:"name,omitempty"`
	Contact   string `bson:"contact,omitempty" json:"contact,omitempty"`
	Statement string `bson:"statement,omitempty" json:"statement,omitempty"`
}

type EmergencyServices struct {
	Police    bool `bson:"police" json:"police"`
	Ambulance bool `bson:"ambulance" json:"ambulance"`
	Fire      bool `bson:"fire" json:"fire"`
}

// Normalise trims free text and fills in the defaults a freshly submitted
// report would get.
func (a *Accident) Normalise(now time.Time) {
	a.Title = strings.TrimSpace(a.Title)
	a.Location = strings.TrimSpace(a.Location)

	if a.DateTime.IsZero() {
		a.DateTime = now
	}
	if a.Status == "" {
		a.Status = StatusReported
	}
	if a.Vehicles == nil {
		a.Vehicles = []Vehicle{}
	}
	if a.Witnesses == nil {
		a.Witnesses = []Witness{}
	}
	if a.Images == nil {
		a.Images = []string{}
	}
}

// ReportedByUser is true when u submitted the report.
func (a *Accident) ReportedByUser(u *User) bool {
	return u != nil && a.ReportedByID == u.ID
}

// AccidentPatch carries the fields of a partial update. Nil fields are left
// untouched when the patch is merged onto a stored report.
type AccidentPatch struct {
	Title             *string            `json:"title"`
	Location          *string            `json:"location"`
	Coordinates       *Coordinates       `json:"coordinates"`
	DateTime          *time.Time         `json:"dateTime"`
	Description       *string            `json:"description"`
	Severity          *Severity          `json:"severity"`
	Category          *Category          `json:"category"`
	Casualties        *Casualties        `json:"casualties"`
	Vehicles          *[]Vehicle         `json:"vehicles"`
	Weather           *Weather           `json:"weather"`
	Witnesses         *[]Witness         `json:"witnesses"`
	EmergencyServices *EmergencyServices `json:"emergencyServices"`
	Images            *[]string          `json:"images"`
	Status            *Status            `json:"status"`
}

// VerificationUpdate is the single-document write applied by verify and
// reject. Status and RejectionReason are only written when set.
type VerificationUpdate struct {
	IsVerified      bool
	VerifiedBy      primitive.ObjectID
	VerifiedAt      time.Time
	Status          Status
	RejectionReason string
}

func (u VerificationUpdate) Apply(a *Accident) {
	a.IsVerified = u.IsVerified
	verifiedBy := u.VerifiedBy
	a.VerifiedBy = &verifiedBy
	verifiedAt := u.VerifiedAt
	a.VerifiedAt = &verifiedAt
	if u.Status != "" {
		a.Status = u.Status
	}
	if u.RejectionReason != "" {
		a.RejectionReason = u.RejectionReason
	}
	a.UpdatedAt = u.VerifiedAt
}
