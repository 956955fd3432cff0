package models

import (
	"time"

	"github.com/liip/sheriff"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id" groups:"public,account,admin"`
	Username     string             `bson:"username" json:"username" groups:"public,account,admin"`
	Email        string             `bson:"email" json:"email" groups:"public,account,admin"`
	PasswordHash string             `bson:"password,omitempty" json:"-"`
	Role         Role               `bson:"role" json:"role" groups:"account,admin"`
	Profile      Profile            `bson:"profile" json:"profile" groups:"public,account,admin"`
	IsActive     bool               `bson:"isActive" json:"isActive" groups:"account,admin"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified" groups:"account,admin"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt" groups:"account,admin"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt" groups:"admin"`
}

type Profile struct {
	FirstName  string `bson:"firstName,omitempty" json:"firstName,omitempty" groups:"public,account,admin"`
	LastName   string `bson:"lastName,omitempty" json:"lastName,omitempty" groups:"public,account,admin"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty" groups:"public,account,admin"`
	Department string `bson:"department,omitempty" json:"department,omitempty" groups:"public,account,admin"`
}

// ProfilePatch only touches the fields that were supplied.
type ProfilePatch struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

func (p ProfilePatch) Apply(profile *Profile) {
	if p.FirstName != nil {
		profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = *p.LastName
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.Department != nil {
		profile.Department = *p.Department
	}
}

type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

var Roles = []Role{RoleUser, RoleOfficer, RoleAdmin}

func (r Role) IsValid() bool {
	return slices.Contains(Roles, r)
}

// UserSummary is the slice of a user joined onto the reports they submitted.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Profile  Profile            `json:"profile"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}

	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Profile:  u.Profile,
	}
}

// SessionUser is returned next to a freshly issued token.
type SessionUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Role     Role               `json:"role"`
	Profile  Profile            `json:"profile"`
}

func (u *User) Session() SessionUser {
	return SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Profile:  u.Profile,
	}
}

// View reduces a user (or slice of users) down to the fields of the named
// groups. Password hashes are never part of any group.
func View(group string, data interface{}) (interface{}, error) {
	return sheriff.Marshal(&sheriff.Options{
		Groups: []string{group},
	}, data)
}
