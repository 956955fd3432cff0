package seed

import (
	"context"
	_ "embed"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var demoData []byte

type Data struct {
	Users     []*User     `yaml:"users"`
	Accidents []*Accident `yaml:"accidents"`
}

type User struct {
	Username string      `yaml:"username"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
	Verified bool        `yaml:"verified"`
	Profile  struct {
		FirstName  string `yaml:"firstName"`
		LastName   string `yaml:"lastName"`
		Phone      string `yaml:"phone"`
		Department string `yaml:"department"`
	} `yaml:"profile"`
}

type Accident struct {
	Title             string                    `yaml:"title"`
	Location          string                    `yaml:"location"`
	Coordinates       *models.Coordinates       `yaml:"coordinates"`
	DateTime          time.Time                 `yaml:"dateTime"`
	Severity          models.Severity           `yaml:"severity"`
	Description       string                    `yaml:"description"`
	Category          models.Category           `yaml:"category"`
	Casualties        models.Casualties         `yaml:"casualties"`
	Vehicles          []models.Vehicle          `yaml:"vehicles"`
	Weather           *models.Weather           `yaml:"weather"`
	Status            models.Status             `yaml:"status"`
	Verified          bool                      `yaml:"verified"`
	EmergencyServices *models.EmergencyServices `yaml:"emergencyServices"`
	Witnesses         []models.Witness          `yaml:"witnesses"`
}

func DemoData() (*Data, error) {
	return Parse(demoData)
}

func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

type Summary struct {
	UsersByRole         map[models.Role]int
	Accidents           int
	VerifiedAccidents   int
	AccidentsBySeverity map[models.Severity]int
}

func (s Summary) Log() {
	log.Info().
		Int("admins", s.UsersByRole[models.RoleAdmin]).
		Int("officers", s.UsersByRole[models.RoleOfficer]).
		Int("users", s.UsersByRole[models.RoleUser]).
		Msg("Seeded users")

	log.Info().
		Int("total", s.Accidents).
		Int("verified", s.VerifiedAccidents).
		Int("critical", s.AccidentsBySeverity[models.SeverityCritical]).
		Int("high", s.AccidentsBySeverity[models.SeverityHigh]).
		Int("moderate", s.AccidentsBySeverity[models.SeverityModerate]).
		Int("low", s.AccidentsBySeverity[models.SeverityLow]).
		Msg("Seeded accidents")
}

// Seeder loads demo users and accidents. Reporters are handed out in turn
// among the regular users, and verifiers among officers and admins.
type Seeder struct {
	Stores store.Stores

	// Clear empties both collections before loading. Nil leaves them as they are.
	Clear func(ctx context.Context) error

	BcryptCost int
	Now        func() time.Time
}

func NewSeeder(stores store.Stores) *Seeder {
	return &Seeder{
		Stores:     stores,
		BcryptCost: bcrypt.DefaultCost,
		Now:        time.Now,
	}
}

func (s *Seeder) Run(ctx context.Context, data *Data) (Summary, error) {
	summary := Summary{
		UsersByRole:         map[models.Role]int{},
		AccidentsBySeverity: map[models.Severity]int{},
	}

	if s.Clear != nil {
		if err := s.Clear(ctx); err != nil {
			return summary, err
		}
		log.Info().Msg("Cleared existing data")
	}

	var reporters, verifiers []*models.User
	for _, seedUser := range data.Users {
		user, err := s.createUser(ctx, seedUser)
		if err != nil {
			return summary, err
		}

		summary.UsersByRole[user.Role]++

		switch user.Role {
		case models.RoleUser:
			reporters = append(reporters, user)
		case models.RoleOfficer, models.RoleAdmin:
			verifiers = append(verifiers, user)
		}
	}

	for i, seedAccident := range data.Accidents {
		accident := s.newAccident(seedAccident)

		if len(reporters) > 0 {
			accident.ReportedByID = reporters[i%len(reporters)].ID
		}
		if accident.IsVerified && len(verifiers) > 0 {
			verifiedBy := verifiers[i%len(verifiers)].ID
			verifiedAt := accident.DateTime.Add(time.Duration(i%24+1) * time.Hour)
			accident.VerifiedBy = &verifiedBy
			accident.VerifiedAt = &verifiedAt
		}

		if err := models.Validate(accident); err != nil {
			return summary, err
		}
		if err := s.Stores.Accidents.Insert(ctx, accident); err != nil {
			return summary, err
		}
		log.Debug().Str("title", accident.Title).Msg("Created accident")

		summary.Accidents++
		summary.AccidentsBySeverity[accident.Severity]++
		if accident.IsVerified {
			summary.VerifiedAccidents++
		}
	}

	return summary, nil
}

func (s *Seeder) createUser(ctx context.Context, seedUser *User) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedUser.Password), s.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	user := &models.User{
		Username:     seedUser.Username,
		Email:        seedUser.Email,
		PasswordHash: string(hash),
		Role:         seedUser.Role,
		Profile: models.Profile{
			FirstName:  seedUser.Profile.FirstName,
			LastName:   seedUser.Profile.LastName,
			Phone:      seedUser.Profile.Phone,
			Department: seedUser.Profile.Department,
		},
		IsActive:   true,
		IsVerified: seedUser.Verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Stores.Users.Insert(ctx, user); err != nil {
		return nil, err
	}
	log.Debug().Str("username", user.Username).Msg("Created user")

	return user, nil
}

func (s *Seeder) newAccident(seedAccident *Accident) *models.Accident {
	now := s.Now()

	accident := &models.Accident{
		Title:             seedAccident.Title,
		Location:          seedAccident.Location,
		Coordinates:       seedAccident.Coordinates,
		DateTime:          seedAccident.DateTime.UTC(),
		Description:       seedAccident.Description,
		Severity:          seedAccident.Severity,
		Category:          seedAccident.Category,
		Casualties:        seedAccident.Casualties,
		Vehicles:          seedAccident.Vehicles,
		Weather:           seedAccident.Weather,
		Witnesses:         seedAccident.Witnesses,
		EmergencyServices: seedAccident.EmergencyServices,
		Status:            seedAccident.Status,
		IsVerified:        seedAccident.Verified,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	accident.Normalise(now)

	return accident
}
