package seed

import (
	"context"
	"testing"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/memorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDemoDataParses(t *testing.T) {
	data, err := DemoData()
	require.NoError(t, err)

	assert.Len(t, data.Users, 8)
	assert.Len(t, data.Accidents, 10)

	first := data.Accidents[0]
	assert.Equal(t, "Highway Collision on I-95", first.Title)
	assert.Equal(t, time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), first.DateTime.UTC())
	assert.Equal(t, models.SeverityHigh, first.Severity)
	assert.Equal(t, 3, first.Casualties.Injuries)
	assert.Len(t, first.Vehicles, 3)
	assert.Equal(t, models.DamageSevere, first.Vehicles[0].Damage)
	require.True(t, first.Coordinates.HasPosition())
	assert.InDelta(t, 38.9072, *first.Coordinates.Latitude, 0.0001)
	assert.Equal(t, "Saw the first car brake suddenly, causing the collision.", first.Witnesses[0].Statement)

	assert.Equal(t, "Sarah", data.Users[1].Profile.FirstName)
}

func TestSeederRun(t *testing.T) {
	ctx := context.Background()
	stores := memorystore.New()

	data, err := DemoData()
	require.NoError(t, err)

	seeder := NewSeeder(stores)
	seeder.BcryptCost = bcrypt.MinCost

	cleared := false
	seeder.Clear = func(context.Context) error {
		cleared = true
		return nil
	}

	summary, err := seeder.Run(ctx, data)
	require.NoError(t, err)
	assert.True(t, cleared)

	assert.Equal(t, map[models.Role]int{models.RoleAdmin: 1, models.RoleOfficer: 2, models.RoleUser: 5}, summary.UsersByRole)
	assert.Equal(t, 10, summary.Accidents)
	assert.Equal(t, 8, summary.VerifiedAccidents)
	assert.Equal(t, map[models.Severity]int{
		models.SeverityCritical: 2,
		models.SeverityHigh:     3,
		models.SeverityModerate: 3,
		models.SeverityLow:      2,
	}, summary.AccidentsBySeverity)

	accidents, err := stores.Accidents.Find(ctx, store.AccidentQuery{}, store.FindOptions{})
	require.NoError(t, err)
	require.Len(t, accidents, 10)

	reporters := map[string]int{}
	for _, accident := range accidents {
		reporter, err := stores.Users.Get(ctx, accident.ReportedByID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, reporter.Role)
		reporters[reporter.Username]++

		if accident.IsVerified {
			require.NotNil(t, accident.VerifiedBy)
			verifier, err := stores.Users.Get(ctx, *accident.VerifiedBy)
			require.NoError(t, err)
			assert.NotEqual(t, models.RoleUser, verifier.Role)
			assert.True(t, accident.VerifiedAt.After(accident.DateTime))
		} else {
			assert.Nil(t, accident.VerifiedBy)
		}
	}
	assert.Len(t, reporters, 5)
	for _, count := range reporters {
		assert.Equal(t, 2, count)
	}

	admin, err := stores.Users.FindByLogin(ctx, "admin_user")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
	assert.True(t, admin.IsActive)
}

func TestSeederRejectsInvalidAccident(t *testing.T) {
	data, err := Parse([]byte(`
users:
  - {username: someone, email: someone@example.com, password: secret1, role: user}
accidents:
  - {title: Broken, location: Nowhere, description: Bad severity, severity: Extreme, category: Other, status: Reported}
`))
	require.NoError(t, err)

	seeder := NewSeeder(memorystore.New())
	seeder.BcryptCost = bcrypt.MinCost

	_, err = seeder.Run(context.Background(), data)
	var validationError *models.ValidationError
	assert.ErrorAs(t, err, &validationError)
}
