package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSeverityScore(t *testing.T) {
	assert.Equal(t, 3.0, SeverityHigh.Score())
	assert.Equal(t, 2.0, SeverityModerate.Score())
	assert.Equal(t, 1.0, SeverityLow.Score())
	assert.Equal(t, 4.0, SeverityCritical.Score())
	assert.Equal(t, 4.0, Severity("Unknown").Score())
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		avg      float64
		expected Severity
	}{
		{4, SeverityCritical},
		{3.5, SeverityCritical},
		{3.49, SeverityHigh},
		{2.5, SeverityHigh},
		{2.49, SeverityModerate},
		{1.5, SeverityModerate},
		{1.49, SeverityLow},
		{0, SeverityLow},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, RiskLevel(test.avg), "avg %v", test.avg)
	}

	// Two High reports and one Critical average to 3.33
	avg := (SeverityHigh.Score() + SeverityHigh.Score() + SeverityCritical.Score()) / 3
	assert.InDelta(t, 3.333, avg, 0.001)
	assert.Equal(t, SeverityHigh, RiskLevel(avg))
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, PeriodDay, ParsePeriod("day"))
	assert.Equal(t, PeriodWeek, ParsePeriod("week"))
	assert.Equal(t, PeriodMonth, ParsePeriod("month"))
	assert.Equal(t, PeriodMonth, ParsePeriod(""))
	assert.Equal(t, PeriodMonth, ParsePeriod("fortnight"))

	moment := time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*60*60))

	assert.Equal(t, TrendKey{Year: 2024, Month: 1, Day: 2}, PeriodDay.KeyFor(moment))
	assert.Equal(t, TrendKey{Year: 2024, Month: 1}, PeriodMonth.KeyFor(moment))
	assert.Equal(t, TrendKey{Year: 2024, Week: 1}, PeriodWeek.KeyFor(moment))
	assert.Equal(t, TrendKey{Year: 2025, Week: 1}, PeriodWeek.KeyFor(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TrendKey{Year: 2020, Week: 53}, PeriodWeek.KeyFor(time.Date(2021, 1, 3, 23, 0, 0, 0, time.UTC)))
}

func TestTrendKeyLess(t *testing.T) {
	assert.True(t, TrendKey{Year: 2023, Month: 12}.Less(TrendKey{Year: 2024, Month: 1}))
	assert.True(t, TrendKey{Year: 2024, Month: 1, Day: 3}.Less(TrendKey{Year: 2024, Month: 1, Day: 4}))
	assert.True(t, TrendKey{Year: 2024, Week: 2}.Less(TrendKey{Year: 2024, Week: 10}))
	assert.False(t, TrendKey{Year: 2024, Month: 2}.Less(TrendKey{Year: 2024, Month: 2}))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 10}, ParsePage("", ""))
	assert.Equal(t, Page{Number: 3, Size: 25}, ParsePage("3", "25"))
	assert.Equal(t, Page{Number: 1, Size: 100}, ParsePage("0", "5000"))
	assert.Equal(t, Page{Number: 1, Size: 10}, ParsePage("abc", "-4"))

	page := Page{Number: 3, Size: 10}
	assert.Equal(t, int64(20), page.Skip())
	assert.Equal(t, int64(3), page.TotalPages(21))
	assert.Equal(t, int64(0), page.TotalPages(0))

	huge := ParsePage("9223372036854775807", "2")
	assert.Equal(t, int64(MaxPageNumber), huge.Number)
	assert.Positive(t, huge.Skip())
	assert.Equal(t, int64(math.MaxInt64), Page{Number: math.MaxInt64, Size: 100}.Skip())
	assert.Equal(t, int64(0), Page{Number: -3, Size: 10}.Skip())

	paged := NewPaged[string](nil, page, 0)
	assert.NotNil(t, paged.Items)
	assert.Equal(t, int64(3), paged.CurrentPage)
}

func TestParseWindow(t *testing.T) {
	window, err := ParseWindow("", "")
	require.NoError(t, err)
	assert.True(t, window.IsZero())

	window, err = ParseWindow("2024-01-01", "2024-01-31T23:59:59Z")
	require.NoError(t, err)
	assert.True(t, window.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	_, err = ParseWindow("not-a-date", "")
	var validationError *ValidationError
	require.ErrorAs(t, err, &validationError)
	assert.Equal(t, "startDate", validationError.Fields[0].Field)
}

func TestCapabilities(t *testing.T) {
	admin := &User{ID: primitive.NewObjectID(), Role: RoleAdmin}
	officer := &User{ID: primitive.NewObjectID(), Role: RoleOfficer}
	citizen := &User{ID: primitive.NewObjectID(), Role: RoleUser}

	for _, capability := range []Capability{CapabilityEditAnyAccident, CapabilityDeleteAccident, CapabilityVerifyAccident, CapabilityViewAdminDashboard, CapabilityManageUsers} {
		assert.True(t, admin.Can(capability))
		assert.False(t, officer.Can(capability))
		assert.False(t, citizen.Can(capability))
	}

	var nobody *User
	assert.False(t, nobody.Can(CapabilityVerifyAccident))

	accident := &Accident{ReportedByID: citizen.ID}
	assert.True(t, citizen.CanModifyAccident(accident))
	assert.True(t, admin.CanModifyAccident(accident))
	assert.False(t, officer.CanModifyAccident(accident))
}

func TestVerificationUpdate(t *testing.T) {
	verifier := primitive.NewObjectID()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	accident := &Accident{Status: StatusReported}

	VerificationUpdate{IsVerified: true, VerifiedBy: verifier, VerifiedAt: at}.Apply(accident)
	assert.True(t, accident.IsVerified)
	assert.Equal(t, verifier, *accident.VerifiedBy)
	assert.Equal(t, at, *accident.VerifiedAt)
	assert.Equal(t, StatusReported, accident.Status)

	VerificationUpdate{VerifiedBy: verifier, VerifiedAt: at, Status: StatusClosed, RejectionReason: "Duplicate"}.Apply(accident)
	assert.False(t, accident.IsVerified)
	assert.Equal(t, StatusClosed, accident.Status)
	assert.Equal(t, "Duplicate", accident.RejectionReason)
}

func TestUserView(t *testing.T) {
	user := &User{
		ID:           primitive.NewObjectID(),
		Username:     "jane_doe",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         RoleOfficer,
		Profile:      Profile{FirstName: "Jane"},
		IsActive:     true,
	}

	public, err := View("public", user)
	require.NoError(t, err)
	publicFields := public.(map[string]interface{})
	assert.Contains(t, publicFields, "username")
	assert.NotContains(t, publicFields, "role")
	assert.NotContains(t, publicFields, "password")

	account, err := View("account", user)
	require.NoError(t, err)
	accountFields := account.(map[string]interface{})
	assert.EqualValues(t, "officer", accountFields["role"])
	assert.NotContains(t, accountFields, "updatedAt")
	assert.Equal(t, "Jane", accountFields["profile"].(map[string]interface{})["firstName"])

	session := user.Session()
	assert.Equal(t, user.ID, session.ID)
	assert.Equal(t, "jane_doe", user.Summary().Username)
}
