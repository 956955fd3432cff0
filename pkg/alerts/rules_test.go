package alerts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruleFile = `
- name: fatal-critical
  expression: Type == "accident.created" && Severity == "Critical" && Fatalities > 0
- name: pile-up
  expression: Vehicles >= 3
- name: drunk-driving-verified
  expression: Category == "Drunk driving" && IsVerified
`

func TestMatch(t *testing.T) {
	rules, err := Parse([]byte(ruleFile))
	require.NoError(t, err)
	require.Len(t, rules.Rules, 3)

	critical := &models.Accident{
		Severity:   models.SeverityCritical,
		Category:   models.CategoryDrunkDriving,
		Casualties: models.Casualties{Fatalities: 1},
		Vehicles:   []models.Vehicle{{}, {}, {}},
	}

	matched, err := rules.Match(models.Event{Type: models.EventTypeAccidentCreated, Accident: critical})
	require.NoError(t, err)
	assert.Equal(t, []string{"fatal-critical", "pile-up"}, matched)

	critical.IsVerified = true
	matched, err = rules.Match(models.Event{Type: models.EventTypeAccidentVerified, Accident: critical})
	require.NoError(t, err)
	assert.Equal(t, []string{"pile-up", "drunk-driving-verified"}, matched)

	matched, err = rules.Match(models.Event{Type: models.EventTypeAccidentDeleted})
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestParseRejectsBadRules(t *testing.T) {
	_, err := Parse([]byte(`- name: not-bool
  expression: Fatalities + 1
`))
	assert.Error(t, err)

	_, err = Parse([]byte(`- name: unknown-field
  expression: Speed > 100
`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ruleFile), 0o600))

	rules, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, rules.Rules, 3)

	var empty *RuleSet
	matched, err := empty.Match(models.Event{})
	require.NoError(t, err)
	assert.Empty(t, matched)
}
