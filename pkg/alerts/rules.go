package alerts

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"gopkg.in/yaml.v3"
)

// Environment is what a rule expression sees. For example:
//
//	Type == "accident.created" && Severity == "Critical" && Fatalities > 0
type Environment struct {
	Type       string
	Title      string
	Location   string
	Severity   string
	Category   string
	Status     string
	Fatalities int
	Injuries   int
	Vehicles   int
	IsVerified bool
	HasCoords  bool
}

func NewEnvironment(event models.Event) Environment {
	env := Environment{Type: string(event.Type)}

	if accident := event.Accident; accident != nil {
		env.Title = accident.Title
		env.Location = accident.Location
		env.Severity = string(accident.Severity)
		env.Category = string(accident.Category)
		env.Status = string(accident.Status)
		env.Fatalities = accident.Casualties.Fatalities
		env.Injuries = accident.Casualties.Injuries
		env.Vehicles = len(accident.Vehicles)
		env.IsVerified = accident.IsVerified
		env.HasCoords = accident.Coordinates.HasPosition()
	}

	return env
}

type Rule struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`

	program *vm.Program
}

type RuleSet struct {
	Rules []*Rule
}

func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse reads a YAML list of rules and compiles every expression up front,
// so a broken rule file is rejected at start up.
func Parse(data []byte) (*RuleSet, error) {
	var rules []*Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	for _, rule := range rules {
		program, err := expr.Compile(rule.Expression, expr.Env(Environment{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		rule.program = program
	}

	return &RuleSet{Rules: rules}, nil
}

// Match returns the names of the rules the event triggers.
func (r *RuleSet) Match(event models.Event) ([]string, error) {
	matched := []string{}
	if r == nil {
		return matched, nil
	}

	env := NewEnvironment(event)

	for _, rule := range r.Rules {
		output, err := expr.Run(rule.program, env)
		if err != nil {
			return matched, fmt.Errorf("rule %q: %w", rule.Name, err)
		}

		if output.(bool) {
			matched = append(matched, rule.Name)
		}
	}

	return matched, nil
}
