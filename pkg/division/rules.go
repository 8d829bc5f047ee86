package division

import (
	stderrors "errors"
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Range is a closed sub-range [Start, End] of scale values.
type Range struct {
	Start float64 `json:"start" toml:"start"`
	End   float64 `json:"end" toml:"end"`
}

// Contains reports whether r lies entirely inside the receiver.
func (r Range) Contains(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Start, r.End)
}

// Rule assigns an ordered list of divisions to a sub-range.
type Rule struct {
	Range     Range    `json:"range" toml:"range"`
	Divisions []string `json:"divisions" toml:"divisions"`
}

// RuleSet is an ordered list of rules. Earlier rules win.
type RuleSet []Rule

// Ranges returns the rule ranges in declared order.
func (rs RuleSet) Ranges() []Range {
	out := make([]Range, len(rs))
	for i, r := range rs {
		out[i] = r.Range
	}
	return out
}

func rule(start, end float64, divs ...string) Rule {
	return Rule{Range: Range{Start: start, End: end}, Divisions: divs}
}

// SingleDecadeLog is the rule set for a [1, 10] logarithmic scale.
var SingleDecadeLog = RuleSet{
	rule(1, 1.5, Seconds, Tenths, Twentieths, Hundredths),
	rule(1.5, 2, Seconds, Tenths, Twentieths, Hundredths),
	rule(2, 3, Seconds, Tenths, Fiftieths),
	rule(3, 4, Seconds, Tenths, Fiftieths),
	rule(4, 5, Seconds, Tenths, Twentieths),
	rule(5, 6, Seconds, Tenths, Twentieths),
	rule(6, 7, Seconds, Tenths, Twentieths),
	rule(7, 8, Seconds, Tenths, Twentieths),
	rule(8, 9, Seconds, Tenths),
	rule(9, 10, Seconds, Tenths),
}

// TwoDecadeLog is the rule set for a [1, 100] logarithmic scale. The second
// decade uses the reinterpreted step sizes described by StepCount.
var TwoDecadeLog = RuleSet{
	rule(1, 1.5, Seconds, Tenths, Twentieths, Hundredths),
	rule(1.5, 2, Seconds, Tenths, Twentieths, Hundredths),
	rule(2, 3, Seconds, Tenths, Fiftieths),
	rule(3, 4, Seconds, Tenths, Fiftieths),
	rule(4, 5, Seconds, Tenths, Twentieths),
	rule(5, 6, Seconds, Tenths, Twentieths),
	rule(6, 7, Seconds, Tenths),
	rule(7, 8, Seconds, Tenths),
	rule(8, 9, Seconds),
	rule(9, 10, Seconds),
	rule(10, 15, Tenths),
	rule(15, 20, Tenths),
	rule(20, 30, Seconds),
	rule(30, 40, Seconds),
	rule(40, 50, Seconds),
	rule(50, 60, Seconds),
	rule(60, 70, Seconds),
	rule(70, 80, Seconds),
	rule(80, 90, Seconds),
	rule(90, 100, Seconds),
}

// Names of the built-in rule sets.
const (
	SingleDecadeLogName = "singleDecadeLog"
	TwoDecadeLogName    = "twoDecadeLog"
)

var ruleSets = map[string]RuleSet{
	SingleDecadeLogName: SingleDecadeLog,
	TwoDecadeLogName:    TwoDecadeLog,
}

// RuleSetByName returns a named built-in rule set.
func RuleSetByName(name string) (RuleSet, error) {
	rs, ok := ruleSets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownDivision, "unknown rule set %q", name)
	}
	return rs, nil
}

// RuleSetNames returns the built-in rule set names, sorted.
func RuleSetNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultDivisions applies to ranges that no rule covers.
var DefaultDivisions = []string{Tenths}

// Select returns the divisions of the first rule whose range contains r, or
// the default divisions when none does. Unknown names are skipped; the
// returned error reports them and the divisions remain usable.
func Select(rules RuleSet, r Range) ([]Division, error) {
	names := DefaultDivisions
	for _, rl := range rules {
		if rl.Range.Contains(r) {
			names = rl.Divisions
			break
		}
	}

	divs := make([]Division, 0, len(names))
	var errs []error
	for _, name := range names {
		d, err := Lookup(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		divs = append(divs, d)
	}
	return divs, stderrors.Join(errs...)
}

// Limits on custom rule sets. Every tick of every rule is generated again
// whenever a reading snaps, so a rule set must stay small.
const (
	MaxRules        = 256
	MaxStepsPerRule = 10_000
	MaxRuleSetSteps = 100_000
)

// Validate reports every division name in rs that is not registered, every
// rule whose range is empty, inverted or infinite, and rule sets that would
// generate more ticks than the limits above allow.
func (rs RuleSet) Validate() error {
	if len(rs) > MaxRules {
		return errors.New(errors.ErrCodeInvalidScale, "%d rules exceed the limit of %d", len(rs), MaxRules)
	}
	var (
		errs  []error
		total float64
	)
	for i, rl := range rs {
		if math.IsInf(rl.Range.Start, 0) || math.IsInf(rl.Range.End, 0) {
			errs = append(errs, errors.New(errors.ErrCodeInvalidScale, "rule %d: range %s is not finite", i, rl.Range))
			continue
		}
		if !(rl.Range.Start < rl.Range.End) {
			errs = append(errs, errors.New(errors.ErrCodeInvalidScale, "rule %d: range %s is empty", i, rl.Range))
		}
		for _, name := range rl.Divisions {
			d, err := Lookup(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
				continue
			}
			n := steps(d, rl.Range.Start, rl.Range.End)
			if n > MaxStepsPerRule {
				errs = append(errs, errors.New(errors.ErrCodeInvalidScale,
					"rule %d: %s over %s makes %.0f ticks, limit is %d", i, name, rl.Range, n, MaxStepsPerRule))
				continue
			}
			if n > 0 {
				total += n
			}
		}
	}
	if total > MaxRuleSetSteps {
		errs = append(errs, errors.New(errors.ErrCodeInvalidScale,
			"rule set makes %.0f ticks, limit is %d", total, MaxRuleSetSteps))
	}
	return stderrors.Join(errs...)
}
