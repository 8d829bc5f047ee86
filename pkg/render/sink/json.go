package sink

import (
	"encoding/json"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/scale"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name       string
	tickValues bool
	exact      bool
}

// WithJSONName records the instrument name in the output.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONTickValues includes every scale's snap targets.
func WithJSONTickValues() JSONOption { return func(r *jsonRenderer) { r.tickValues = true } }

// WithJSONExact adds unsnapped readings next to the snapped ones.
func WithJSONExact() JSONOption { return func(r *jsonRenderer) { r.exact = true } }

type jsonOutput struct {
	Name          string              `json:"name,omitempty"`
	Config        sliderule.Config    `json:"config"`
	Layout        sliderule.Layout    `json:"layout"`
	DeveloperMode bool                `json:"developer_mode"`
	Scales        []jsonScale         `json:"scales"`
	Readings      []sliderule.Reading `json:"readings"`
	Exact         []sliderule.Reading `json:"exact_readings,omitempty"`
}

type jsonScale struct {
	Component      string              `json:"component"`
	Slot           int                 `json:"slot"`
	Name           string              `json:"name"`
	SecondaryLabel string              `json:"secondary_label,omitempty"`
	Orientation    string              `json:"orientation"`
	Type           string              `json:"type"`
	LeftIndex      float64             `json:"left_index"`
	RightIndex     float64             `json:"right_index"`
	Reversed       bool                `json:"reversed,omitempty"`
	Marks          []scale.Mark        `json:"marks"`
	SpecialMarks   []scale.SpecialMark `json:"special_marks,omitempty"`
	Rules          []jsonRule          `json:"rules"`
	Stats          strip.Stats         `json:"stats"`
	TickValues     []float64           `json:"tick_values,omitempty"`
}

type jsonRule struct {
	Start     float64  `json:"start"`
	End       float64  `json:"end"`
	Divisions []string `json:"divisions"`
}

// RenderJSON exports the slide rule state as a pretty-printed JSON document:
// configuration, derived layout, every mounted scale with its resolved marks,
// and the current cursor readout.
func RenderJSON(rule *sliderule.SlideRule, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:          r.name,
		Config:        rule.Config(),
		Layout:        rule.Layout(),
		DeveloperMode: rule.DeveloperMode(),
		Readings:      rule.Readings(),
	}
	if r.exact {
		out.Exact = rule.ExactReadings()
	}
	for _, m := range rule.Scales() {
		out.Scales = append(out.Scales, buildJSONScale(m, r.tickValues))
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONScale(m sliderule.Mounted, withTicks bool) jsonScale {
	cfg := m.Renderer.Config()
	marks, _ := m.Renderer.Marks(m.Scale)
	js := jsonScale{
		Component:      m.Component.String(),
		Slot:           cfg.Slot,
		Name:           cfg.Name,
		SecondaryLabel: cfg.SecondaryLabel,
		Orientation:    cfg.Orientation.String(),
		Type:           m.Scale.Kind().String(),
		LeftIndex:      m.Scale.LeftIndex(),
		RightIndex:     m.Scale.RightIndex(),
		Reversed:       cfg.Reversed,
		Marks:          marks,
		SpecialMarks:   cfg.SpecialMarks,
		Rules:          buildJSONRules(cfg.Rules),
		Stats:          m.Stats,
	}
	if withTicks {
		js.TickValues = m.Renderer.TickValues(m.Scale)
	}
	return js
}

func buildJSONRules(rs division.RuleSet) []jsonRule {
	rules := make([]jsonRule, len(rs))
	for i, r := range rs {
		rules[i] = jsonRule{Start: r.Range.Start, End: r.Range.End, Divisions: r.Divisions}
	}
	return rules
}
