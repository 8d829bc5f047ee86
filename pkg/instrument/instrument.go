package instrument

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/render/strip"
	"github.com/matzehuels/sliderule/pkg/scale"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Spec is the decoded form of an instrument file.
type Spec struct {
	Name           string           `toml:"name"`
	Width          float64          `toml:"width,omitempty"`
	SlotHeight     float64          `toml:"slot_height,omitempty"`
	BufferSpace    float64          `toml:"buffer_space,omitempty"`
	SnapToTicks    *bool            `toml:"snap_to_ticks,omitempty"`
	ImproveQuality *bool            `toml:"improve_quality,omitempty"`
	DeveloperMode  bool             `toml:"developer_mode,omitempty"`
	Slots          *sliderule.Slots `toml:"slots,omitempty"`
	Scales         []ScaleSpec      `toml:"scales"`
}

// ScaleSpec describes one mounted scale.
type ScaleSpec struct {
	Component      string              `toml:"component"`
	Slot           int                 `toml:"slot"`
	Name           string              `toml:"name,omitempty"`
	SecondaryLabel string              `toml:"secondary_label,omitempty"`
	Orientation    string              `toml:"orientation,omitempty"`
	Type           string              `toml:"type,omitempty"`
	LeftIndex      float64             `toml:"left_index"`
	RightIndex     float64             `toml:"right_index"`
	Reversed       bool                `toml:"reversed,omitempty"`
	Marks          MarkList            `toml:"marks"`
	Rules          string              `toml:"rules,omitempty"`
	Rule           []RuleSpec          `toml:"rule,omitempty"`
	SpecialMarks   []scale.SpecialMark `toml:"special_marks,omitempty"`
}

// RuleSpec is an inline division rule.
type RuleSpec struct {
	Start     float64  `toml:"start"`
	End       float64  `toml:"end"`
	Divisions []string `toml:"divisions"`
}

// Load reads and decodes the instrument file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "instrument file %s", path)
		}
		return nil, fmt.Errorf("read instrument: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Decode reads an instrument description from r.
func Decode(r io.Reader) (*Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read instrument: %w", err)
	}
	return Parse(data)
}

// Parse decodes an instrument description. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	md, err := toml.Decode(string(data), &spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstrument, err, "decode instrument")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInstrument, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &spec, nil
}

// Encode writes s as TOML.
func (s *Spec) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode instrument")
	}
	return nil
}

// Canonical returns the TOML encoding of s. Two specs that describe the same
// instrument encode identically, which makes the result usable as a cache key.
func (s *Spec) Canonical() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Options returns the slide rule options described by s.
func (s *Spec) Options() []sliderule.Option {
	var opts []sliderule.Option
	if s.Width > 0 {
		opts = append(opts, sliderule.WithWidth(s.Width))
	}
	if s.SlotHeight > 0 {
		opts = append(opts, sliderule.WithSlotHeight(s.SlotHeight))
	}
	if s.BufferSpace > 0 {
		opts = append(opts, sliderule.WithBufferSpace(s.BufferSpace))
	}
	if s.Slots != nil {
		opts = append(opts, sliderule.WithSlots(s.Slots.UpperStator, s.Slots.Slide, s.Slots.LowerStator))
	}
	if s.SnapToTicks != nil {
		opts = append(opts, sliderule.WithSnapToTicks(*s.SnapToTicks))
	}
	if s.ImproveQuality != nil {
		opts = append(opts, sliderule.WithImproveQuality(*s.ImproveQuality))
	}
	return opts
}

// Limits on instrument geometry. Every scale is redrawn on each mount and
// read on each cursor move, and surfaces are allocated from these sizes.
const (
	MaxScales        = 64
	MaxWidth         = 10_000.0
	MaxSlotHeight    = 400.0
	MaxSlotsPerStrip = 16
)

// checkGeometry reports sizes outside the limits above.
func (s *Spec) checkGeometry() []error {
	var errs []error
	if len(s.Scales) > MaxScales {
		errs = append(errs, fmt.Errorf("%d scales exceed the limit of %d", len(s.Scales), MaxScales))
	}
	for _, v := range []struct {
		name     string
		val, max float64
	}{
		{"width", s.Width, MaxWidth},
		{"slot_height", s.SlotHeight, MaxSlotHeight},
		{"buffer_space", s.BufferSpace, MaxWidth / 4},
	} {
		if !(v.val >= 0 && v.val <= v.max) {
			errs = append(errs, fmt.Errorf("%s %g is outside [0, %g]", v.name, v.val, v.max))
		}
	}
	if s.Slots != nil {
		for _, c := range sliderule.Components() {
			if n := s.Slots.Of(c); n < 0 || n > MaxSlotsPerStrip {
				errs = append(errs, fmt.Errorf("%s has %d slots, want 0 to %d", c, n, MaxSlotsPerStrip))
			}
		}
	}
	return errs
}

// mount is a validated scale ready to render.
type mount struct {
	scale scale.Scale
	cfg   sliderule.ScaleConfig
}

// Validate checks every scale without drawing anything. All problems are
// reported together.
func (s *Spec) Validate() error {
	_, err := s.mounts()
	return err
}

func (s *Spec) mounts() ([]mount, error) {
	errs := s.checkGeometry()
	if len(s.Scales) > MaxScales {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstrument, stderrors.Join(errs...), "invalid instrument %q", s.Name)
	}
	out := make([]mount, 0, len(s.Scales))
	for i, sc := range s.Scales {
		m, err := sc.mount()
		if err != nil {
			label := sc.Name
			if label == "" {
				label = strip.DefaultName
			}
			errs = append(errs, fmt.Errorf("scale %d (%s): %w", i, label, err))
			continue
		}
		if limit := s.slotCount(m.cfg.Component); m.cfg.Slot >= limit && limit > 0 {
			errs = append(errs, fmt.Errorf("scale %d (%s): slot %d exceeds the %d slots of %s",
				i, m.cfg.Name, m.cfg.Slot, limit, m.cfg.Component))
			continue
		}
		out = append(out, m)
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstrument, stderrors.Join(errs...), "invalid instrument %q", s.Name)
	}
	return out, nil
}

func (s *Spec) slotCount(c sliderule.Component) int {
	if s.Slots == nil {
		return sliderule.DefaultSlots.Of(c)
	}
	return s.Slots.Of(c)
}

func (sc ScaleSpec) mount() (mount, error) {
	c, err := sliderule.ParseComponent(sc.Component)
	if err != nil {
		return mount{}, err
	}
	for _, label := range []string{sc.Name, sc.SecondaryLabel} {
		if err := errors.ValidateLabel(label); err != nil {
			return mount{}, err
		}
	}
	for _, sm := range sc.SpecialMarks {
		if err := errors.ValidateLabel(sm.Label); err != nil {
			return mount{}, err
		}
	}
	if sc.Slot < 0 {
		return mount{}, errors.New(errors.ErrCodeInvalidInstrument, "slot must not be negative, got %d", sc.Slot)
	}
	kind, err := scale.ParseKind(sc.Type)
	if err != nil {
		return mount{}, err
	}
	sca, err := scale.New(kind, sc.LeftIndex, sc.RightIndex)
	if err != nil {
		return mount{}, err
	}
	orient, err := strip.ParseOrientation(sc.Orientation)
	if err != nil {
		return mount{}, err
	}
	rules, err := sc.ruleSet()
	if err != nil {
		return mount{}, err
	}
	return mount{
		scale: sca,
		cfg: sliderule.ScaleConfig{
			Component: c,
			Config: strip.Config{
				Name:           sc.Name,
				SecondaryLabel: sc.SecondaryLabel,
				Slot:           sc.Slot,
				Orientation:    orient,
				Marks:          sc.Marks.Marks(),
				SpecialMarks:   sc.SpecialMarks,
				Rules:          rules,
				Reversed:       sc.Reversed,
			},
		},
	}, nil
}

func (sc ScaleSpec) ruleSet() (division.RuleSet, error) {
	switch {
	case sc.Rules != "" && len(sc.Rule) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInstrument, "rules %q and inline rule tables are mutually exclusive", sc.Rules)
	case sc.Rules != "":
		return division.RuleSetByName(sc.Rules)
	case len(sc.Rule) > 0:
		rs := make(division.RuleSet, len(sc.Rule))
		for i, r := range sc.Rule {
			rs[i] = division.Rule{
				Range:     division.Range{Start: r.Start, End: r.End},
				Divisions: r.Divisions,
			}
		}
		if err := rs.Validate(); err != nil {
			return nil, err
		}
		return rs, nil
	}
	return nil, nil
}

// Build validates s and returns a slide rule with every scale mounted. opts
// are applied after the options described by the file, so callers can supply
// surfaces, a logger or overrides.
func (s *Spec) Build(opts ...sliderule.Option) (*sliderule.SlideRule, error) {
	mounts, err := s.mounts()
	if err != nil {
		return nil, err
	}
	rule, err := sliderule.New(append(s.Options(), opts...)...)
	if err != nil {
		return nil, err
	}
	for _, m := range mounts {
		if err := rule.Render(m.scale, m.cfg); err != nil {
			return nil, fmt.Errorf("mount %s: %w", m.cfg.Name, err)
		}
	}
	if s.DeveloperMode {
		rule.SetDeveloperMode(true)
	}
	return rule, nil
}
