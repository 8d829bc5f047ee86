package instrument

import (
	"math"

	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/scale"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// ClassicName names the built-in instrument.
const ClassicName = "Classic"

var (
	singleDecadeMarks = []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 7, 8, 9, 10}
	twoDecadeMarks    = []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 25, 30, 40, 50, 60, 70, 80, 90, 100}
)

func numbers(vs []float64) MarkList {
	entries := make([]scale.MarkEntry, len(vs))
	for i, v := range vs {
		entries[i] = scale.Number(v)
	}
	return MarkListOf(entries...)
}

// Classic returns a four scale instrument: A and B squares scales on the
// upper stator and top of the slide, C and D on the bottom of the slide and
// the lower stator. C carries a π special mark.
func Classic() *Spec {
	improve := true
	return &Spec{
		Name:           ClassicName,
		Width:          1200,
		SlotHeight:     sliderule.DefaultSlotHeight,
		BufferSpace:    sliderule.DefaultBufferSpace,
		ImproveQuality: &improve,
		DeveloperMode:  true,
		Slots:          &sliderule.Slots{UpperStator: 1, Slide: 2, LowerStator: 1},
		Scales: []ScaleSpec{
			{
				Component:      string(sliderule.UpperStator),
				Slot:           0,
				Name:           "A",
				SecondaryLabel: "x²",
				Orientation:    "bottom",
				Type:           scale.Logarithmic.String(),
				LeftIndex:      1,
				RightIndex:     100,
				Marks:          numbers(twoDecadeMarks),
				Rules:          division.TwoDecadeLogName,
			},
			{
				Component:      string(sliderule.Slide),
				Slot:           0,
				Name:           "B",
				SecondaryLabel: "x²",
				Orientation:    "top",
				Type:           scale.Logarithmic.String(),
				LeftIndex:      1,
				RightIndex:     100,
				Marks:          numbers(twoDecadeMarks),
				Rules:          division.TwoDecadeLogName,
			},
			{
				Component:   string(sliderule.Slide),
				Slot:        1,
				Name:        "C",
				Orientation: "bottom",
				Type:        scale.Logarithmic.String(),
				LeftIndex:   1,
				RightIndex:  10,
				Marks:       numbers(singleDecadeMarks),
				Rules:       division.SingleDecadeLogName,
				SpecialMarks: []scale.SpecialMark{{
					Value:  math.Pi,
					Label:  "π",
					Height: 18,
					Width:  1.5,
					Color:  "#A52A2A",
				}},
			},
			{
				Component:   string(sliderule.LowerStator),
				Slot:        0,
				Name:        "D",
				Orientation: "top",
				Type:        scale.Logarithmic.String(),
				LeftIndex:   1,
				RightIndex:  10,
				Marks:       numbers(singleDecadeMarks),
				Rules:       division.SingleDecadeLogName,
			},
		},
	}
}
