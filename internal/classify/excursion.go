package classify

import "github.com/shiftsense/shiftsense/internal/model"

// Excursion is an out-and-back bracket: a perimeter exit followed by a
// re-entry with no work-capable zone visited in between. The classified
// events keep their COMMUTE_OUT/COMMUTE_IN labels; the bracket tells the
// segment builder to emit the span as a single NON_WORK absence instead.
type Excursion struct {
	Out, In    int // event indexes
	Confidence int
}

// Excursions detects out-and-back brackets in a classified sequence.
// Absences at or past the certainty threshold get the higher confidence;
// longer absences are more certainly non-work.
func Excursions(events []model.ClassifiedEvent, cfg Config) []Excursion {
	var brackets []Excursion

	for i := 0; i < len(events); i++ {
		if events[i].Activity != model.ActivityCommuteOut {
			continue
		}

		j := i + 1
		blocked := false
		for ; j < len(events); j++ {
			if events[j].Activity == model.ActivityCommuteIn {
				break
			}
			if events[j].Zone.WorkCapable() {
				blocked = true
				break
			}
		}
		if blocked || j >= len(events) {
			continue
		}

		conf := confExcursion
		if events[j].Timestamp.Sub(events[i].Timestamp) >= cfg.ExcursionCertain {
			conf = confExcursionLong
		}
		brackets = append(brackets, Excursion{Out: i, In: j, Confidence: conf})
		i = j
	}

	return brackets
}
