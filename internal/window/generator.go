package window

import "iter"

// Generator produces candidate windows over a series time span. Candidate
// starts are t0, t0+Step, t0+2*Step, ... while start < tN; a window's
// effective length is min(start+Length, tN) − start and windows shorter than
// Min are dropped, which governs the trailing partial window at the end of a
// series.
//
// When Step == Length windows are contiguous and non-overlapping; when
// Step < Length they overlap and each record may belong to several windows.
type Generator struct {
	LengthSecs float64
	StepSecs   float64
	MinSecs    float64
}

// Windows returns a lazy sequence of candidate windows over [t0, tN].
// The first window always starts at t0, the first record's timestamp, not at
// a rounded boundary. A degenerate span (tN−t0 < Min) yields no windows.
//
// Yielded windows keep their nominal [start, start+Length) bounds. Record
// selection is boundary-exclusive at the top, so a tail window whose nominal
// end overruns the series still covers the final record; only the min-size
// test uses the span clamped to tN.
func (g Generator) Windows(t0, tN float64) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if g.StepSecs <= 0 || g.LengthSecs <= 0 {
			return
		}
		for start := t0; start < tN; start += g.StepSecs {
			effectiveEnd := start + g.LengthSecs
			if effectiveEnd > tN {
				effectiveEnd = tN
			}
			if effectiveEnd-start < g.MinSecs {
				continue
			}
			if !yield(Window{StartSecs: start, EndSecs: start + g.LengthSecs}) {
				return
			}
		}
	}
}
