package window

import (
	"testing"

	"github.com/banshee-data/emissions.report/internal/series"
)

func TestAggregate_BasicStats(t *testing.T) {
	s := newTestSeries(10, 50, 20)
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	sum, ok := agg.Aggregate(s, Window{StartSecs: 0, EndSecs: 5})
	if !ok {
		t.Fatal("expected a summary")
	}

	if sum.RecordCount != 5 {
		t.Errorf("RecordCount = %d, want 5", sum.RecordCount)
	}
	if sum.ElapsedSecs != 4 {
		t.Errorf("ElapsedSecs = %f, want 4 (last minus first selected timestamp)", sum.ElapsedSecs)
	}
	if sum.MeanPowerHP != 50 {
		t.Errorf("MeanPowerHP = %f, want 50", sum.MeanPowerHP)
	}
	if sum.MeanSpeedMPH != 20 {
		t.Errorf("MeanSpeedMPH = %f, want 20", sum.MeanSpeedMPH)
	}
	if sum.TrueIdle {
		t.Error("TrueIdle should be false when speeds exceed the threshold")
	}
}

func TestAggregate_BoundaryExclusive(t *testing.T) {
	// A record exactly at t=5 belongs to the window it opens, [5,10),
	// not the window it closes, [0,5).
	s := newTestSeries(10, 50, 20)
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	first, ok := agg.Aggregate(s, Window{StartSecs: 0, EndSecs: 5})
	if !ok {
		t.Fatal("expected a summary for [0,5)")
	}
	second, ok := agg.Aggregate(s, Window{StartSecs: 5, EndSecs: 10})
	if !ok {
		t.Fatal("expected a summary for [5,10)")
	}

	if first.RecordCount != 5 {
		t.Errorf("[0,5) RecordCount = %d, want 5 (records at t=0..4)", first.RecordCount)
	}
	if second.RecordCount != 5 {
		t.Errorf("[5,10) RecordCount = %d, want 5 (records at t=5..9)", second.RecordCount)
	}
}

func TestAggregate_EmptyWindow(t *testing.T) {
	// Two records with a 100s gap between them: a window in the gap
	// selects nothing and produces no summary.
	s := &series.Series{
		Records: []series.Record{
			{TimeSecs: 0, PowerHP: 10},
			{TimeSecs: 100, PowerHP: 10},
		},
	}
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	if _, ok := agg.Aggregate(s, Window{StartSecs: 20, EndSecs: 40}); ok {
		t.Error("window with no records should produce no summary")
	}
}

func TestAggregate_TrueIdle(t *testing.T) {
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	idle := newTestSeries(10, 15, 0)
	sum, ok := agg.Aggregate(idle, Window{StartSecs: 0, EndSecs: 10})
	if !ok {
		t.Fatal("expected a summary")
	}
	if !sum.TrueIdle {
		t.Error("all speeds below threshold should set TrueIdle")
	}

	// A single record at or above the threshold clears the flag, even
	// though the window mean stays below it.
	mixed := newTestSeries(10, 15, 0)
	mixed.Records[3].SpeedMPH = 1
	sum, ok = agg.Aggregate(mixed, Window{StartSecs: 0, EndSecs: 10})
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.TrueIdle {
		t.Error("TrueIdle requires every record below threshold, not just the mean")
	}
	if sum.MeanSpeedMPH >= agg.IdleSpeedThreshMPH {
		t.Fatalf("test premise broken: mean %f should be below threshold", sum.MeanSpeedMPH)
	}
}

func TestAggregate_EmissionsChannels(t *testing.T) {
	s := withEmissions(newTestSeries(10, 50, 20), 8.0, 0.02)
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	sum, ok := agg.Aggregate(s, Window{StartSecs: 0, EndSecs: 5})
	if !ok {
		t.Fatal("expected a summary")
	}
	if !sum.HasCO2 || !sum.HasNOx {
		t.Fatal("channel presence flags should carry over from the series")
	}
	if sum.MeanCO2GramsPerSec != 8.0 {
		t.Errorf("MeanCO2GramsPerSec = %f, want 8", sum.MeanCO2GramsPerSec)
	}
	if sum.MeanNOxGramsPerSec != 0.02 {
		t.Errorf("MeanNOxGramsPerSec = %f, want 0.02", sum.MeanNOxGramsPerSec)
	}

	// Derived masses and work use the elapsed span
	if got, want := sum.CO2Grams(), 8.0*4; got != want {
		t.Errorf("CO2Grams() = %f, want %f", got, want)
	}
	if got, want := sum.WorkHpHr(), 50.0*4/3600; got != want {
		t.Errorf("WorkHpHr() = %f, want %f", got, want)
	}
}

func TestAggregate_ExtraChannelMeans(t *testing.T) {
	s := newTestSeries(4, 50, 20)
	s.ExtraChannels = []string{"Aftertreatment Out Temp C"}
	for i := range s.Records {
		s.Records[i].Extra = map[string]float64{"Aftertreatment Out Temp C": 100 + float64(i)*2}
	}
	agg := Aggregator{IdleSpeedThreshMPH: 1}

	sum, ok := agg.Aggregate(s, Window{StartSecs: 0, EndSecs: 4})
	if !ok {
		t.Fatal("expected a summary")
	}
	if got := sum.ExtraMeans["Aftertreatment Out Temp C"]; got != 103 {
		t.Errorf("extra channel mean = %f, want 103", got)
	}
}

func TestAggregate_ElapsedNeverExceedsNominal(t *testing.T) {
	s := newTestSeries(100, 50, 20)
	agg := Aggregator{IdleSpeedThreshMPH: 1}
	gen := Generator{LengthSecs: 30, StepSecs: 7, MinSecs: 5}

	t0, tN := s.Span()
	for w := range gen.Windows(t0, tN) {
		sum, ok := agg.Aggregate(s, w)
		if !ok {
			continue
		}
		if sum.ElapsedSecs > gen.LengthSecs {
			t.Errorf("window at %f: elapsed %f exceeds nominal length %f",
				w.StartSecs, sum.ElapsedSecs, gen.LengthSecs)
		}
	}
}
