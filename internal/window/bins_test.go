package window

import (
	"strings"
	"testing"
)

func TestClassifier_SingleCutpoint(t *testing.T) {
	// Observed mean-power distribution {10,20,30,40} with a 25th
	// percentile cutpoint: the threshold falls between 10 and 20, so the
	// windows split into exactly two bins.
	values := []float64{10, 20, 30, 40}
	c, err := NewClassifier(values, []float64{25}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	thresholds := c.Thresholds()
	if len(thresholds) != 1 {
		t.Fatalf("expected 1 threshold, got %v", thresholds)
	}
	if thresholds[0] != 17.5 {
		t.Errorf("25th percentile of {10,20,30,40} = %f, want 17.5 (linear interpolation)", thresholds[0])
	}

	labels := c.Labels()
	if len(labels) != 2 {
		t.Fatalf("expected 2 bin labels, got %v", labels)
	}
	for _, label := range labels {
		if !strings.Contains(label, "25.0") {
			t.Errorf("label %q should reflect the 25 cutpoint", label)
		}
	}

	var sum Summary
	if got := c.Classify(&sum, 10); got != labels[0] {
		t.Errorf("value 10 classified as %q, want %q", got, labels[0])
	}
	for _, v := range []float64{20, 30, 40} {
		if got := c.Classify(&sum, v); got != labels[1] {
			t.Errorf("value %f classified as %q, want %q", v, got, labels[1])
		}
	}
}

func TestClassifier_BoundaryBelongsToUpperBin(t *testing.T) {
	// Median of {10,20,30} is exactly 20 under any interpolation
	// convention; the boundary value goes to the upper bin.
	c, err := NewClassifier([]float64{10, 20, 30}, []float64{50}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	thresholds := c.Thresholds()
	if thresholds[0] != 20 {
		t.Fatalf("median of {10,20,30} should be 20, got %f", thresholds[0])
	}

	var sum Summary
	labels := c.Labels()
	if got := c.Classify(&sum, 20); got != labels[1] {
		t.Errorf("boundary value 20 classified as %q, want upper bin %q", got, labels[1])
	}
	if got := c.Classify(&sum, 19.999); got != labels[0] {
		t.Errorf("value just below boundary classified as %q, want lower bin %q", got, labels[0])
	}
}

func TestClassifier_MultipleCutpoints(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	c, err := NewClassifier(values, []float64{25, 75}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	labels := c.Labels()
	want := []string{"bin0 <25.0%", "bin1 25.0-75.0%", "bin2 >=75.0%"}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("label %d = %q, want %q", i, labels[i], w)
		}
	}

	// Every value lands in exactly one bin: the label set partitions the axis
	var sum Summary
	counts := make(map[string]int)
	for _, v := range values {
		counts[c.Classify(&sum, v)]++
	}
	total := 0
	for _, label := range labels {
		total += counts[label]
	}
	if total != len(values) {
		t.Errorf("classification not exhaustive: %v", counts)
	}
	for label, n := range counts {
		if n == 0 {
			t.Errorf("bin %q received no values from a uniform distribution", label)
		}
	}
}

func TestClassifier_UnsortedCutpointsAndValues(t *testing.T) {
	c1, err := NewClassifier([]float64{40, 10, 30, 20}, []float64{75, 25}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	c2, err := NewClassifier([]float64{10, 20, 30, 40}, []float64{25, 75}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	t1, t2 := c1.Thresholds(), c2.Thresholds()
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Errorf("threshold %d differs for unsorted input: %f vs %f", i, t1[i], t2[i])
		}
	}
}

func TestClassifier_TrueIdleOverride(t *testing.T) {
	c, err := NewClassifier([]float64{10, 20, 30, 40}, []float64{25}, true)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	labels := c.Labels()
	if labels[len(labels)-1] != TrueIdleBinLabel {
		t.Fatalf("idle bin label should be last, got %v", labels)
	}

	// High power but true idle: the idle bin wins
	idle := Summary{TrueIdle: true}
	if got := c.Classify(&idle, 40); got != TrueIdleBinLabel {
		t.Errorf("true-idle window classified as %q, want %q", got, TrueIdleBinLabel)
	}

	// Idle bin disabled: the flag is ignored
	noIdle, err := NewClassifier([]float64{10, 20, 30, 40}, []float64{25}, false)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	if got := noIdle.Classify(&idle, 40); got == TrueIdleBinLabel {
		t.Error("idle label assigned with true_idle_bin disabled")
	}
}

func TestClassifier_NoValues(t *testing.T) {
	if _, err := NewClassifier(nil, []float64{25}, false); err == nil {
		t.Error("expected error for empty observed distribution")
	}
}

func TestClassifier_LabelStability(t *testing.T) {
	// Labels depend only on the cutpoint configuration, not the data
	a, _ := NewClassifier([]float64{1, 2, 3}, []float64{25}, true)
	b, _ := NewClassifier([]float64{100, 200, 300}, []float64{25}, true)
	la, lb := a.Labels(), b.Labels()
	if len(la) != len(lb) {
		t.Fatalf("label counts differ: %v vs %v", la, lb)
	}
	for i := range la {
		if la[i] != lb[i] {
			t.Errorf("label %d differs across runs: %q vs %q", i, la[i], lb[i])
		}
	}
}
