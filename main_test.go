package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCutpoints(t *testing.T) {
	got, err := parseCutpoints("25, 75,90")
	if err != nil {
		t.Fatalf("parseCutpoints failed: %v", err)
	}
	if diff := cmp.Diff([]float64{25, 75, 90}, got); diff != "" {
		t.Errorf("cutpoints mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseCutpoints("25,abc"); err == nil {
		t.Error("expected error for non-numeric cutpoint")
	}
	if _, err := parseCutpoints(" , "); err == nil {
		t.Error("expected error for empty cutpoint list")
	}
}

func TestSplitGlobs(t *testing.T) {
	got := splitGlobs(" *.csv, *calcs.csv ,")
	if diff := cmp.Diff([]string{"*.csv", "*calcs.csv"}, got); diff != "" {
		t.Errorf("globs mismatch (-want +got):\n%s", diff)
	}
	if splitGlobs("") != nil {
		t.Error("expected nil for empty glob string")
	}
}
