package model

import (
	"math"
	"testing"
)

func TestD20References(t *testing.T) {
	d := D20()
	if got := d.IdealMean(); got != 10.5 {
		t.Fatalf("expected ideal mean 10.5, got %v", got)
	}
	if got := d.IdealStdDev(); math.Abs(got-5.766) > 0.001 {
		t.Fatalf("expected ideal stddev ~5.766, got %v", got)
	}
	if got := d.UniformPct(); got != 5 {
		t.Fatalf("expected uniform pct 5, got %v", got)
	}
	faces := d.FaceValues()
	if len(faces) != 20 || faces[0] != 1 || faces[19] != 20 {
		t.Fatalf("unexpected faces: %v", faces)
	}
}

func TestUniformPctZeroFaces(t *testing.T) {
	if got := (Die{}).UniformPct(); got != 0 {
		t.Fatalf("expected 0 for a die without faces, got %v", got)
	}
}
