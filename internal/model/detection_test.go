package model

import (
	"math"
	"testing"
)

func TestDominantEmotion(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[string]float64
		expected string
	}{
		{"clear winner", map[string]float64{"happy": 92.1, "sad": 1.2, "neutral": 6.7}, "happy"},
		{"tie picks smallest label", map[string]float64{"sad": 50, "angry": 50}, "angry"},
		{"single label", map[string]float64{"fear": 0.3}, "fear"},
		{"empty", map[string]float64{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantEmotion(tt.scores); got != tt.expected {
				t.Errorf("DominantEmotion() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFaceDetection_Confidence(t *testing.T) {
	face := NewFaceDetection(Region{}, map[string]float64{"happy": 75, "sad": 25})

	if face.Dominant != "happy" {
		t.Errorf("Expected dominant happy, got %s", face.Dominant)
	}
	if got := face.Confidence("happy"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected 0.75, got %f", got)
	}
	if got := face.Confidence("angry"); got != 0 {
		t.Errorf("Expected 0 for missing label, got %f", got)
	}
	if got := (FaceDetection{}).Confidence("happy"); got != 0 {
		t.Errorf("Expected 0 without scores, got %f", got)
	}
}

func TestRegion_ClampTo(t *testing.T) {
	tests := []struct {
		name     string
		region   Region
		expected Region
	}{
		{"inside", Region{X: 10, Y: 10, W: 20, H: 20}, Region{X: 10, Y: 10, W: 20, H: 20}},
		{"overflows right and bottom", Region{X: 90, Y: 40, W: 30, H: 30}, Region{X: 90, Y: 40, W: 10, H: 10}},
		{"negative origin", Region{X: -5, Y: -5, W: 15, H: 15}, Region{X: 0, Y: 0, W: 10, H: 10}},
		{"outside", Region{X: 200, Y: 200, W: 5, H: 5}, Region{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.ClampTo(100, 50); got != tt.expected {
				t.Errorf("ClampTo() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}
