package feature

import (
	"math"
	"testing"
)

func TestCategoricalFeatureLevels(t *testing.T) {
	f := NewCategoricalFeature("color", []string{"red", "green", "red", "blue"})
	if len(f.Levels()) != 3 {
		t.Fatalf("expected repeated levels to be collapsed, got %v", f.Levels())
	}
	if i, ok := f.LevelIndex("blue"); !ok || i != 2 {
		t.Errorf("expected blue at index 2, got %d %v", i, ok)
	}
	if i, ok := f.LevelIndex("purple"); ok || i != UnknownLevel {
		t.Errorf("expected purple to be unknown, got %d %v", i, ok)
	}
	if f.Level(7) != "?" {
		t.Errorf("expected ? for out of range level, got %s", f.Level(7))
	}
	if ok, err := f.Valid("purple"); ok || err == nil {
		t.Errorf("expected purple to be invalid")
	}
}

func TestNumericFeatureValid(t *testing.T) {
	f := NewNumericFeature("size")
	if ok, err := f.Valid(1.5); !ok || err != nil {
		t.Errorf("expected 1.5 to be valid, got %v", err)
	}
	for _, v := range []interface{}{math.NaN(), math.Inf(1), "1.5"} {
		if ok, _ := f.Valid(v); ok {
			t.Errorf("expected %v to be invalid", v)
		}
	}
}

func TestConditionStrings(t *testing.T) {
	size := NewNumericFeature("size")
	color := NewCategoricalFeature("color", []string{"red", "green", "blue"})
	cases := []struct {
		c        Condition
		expected string
	}{
		{NewThresholdCondition(size, 7.5, true), "size < 7.5"},
		{NewThresholdCondition(size, 0.25, false), "size >= 0.25"},
		{NewLevelCondition(color, []int{0, 2}, true), "color in {red, blue}"},
		{NewLevelCondition(color, []int{1}, false), "color not in {green}"},
	}
	for _, tc := range cases {
		if tc.c.String() != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, tc.c.String())
		}
	}
}
