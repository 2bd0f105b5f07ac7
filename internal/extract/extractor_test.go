package extract

import (
	"testing"

	"github.com/jfenner/vitalog/pkg/types"
)

func TestExtractSleep(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{"whole hours", "I slept 7 hours last night", f(7)},
		{"fractional hours", "Slept for 7.5 hours and felt rested", f(7.5)},
		{"abbreviated unit", "slept 6 hrs", f(6)},
		{"sleep phrasing", "got some sleep, about 8 hours", f(8)},
		{"no mention", "Went to the office and came home late", nil},
		{"number without unit", "slept like a baby, woke at 7", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text).SleepHours
			if !floatPtrEqual(got, tt.want) {
				t.Errorf("Extract(%q).SleepHours = %v, want %v", tt.text, deref(got), deref(tt.want))
			}
		})
	}
}

func TestExtractExercise(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{"exercised minutes", "Exercised for 30 minutes this morning", f(30)},
		{"worked out", "worked out 45 mins at the gym", f(45)},
		{"ran", "I ran for 20 minutes before breakfast", f(20)},
		{"walked", "walked 60 minutes around the park", f(60)},
		{"hours unit stores raw number", "exercised for 1 hour", f(1)},
		{"no mention", "Stayed in bed all day", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text).ExerciseMinutes
			if !floatPtrEqual(got, tt.want) {
				t.Errorf("Extract(%q).ExerciseMinutes = %v, want %v", tt.text, deref(got), deref(tt.want))
			}
		})
	}
}

func TestExtractMood(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Mood
	}{
		{"positive", "Feeling great today", types.MoodPositive},
		{"negative", "Had a terrible, stressful day", types.MoodNegative},
		{"explicit neutral", "The day was okay I guess", types.MoodNeutral},
		{"positive outranks negative", "A sad morning but an amazing evening", types.MoodPositive},
		{"default when silent", "Did laundry and cooked dinner", types.MoodNeutral},
		{"case insensitive", "HAPPY about the results", types.MoodPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text).Mood; got != tt.want {
				t.Errorf("Extract(%q).Mood = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractEnergy(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Energy
	}{
		{"high", "Felt energetic all afternoon", types.EnergyHigh},
		{"low", "Completely exhausted by noon", types.EnergyLow},
		{"medium", "Had decent energy through the day", types.EnergyMedium},
		{"high outranks low", "Woke up tired but felt energized after coffee", types.EnergyHigh},
		{"absent when silent", "Read a book on the couch", types.Energy("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text).Energy; got != tt.want {
				t.Errorf("Extract(%q).Energy = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSymptoms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single symptom", "Woke up with a headache", []string{"headache"}},
		{"multiple symptoms", "Bad migraine and felt nauseous all day", []string{"headache", "nausea"}},
		{"none", "A perfectly uneventful day", []string{}},
		{"fixed category order", "queasy in the morning, then a headache at night", []string{"headache", "nausea"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text).Symptoms
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q).Symptoms = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Extract(%q).Symptoms[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := "Slept 7.5 hours, exercised for 30 minutes, feeling great but with a slight headache"

	first := Extract(text)
	second := Extract(text)

	if !floatPtrEqual(first.SleepHours, second.SleepHours) {
		t.Errorf("SleepHours differed between runs: %v vs %v", deref(first.SleepHours), deref(second.SleepHours))
	}
	if !floatPtrEqual(first.ExerciseMinutes, second.ExerciseMinutes) {
		t.Errorf("ExerciseMinutes differed between runs: %v vs %v", deref(first.ExerciseMinutes), deref(second.ExerciseMinutes))
	}
	if first.Mood != second.Mood || first.Energy != second.Energy {
		t.Errorf("mood/energy differed between runs: %q/%q vs %q/%q", first.Mood, first.Energy, second.Mood, second.Energy)
	}
	if len(first.Symptoms) != len(second.Symptoms) {
		t.Errorf("Symptoms differed between runs: %v vs %v", first.Symptoms, second.Symptoms)
	}
}

func f(v float64) *float64 { return &v }

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
