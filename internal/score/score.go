// Package score implements the composite health score: a weighted blend of
// sleep, exercise, mood, habit, and nutrition sub-scores computed over a
// reporting period. Every sub-score is on a 0-100 scale.
package score

import (
	"log"
	"math"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

// Component weights. They must sum to 1.0.
const (
	WeightSleep     = 0.25
	WeightExercise  = 0.25
	WeightMood      = 0.20
	WeightHabits    = 0.15
	WeightNutrition = 0.15
)

// Sub-score targets and label defaults.
const (
	sleepTargetHours      = 8.0
	exerciseTargetMinutes = 30.0
	weeklyExerciseTarget  = 150.0
	waterTargetML         = 2000.0
)

var sleepQualityScores = map[string]float64{
	"good":   100,
	"normal": 70,
	"poor":   40,
}

var intensityScores = map[string]float64{
	"high":     100,
	"moderate": 70,
	"low":      40,
}

var moodScores = map[string]float64{
	"very positive": 100,
	"positive":      80,
	"neutral":       60,
	"negative":      40,
	"very negative": 20,
}

// Calculate produces the period's health score from its entries and
// externally supplied habit records. An all-empty input yields score 0.
// Any computation error is caught and reported as a zero score rather than
// propagated: the score is a fail-safe summary, never a crash source.
func Calculate(entries []types.ScoreEntry, habits []types.HabitRecord) (result types.HealthScore) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("score: computation failed, reporting zero score: %v", r)
			result = types.HealthScore{ComputedAt: time.Now()}
		}
	}()

	result = types.HealthScore{ComputedAt: time.Now()}
	if len(entries) == 0 && len(habits) == 0 {
		return result
	}

	components := types.ScoreComponents{
		Sleep:     sleepScore(entries),
		Exercise:  exerciseScore(entries),
		Mood:      moodScore(entries),
		Habits:    habitScore(habits),
		Nutrition: nutritionScore(entries),
	}

	weighted := components.Sleep*WeightSleep +
		components.Exercise*WeightExercise +
		components.Mood*WeightMood +
		components.Habits*WeightHabits +
		components.Nutrition*WeightNutrition

	result.Components = components
	result.Value = int(math.Round(clamp(weighted)))
	return result
}

// sleepScore = 0.4 * consistency + 0.6 * quality. Consistency starts at 100
// and loses 10 points per hour of mean absolute deviation from the 8-hour
// target; quality averages the per-entry quality labels.
func sleepScore(entries []types.ScoreEntry) float64 {
	if len(entries) == 0 {
		return 0
	}

	hours := make([]float64, len(entries))
	for i, e := range entries {
		hours[i] = e.SleepHours
	}
	consistency := deviationScore(hours, sleepTargetHours)

	var qualitySum float64
	for _, e := range entries {
		qualitySum += labelScore(sleepQualityScores, e.SleepQuality, 70)
	}
	quality := qualitySum / float64(len(entries))

	return 0.4*consistency + 0.6*quality
}

// exerciseScore = 0.4 * consistency + 0.3 * intensity + 0.3 * volume, where
// volume is weekly average minutes against the 150-minute guideline.
func exerciseScore(entries []types.ScoreEntry) float64 {
	if len(entries) == 0 {
		return 0
	}

	minutes := make([]float64, len(entries))
	var total float64
	for i, e := range entries {
		minutes[i] = e.ExerciseMinutes
		total += e.ExerciseMinutes
	}
	consistency := deviationScore(minutes, exerciseTargetMinutes)

	var intensitySum float64
	for _, e := range entries {
		intensitySum += labelScore(intensityScores, e.ExerciseIntensity, 70)
	}
	intensity := intensitySum / float64(len(entries))

	weeklyAverage := total / float64(len(entries)) * 7
	volume := math.Min(100, weeklyAverage/weeklyExerciseTarget*100)

	return 0.4*consistency + 0.3*intensity + 0.3*volume
}

// moodScore averages the 5-point mood label map, defaulting unrecognized
// labels to 60.
func moodScore(entries []types.ScoreEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += labelScore(moodScores, e.Mood, 60)
	}
	return sum / float64(len(entries))
}

// habitScore averages, over habits, 0.6 * capped streak credit plus
// 0.4 * completion rate. No habits means 0.
func habitScore(habits []types.HabitRecord) float64 {
	if len(habits) == 0 {
		return 0
	}
	var sum float64
	for _, h := range habits {
		streak := math.Min(100, float64(h.Streak)*10)
		var completion float64
		if h.TotalDays > 0 {
			completion = float64(h.CompletedDays) / float64(h.TotalDays) * 100
		}
		sum += 0.6*streak + 0.4*completion
	}
	return sum / float64(len(habits))
}

// nutritionScore averages, over entries, equal parts hydration against the
// 2L target and logged meals (25 points each, capped).
func nutritionScore(entries []types.ScoreEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		water := math.Min(100, e.WaterIntakeML/waterTargetML*100)
		meals := math.Min(100, float64(e.MealsLogged)*25)
		sum += 0.5*water + 0.5*meals
	}
	return sum / float64(len(entries))
}

// deviationScore is the shared consistency formula: 100 minus 10 points per
// unit of mean absolute deviation from target, clamped to [0,100].
func deviationScore(values []float64, target float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var devSum float64
	for _, v := range values {
		devSum += math.Abs(v - target)
	}
	mad := devSum / float64(len(values))
	return clamp(100 - 10*mad)
}

func labelScore(table map[string]float64, label string, def float64) float64 {
	if s, ok := table[label]; ok {
		return s
	}
	return def
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
