// Package types defines the core data structures for the Vitalog journal
// analysis system: journal entries, extracted metrics, enriched analyses,
// aggregate reports, and composite health scores.
package types

import "time"

// Mood represents the overall mood signal extracted from an entry.
type Mood string

// Mood constants
const (
	MoodPositive Mood = "positive"
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
)

// Energy represents the energy level signal extracted from an entry.
// An empty value means no energy signal was present in the text.
type Energy string

// Energy constants
const (
	EnergyHigh   Energy = "high"
	EnergyMedium Energy = "medium"
	EnergyLow    Energy = "low"
)

// Trend classifies the direction of a numeric series across two time halves.
type Trend string

// Trend constants
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Entry content length bounds enforced on the analysis endpoints.
const (
	MinContentLength = 1
	MaxContentLength = 10000
)

// JournalEntry is a single free-text journal submission.
// It is created by the caller and immutable once analyzed.
type JournalEntry struct {
	ID        string    `json:"id"`        // Opaque identifier supplied by the caller
	Timestamp time.Time `json:"timestamp"` // When the entry was written
	Content   string    `json:"content"`   // Free text, 1-10000 chars
}

// Metrics holds the structured health signals extracted from one entry's text.
// Produced exactly once per entry by the local extractor and never mutated
// afterward. Nil pointer fields mean the corresponding signal was absent.
type Metrics struct {
	SleepHours      *float64  `json:"sleep_hours"`      // Hours slept, nil when no sleep mention
	ExerciseMinutes *float64  `json:"exercise_minutes"` // Raw matched duration, nil when no exercise mention
	Mood            Mood      `json:"mood"`             // Defaults to neutral when no keyword matches
	Energy          Energy    `json:"energy,omitempty"` // Empty when no energy keyword matches
	Symptoms        []string  `json:"symptoms"`         // Symptom tags, match-any semantics
	ExtractedAt     time.Time `json:"extracted_at"`
}

// EnrichedAnalysis is the full analysis of one entry: extracted metrics plus
// narrative insights and suggestions. Insights come either from the AI
// enrichment path or, when enrichment fails entirely, from the deterministic
// local fallback generator.
type EnrichedAnalysis struct {
	Metrics     Metrics  `json:"metrics"`
	Insights    []string `json:"insights"`
	Suggestions []string `json:"suggestions"`
	Cached      bool     `json:"cached"`           // True when served from the enrichment cache
	Source      string   `json:"source,omitempty"` // "ai" or "local"
}

// EntryResult is the per-entry outcome of a batch analysis. Exactly one of
// Analysis or Error is populated; a failed entry never aborts the batch.
type EntryResult struct {
	EntryID  string            `json:"entry_id"`
	Analysis *EnrichedAnalysis `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// RankedItem is one value in a most-common ranking, ordered by descending
// count with ties broken by first-seen order.
type RankedItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AggregateReport summarizes a batch of per-entry analyses. It is derived
// data, recomputed fresh on every aggregation call.
type AggregateReport struct {
	TotalEntries      int          `json:"total_entries"`
	SuccessCount      int          `json:"success_count"`
	FailureCount      int          `json:"failure_count"`
	AverageSleep      float64      `json:"average_sleep"`
	AverageExercise   float64      `json:"average_exercise"`
	CommonSymptoms    []RankedItem `json:"common_symptoms"`
	PredominantMood   Mood         `json:"predominant_mood"`
	PredominantEnergy Energy       `json:"predominant_energy,omitempty"`
	Trends            ReportTrends `json:"trends"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// ReportTrends holds the per-signal trend classifications of a report.
type ReportTrends struct {
	Sleep    Trend `json:"sleep"`
	Exercise Trend `json:"exercise"`
	Mood     Trend `json:"mood"`
}

// HealthScore is the 0-100 composite score for a reporting period together
// with its five sub-scores.
type HealthScore struct {
	Value      int             `json:"value"` // 0-100, weighted sum of components
	Components ScoreComponents `json:"components"`
	ComputedAt time.Time       `json:"computed_at"`
}

// ScoreComponents holds the five 0-100 sub-scores feeding the composite.
type ScoreComponents struct {
	Sleep     float64 `json:"sleep"`
	Exercise  float64 `json:"exercise"`
	Mood      float64 `json:"mood"`
	Habits    float64 `json:"habits"`
	Nutrition float64 `json:"nutrition"`
}

// ScoreEntry is one period entry feeding the health score calculator.
// Quality and intensity labels are caller-supplied; unknown labels fall back
// to the calculator's defaults.
type ScoreEntry struct {
	SleepHours        float64 `json:"sleep_hours"`
	SleepQuality      string  `json:"sleep_quality,omitempty"`      // good, normal, poor
	ExerciseMinutes   float64 `json:"exercise_minutes"`
	ExerciseIntensity string  `json:"exercise_intensity,omitempty"` // high, moderate, low
	Mood              string  `json:"mood,omitempty"`               // very positive .. very negative
	WaterIntakeML     float64 `json:"water_intake_ml"`
	MealsLogged       int     `json:"meals_logged"`
}

// HabitRecord is an externally supplied habit tracking record.
type HabitRecord struct {
	Name          string `json:"name"`
	Streak        int    `json:"streak"`
	CompletedDays int    `json:"completed_days"`
	TotalDays     int    `json:"total_days"`
}

// IsValidMood reports whether s is a recognized mood value.
func IsValidMood(s string) bool {
	switch Mood(s) {
	case MoodPositive, MoodNegative, MoodNeutral:
		return true
	}
	return false
}

// IsValidEnergy reports whether s is a recognized energy value.
func IsValidEnergy(s string) bool {
	switch Energy(s) {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}
