package engine

import (
	"fmt"

	"github.com/jfenner/vitalog/pkg/types"
)

// LocalAnalysis synthesizes insights and suggestions purely from extracted
// metrics, with no external call. It is the deterministic fallback used by
// the orchestration layer when enrichment fails entirely, so every entry
// always produces usable output. Its insight categories are not guaranteed
// to mirror the AI generator's; the two are independent strategies behind
// one result shape.
func LocalAnalysis(metrics types.Metrics) types.EnrichedAnalysis {
	var insights []string
	var suggestions []string

	switch {
	case metrics.SleepHours == nil:
		insights = append(insights, "No sleep duration was mentioned in this entry.")
		suggestions = append(suggestions, "Try noting how long you slept to build a sleep picture over time.")
	case *metrics.SleepHours < 6:
		insights = append(insights, fmt.Sprintf("Sleep duration of %.1f hours is below the commonly recommended 7-9 hour range.", *metrics.SleepHours))
		suggestions = append(suggestions, "Consider an earlier bedtime to move toward 7-9 hours of sleep.")
	case *metrics.SleepHours > 9:
		insights = append(insights, fmt.Sprintf("Sleep duration of %.1f hours is above the typical range; long sleep can reflect recovery or disrupted rest.", *metrics.SleepHours))
	default:
		insights = append(insights, fmt.Sprintf("Sleep duration of %.1f hours falls within the commonly recommended range.", *metrics.SleepHours))
	}

	if metrics.ExerciseMinutes == nil {
		suggestions = append(suggestions, "Even a short walk counts - consider logging any movement you get.")
	} else {
		insights = append(insights, fmt.Sprintf("Physical activity was recorded (%.0f).", *metrics.ExerciseMinutes))
	}

	switch metrics.Mood {
	case types.MoodNegative:
		insights = append(insights, "The entry carries a negative mood signal.")
		suggestions = append(suggestions, "A brief check-in with something you enjoy may help shift the day.")
	case types.MoodPositive:
		insights = append(insights, "The entry carries a positive mood signal.")
	}

	if metrics.Energy == types.EnergyLow {
		insights = append(insights, "Low energy was reported; sleep, hydration, and activity are the usual levers.")
	}

	if len(metrics.Symptoms) > 0 {
		insights = append(insights, fmt.Sprintf("Symptoms noted: %d distinct signal(s).", len(metrics.Symptoms)))
		suggestions = append(suggestions, "If symptoms persist across entries, consider discussing them with a professional.")
	}

	return types.EnrichedAnalysis{
		Metrics:     metrics,
		Insights:    insights,
		Suggestions: suggestions,
		Cached:      false,
		Source:      "local",
	}
}
