// Package extract implements deterministic, pattern-based extraction of
// health signals from free-text journal entries. Extraction never fails:
// a signal that is absent from the text yields a nil/default value, not an
// error, so downstream analysis always has usable metrics to work with.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

// Sleep and exercise duration patterns. Matching runs against a single
// lower-cased copy of the entry text, so the patterns themselves are
// lowercase. First occurrence wins.
var (
	sleepPattern = regexp.MustCompile(`\bsle(?:pt|ep)\b[^0-9]{0,40}?(\d+(?:\.\d+)?)\s*h(?:ou)?rs?`)

	// The raw matched number is stored even when the unit is hours; no
	// hour-to-minute conversion is performed. Documented behavior, not a bug.
	exercisePattern = regexp.MustCompile(`\b(?:exercis\w*|worked\s+out|work(?:ing)?\s+out|ran|jog\w*|walk\w*)\b[^0-9]{0,40}?(\d+(?:\.\d+)?)\s*(?:min(?:ute)?s?|h(?:ou)?rs?)`)
)

// moodPatterns is an ordered list tested with first-match-wins semantics.
// Order encodes priority: positive, then negative, then neutral.
var moodPatterns = []struct {
	mood    types.Mood
	pattern *regexp.Regexp
}{
	{types.MoodPositive, regexp.MustCompile(`\b(?:happy|great|good|amazing|wonderful|excellent|fantastic|joy\w*|excited|grateful|content)\b`)},
	{types.MoodNegative, regexp.MustCompile(`\b(?:sad|bad|terrible|awful|depress\w*|anxious|anxiety|stress\w*|angry|upset|miserable|frustrat\w*)\b`)},
	{types.MoodNeutral, regexp.MustCompile(`\b(?:okay|ok|fine|alright|normal|average|so-so)\b`)},
}

// energyPatterns is ordered high, low, medium; first match wins. No match
// leaves the energy signal absent rather than forcing a default.
var energyPatterns = []struct {
	energy  types.Energy
	pattern *regexp.Regexp
}{
	{types.EnergyHigh, regexp.MustCompile(`\b(?:energetic|energized|high energy|full of energy|refreshed|invigorated)\b`)},
	{types.EnergyLow, regexp.MustCompile(`\b(?:tired|exhausted|drained|fatigued|sluggish|low energy|worn out|weary)\b`)},
	{types.EnergyMedium, regexp.MustCompile(`\b(?:decent energy|moderate energy|some energy)\b`)},
}

// symptomPatterns maps symptom tags to their keyword patterns. Unlike mood
// and energy, every category is tested independently (match-any semantics),
// so one entry can carry several symptom tags.
var symptomPatterns = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"headache", regexp.MustCompile(`\b(?:headache|migraine|head hurt\w*|head pain)\b`)},
	{"nausea", regexp.MustCompile(`\b(?:nausea|nauseous|queasy|sick to my stomach|vomit\w*|threw up)\b`)},
	{"fatigue", regexp.MustCompile(`\b(?:fatigue|fatigued|exhausted|no energy|wiped out)\b`)},
	{"pain", regexp.MustCompile(`\b(?:pain|ache|aching|sore|hurts?|cramp\w*)\b`)},
	{"dizziness", regexp.MustCompile(`\b(?:dizzy|dizziness|lightheaded|vertigo)\b`)},
	{"fever", regexp.MustCompile(`\b(?:fever|feverish|chills|hot flashes)\b`)},
	{"insomnia", regexp.MustCompile(`\b(?:insomnia|couldn't sleep|can't sleep|trouble sleeping|sleepless)\b`)},
	{"congestion", regexp.MustCompile(`\b(?:congest\w*|stuffy nose|runny nose|cough\w*|sore throat|sneez\w*)\b`)},
}

// Extract derives a Metrics value from one entry's text. It is synchronous,
// side-effect-free, and deterministic: the same text always yields the same
// metrics (modulo the ExtractedAt timestamp).
func Extract(text string) types.Metrics {
	lower := strings.ToLower(text)

	return types.Metrics{
		SleepHours:      extractSleep(lower),
		ExerciseMinutes: extractExercise(lower),
		Mood:            extractMood(lower),
		Energy:          extractEnergy(lower),
		Symptoms:        extractSymptoms(lower),
		ExtractedAt:     time.Now(),
	}
}

// extractSleep returns the hours from the first sleep-duration mention,
// or nil when the text has none.
func extractSleep(lower string) *float64 {
	m := sleepPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	return parseNumber(m[1])
}

// extractExercise returns the duration from the first activity mention,
// or nil when the text has none. The matched number is stored as-is
// regardless of whether the unit was minutes or hours.
func extractExercise(lower string) *float64 {
	m := exercisePattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	return parseNumber(m[1])
}

// extractMood tests the mood categories in priority order and returns the
// first that matches, defaulting to neutral.
func extractMood(lower string) types.Mood {
	for _, mp := range moodPatterns {
		if mp.pattern.MatchString(lower) {
			return mp.mood
		}
	}
	return types.MoodNeutral
}

// extractEnergy tests the energy categories in priority order and returns
// the first that matches. No match yields the empty value.
func extractEnergy(lower string) types.Energy {
	for _, ep := range energyPatterns {
		if ep.pattern.MatchString(lower) {
			return ep.energy
		}
	}
	return ""
}

// extractSymptoms returns the tags of every symptom category whose pattern
// matches. The result preserves the fixed category order and is never nil.
func extractSymptoms(lower string) []string {
	symptoms := make([]string, 0, 2)
	for _, sp := range symptomPatterns {
		if sp.pattern.MatchString(lower) {
			symptoms = append(symptoms, sp.tag)
		}
	}
	return symptoms
}

func parseNumber(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
