package engine

import (
	"sort"
	"time"

	"github.com/jfenner/vitalog/pkg/types"
)

// Trend classification thresholds: percent change between the means of the
// two time halves of a series.
const (
	trendImprovingThreshold = 10.0
	trendDecliningThreshold = -10.0
)

// moodScale maps moods onto a numeric scale for trend classification.
var moodScale = map[types.Mood]float64{
	types.MoodPositive: 3,
	types.MoodNeutral:  2,
	types.MoodNegative: 1,
}

// Aggregate combines the per-entry results of a batch, ordered by entry
// time, into a single report. Failed entries count toward the failure
// partition; every statistic is computed over the successes only.
func Aggregate(results []types.EntryResult) *types.AggregateReport {
	report := &types.AggregateReport{
		TotalEntries:   len(results),
		CommonSymptoms: []types.RankedItem{},
		Trends: types.ReportTrends{
			Sleep:    types.TrendStable,
			Exercise: types.TrendStable,
			Mood:     types.TrendStable,
		},
		GeneratedAt: time.Now(),
	}

	var successes []*types.EnrichedAnalysis
	for _, r := range results {
		if r.Analysis != nil && r.Error == "" {
			successes = append(successes, r.Analysis)
		}
	}
	report.SuccessCount = len(successes)
	report.FailureCount = len(results) - len(successes)

	if len(successes) == 0 {
		report.PredominantMood = types.MoodNeutral
		return report
	}

	// Averages treat an absent signal as 0 rather than excluding the entry
	// from the denominator.
	var sleepSum, exerciseSum float64
	sleepSeries := make([]float64, 0, len(successes))
	exerciseSeries := make([]float64, 0, len(successes))
	moodSeries := make([]float64, 0, len(successes))

	symptomCounter := newCounter()
	moodCounter := newCounter()
	energyCounter := newCounter()

	for _, a := range successes {
		var sleep, exercise float64
		if a.Metrics.SleepHours != nil {
			sleep = *a.Metrics.SleepHours
		}
		if a.Metrics.ExerciseMinutes != nil {
			exercise = *a.Metrics.ExerciseMinutes
		}
		sleepSum += sleep
		exerciseSum += exercise
		sleepSeries = append(sleepSeries, sleep)
		exerciseSeries = append(exerciseSeries, exercise)

		if score, ok := moodScale[a.Metrics.Mood]; ok {
			moodSeries = append(moodSeries, score)
		}

		for _, s := range a.Metrics.Symptoms {
			symptomCounter.add(s)
		}
		moodCounter.add(string(a.Metrics.Mood))
		if a.Metrics.Energy != "" {
			energyCounter.add(string(a.Metrics.Energy))
		}
	}

	report.AverageSleep = sleepSum / float64(len(successes))
	report.AverageExercise = exerciseSum / float64(len(successes))
	report.CommonSymptoms = symptomCounter.ranked()

	if top := moodCounter.ranked(); len(top) > 0 {
		report.PredominantMood = types.Mood(top[0].Value)
	} else {
		report.PredominantMood = types.MoodNeutral
	}
	if top := energyCounter.ranked(); len(top) > 0 {
		report.PredominantEnergy = types.Energy(top[0].Value)
	}

	report.Trends = types.ReportTrends{
		Sleep:    CalculateTrend(sleepSeries),
		Exercise: CalculateTrend(exerciseSeries),
		Mood:     CalculateTrend(moodSeries),
	}

	return report
}

// CalculateTrend classifies the direction of a time-ordered numeric series.
// The series is split into an earlier half (floor length) and a later half
// (the remainder); the percent change between the half means decides the
// classification. Fewer than 2 points, or a zero first-half mean, is stable.
func CalculateTrend(series []float64) types.Trend {
	if len(series) < 2 {
		return types.TrendStable
	}

	mid := len(series) / 2
	firstMean := mean(series[:mid])
	secondMean := mean(series[mid:])

	if firstMean == 0 {
		return types.TrendStable
	}

	percentChange := (secondMean - firstMean) / firstMean * 100
	switch {
	case percentChange > trendImprovingThreshold:
		return types.TrendImproving
	case percentChange < trendDecliningThreshold:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// counter tallies discrete values preserving first-seen order so that
// ranking ties break deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// ranked returns the tallied values sorted by descending count, ties broken
// by first-seen order.
func (c *counter) ranked() []types.RankedItem {
	firstSeen := make(map[string]int, len(c.order))
	for i, v := range c.order {
		firstSeen[v] = i
	}

	items := make([]types.RankedItem, 0, len(c.order))
	for _, v := range c.order {
		items = append(items, types.RankedItem{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return firstSeen[items[i].Value] < firstSeen[items[j].Value]
	})
	return items
}
