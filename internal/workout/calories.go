package workout

import "time"

// BurnRate is the kcal burned per minute per kilogram of body weight.
const BurnRate = 3.6

// BurnedCalories estimates kcal burned over elapsedMinutes for a person of weightKg.
func BurnedCalories(elapsedMinutes, weightKg float64) float64 {
	return elapsedMinutes * weightKg * BurnRate
}

// CaloriesFor is BurnedCalories for a duration.
func CaloriesFor(elapsed time.Duration, weightKg float64) float64 {
	return BurnedCalories(elapsed.Minutes(), weightKg)
}
