package service

// bmiCalorieThreshold is the calorie cut-off applied to underweight and
// overweight users. It is a fixed design constant, not user
// configuration: overweight users only see recipes at or under it,
// underweight users only at or over it. It is a coarse heuristic kept
// bit-for-bit for compatibility with existing clients.
const bmiCalorieThreshold = 400.0

// BMIClass is the derived weight category used only to pick a calorie
// filter. It is not a medical assessment.
type BMIClass int

const (
	BMINormal BMIClass = iota
	BMIUnderweight
	BMIOverweight
)

// ClassifyBMI computes weight/(height/100)^2 and buckets the result.
// The underweight boundary is strict: exactly 18.5 is normal.
func ClassifyBMI(heightCm, weightKg float64) BMIClass {
	meters := heightCm / 100
	bmi := weightKg / (meters * meters)
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi >= 25:
		return BMIOverweight
	default:
		return BMINormal
	}
}

// CalorieFilter bounds candidate recipes by calories. Nil bounds mean
// no constraint. The zero value allows everything.
type CalorieFilter struct {
	Min *float64
	Max *float64
}

// Allows reports whether a recipe with the given calories passes.
func (f CalorieFilter) Allows(calories float64) bool {
	if f.Min != nil && calories < *f.Min {
		return false
	}
	if f.Max != nil && calories > *f.Max {
		return false
	}
	return true
}

// CaloriePolicy derives the calorie filter from the user's survey.
// Missing height or weight disables filtering entirely.
func CaloriePolicy(heightCm, weightKg *float64) CalorieFilter {
	if heightCm == nil || weightKg == nil {
		return CalorieFilter{}
	}
	threshold := bmiCalorieThreshold
	switch ClassifyBMI(*heightCm, *weightKg) {
	case BMIOverweight:
		return CalorieFilter{Max: &threshold}
	case BMIUnderweight:
		return CalorieFilter{Min: &threshold}
	default:
		return CalorieFilter{}
	}
}
