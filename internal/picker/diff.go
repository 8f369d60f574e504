package picker

import "math"

const diffEpsilon = 1e-9

// TeamDifferences holds team A minus team B for each balancing attribute.
type TeamDifferences struct {
	Goalkeepers int     `json:"goalkeepers"`
	Skill       float64 `json:"skill"`
	UnknownAges int     `json:"unknownAges"`
	AgeSum      float64 `json:"ageSum"`
}

func (d TeamDifferences) magnitudes() [4]float64 {
	return [4]float64{
		math.Abs(float64(d.Goalkeepers)),
		math.Abs(d.Skill),
		math.Abs(float64(d.UnknownAges)),
		math.Abs(d.AgeSum),
	}
}

// CompareDifferences orders two difference vectors lexicographically by
// absolute goalkeeper, skill, unknown-age and age-sum difference. Fields within
// 1e-9 of each other count as equal. It returns -1, 0 or 1.
func CompareDifferences(x, y TeamDifferences) int {
	xm, ym := x.magnitudes(), y.magnitudes()
	for i := range xm {
		delta := xm[i] - ym[i]
		if math.Abs(delta) < diffEpsilon {
			continue
		}
		if delta < 0 {
			return -1
		}
		return 1
	}
	return 0
}

// ComputeDifferences sums each attribute per team, substituting ageFallback
// for unknown ages in the age sum.
func ComputeDifferences(teamA, teamB []Candidate, ageFallback float64) TeamDifferences {
	var d TeamDifferences
	for _, c := range teamA {
		d.add(c, 1, ageFallback)
	}
	for _, c := range teamB {
		d.add(c, -1, ageFallback)
	}
	return d
}

func (d *TeamDifferences) add(c Candidate, sign int, ageFallback float64) {
	if c.IsGoalkeeper {
		d.Goalkeepers += sign
	}
	d.Skill += float64(sign) * c.SkillAverage
	if c.Age == nil {
		d.UnknownAges += sign
		d.AgeSum += float64(sign) * ageFallback
		return
	}
	d.AgeSum += float64(sign * *c.Age)
}

// averageKnownAge is the mean of all known ages, or 0 when none are known.
func averageKnownAge(candidates []Candidate) float64 {
	var sum, count int
	for _, c := range candidates {
		if c.Age != nil {
			sum += *c.Age
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
