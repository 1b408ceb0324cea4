// Package match scores how well a candidate profile fits a job posting.
// The score prioritizes human review queues; it never drives automated
// decisions.
package match

import (
	"math"
	"strings"

	"github.com/teemow/jobagent/internal/domain"
)

// neutralScore is returned when there is nothing to compare: a profile
// without skills or a job without requirements text.
const neutralScore = 50.0

// FitScore computes a 0-100 compatibility score between a profile and a
// job. Pure function: lowercased skills are matched as substrings against
// the job's requirements and description, the hit ratio is scaled to 100,
// and a case-insensitive location match adds 10, capped at 100. The result
// is rounded to one decimal place.
func FitScore(profile domain.Profile, job domain.Job) float64 {
	if len(profile.Skills) == 0 || job.Requirements == "" {
		return neutralScore
	}

	jobText := strings.ToLower(job.Requirements + " " + job.Description)

	seen := make(map[string]bool, len(profile.Skills))
	matches := 0
	for _, skill := range profile.Skills {
		skill = strings.ToLower(skill)
		if seen[skill] {
			continue
		}
		seen[skill] = true
		if strings.Contains(jobText, skill) {
			matches++
		}
	}
	skillCount := len(seen)

	score := math.Min(100, float64(matches)/math.Max(float64(skillCount), 1)*100)

	if profile.Location != "" && job.Location != "" &&
		strings.Contains(strings.ToLower(job.Location), strings.ToLower(profile.Location)) {
		score = math.Min(100, score+10)
	}

	return math.Round(score*10) / 10
}
