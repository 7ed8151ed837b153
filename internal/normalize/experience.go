package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

var yearsRegex = regexp.MustCompile(`\d+`)

var (
	fresherWords = []string{"fresher", "intern", "internship", "trainee", "graduate", "entry"}
	juniorWords  = []string{"junior", "jr", "associate"}
	midWords     = []string{"mid-level", "mid level", "intermediate"}
	seniorWords  = []string{"senior", "sr", "lead", "principal", "staff", "manager", "head", "architect", "director"}
)

// ExperienceBucket derives the experience level from the record's own
// experience text, falling back to seniority words in the title. It returns
// "" when neither says anything.
func ExperienceBucket(experience, title string) string {
	exp := strings.ToLower(strings.TrimSpace(experience))
	if exp != "" {
		if m := yearsRegex.FindString(exp); m != "" {
			years, _ := strconv.Atoi(m)
			return bucketForYears(years)
		}
		if containsWord(exp, fresherWords) {
			return model.ExperienceFresher
		}
	}

	t := strings.ToLower(title)
	switch {
	case containsWord(t, fresherWords):
		return model.ExperienceFresher
	case containsWord(t, seniorWords):
		return model.ExperienceSenior
	case containsWord(t, midWords):
		return model.ExperienceMid
	case containsWord(t, juniorWords):
		return model.ExperienceJunior
	}
	return ""
}

func bucketForYears(years int) string {
	switch {
	case years <= 0:
		return model.ExperienceFresher
	case years < 3:
		return model.ExperienceJunior
	case years < 5:
		return model.ExperienceMid
	default:
		return model.ExperienceSenior
	}
}

// containsWord matches whole words or whole phrases, so "sr" does not match
// inside "vsrc" and "intern" does not match "internal".
func containsWord(s string, words []string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	joined := " " + strings.Join(fields, " ") + " "
	for _, w := range words {
		if strings.Contains(w, " ") || strings.Contains(w, "-") {
			if strings.Contains(joined, " "+w+" ") {
				return true
			}
			continue
		}
		for _, f := range fields {
			if f == w {
				return true
			}
		}
	}
	return false
}
