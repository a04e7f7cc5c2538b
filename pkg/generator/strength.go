package generator

import "unicode/utf8"

// Strength labels.
const (
	LabelNone       = "None"
	LabelWeak       = "Weak"
	LabelMedium     = "Medium"
	LabelStrong     = "Strong"
	LabelVeryStrong = "Very Strong"
)

// MaxScore is the highest score ClassifyStrength can return.
const MaxScore = 7

// Strength is a heuristic score in [0, MaxScore] with its label.
type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// ClassifyStrength scores a password by length thresholds and character classes.
func ClassifyStrength(password string) Strength {
	if password == "" {
		return Strength{Score: 0, Label: LabelNone}
	}

	score := 0
	n := utf8.RuneCountInString(password)
	for _, threshold := range []int{8, 12, 16} {
		if n >= threshold {
			score++
		}
	}

	var hasLower, hasUpper, hasDigit, hasOther bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasOther = true
		}
	}
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasOther} {
		if ok {
			score++
		}
	}

	return Strength{Score: score, Label: labelFor(score)}
}

func labelFor(score int) string {
	switch {
	case score <= 2:
		return LabelWeak
	case score <= 4:
		return LabelMedium
	case score <= 6:
		return LabelStrong
	default:
		return LabelVeryStrong
	}
}
