package market

import (
	"math"
	"strings"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ReviewInput is the body of POST /{category}/{id}/reviews.
type ReviewInput struct {
	UserName string  `json:"userName"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

// Validate enforces required name and comment and a rating in [1,5] on whole
// or half steps.
func (in ReviewInput) Validate() error {
	if strings.TrimSpace(in.UserName) == "" {
		return ValidationError{Code: "VALIDATION_FAILED", Field: "userName", Message: "name is required"}
	}
	if strings.TrimSpace(in.Comment) == "" {
		return ValidationError{Code: "VALIDATION_FAILED", Field: "comment", Message: "comment is required"}
	}
	if !ValidRating(in.Rating) {
		return ValidationError{Code: "RATING_INVALID", Field: "rating", Message: "rating must be between 1 and 5 in half steps"}
	}
	return nil
}

// Trimmed returns the input with surrounding whitespace removed.
func (in ReviewInput) Trimmed() ReviewInput {
	return ReviewInput{
		UserName: strings.TrimSpace(in.UserName),
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}
}

func ValidRating(r float64) bool {
	if r < MinRating || r > MaxRating {
		return false
	}
	return r*2 == math.Trunc(r*2)
}
