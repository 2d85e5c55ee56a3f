// Package poll holds the vote counting contract shared by the API and its stores.
package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
)

// MaxOptionLength is the longest option, in characters, a vote may name.
const MaxOptionLength = 200

// ErrInvalid wraps every reason an option is refused.
var ErrInvalid = errors.New("invalid option")

type (
	// Votes maps each option to how many times it was voted for.
	Votes map[string]int64

	// Store keeps the tallies for every poll.
	//
	// Increment must be atomic: two concurrent increments of the same option
	// on a fresh poll leave its count at exactly 2.
	Store interface {
		// Votes is the current tally, empty for a poll nobody has voted in.
		Votes(ctx context.Context, id string) (Votes, error)
		// Increment adds one vote for option and returns the tally after it.
		Increment(ctx context.Context, id, option string) (Votes, error)
	}
)

// ValidateOption refuses options that are too long or profane.
func ValidateOption(option string) error {
	if utf8.RuneCountInString(option) > MaxOptionLength {
		return fmt.Errorf("option longer than %d characters: %w", MaxOptionLength, ErrInvalid)
	}
	if goaway.IsProfane(strings.TrimSpace(option)) {
		return fmt.Errorf("profanity detected in option: %w", ErrInvalid)
	}

	return nil
}
