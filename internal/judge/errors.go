package judge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat means the problem identifier could not be parsed in
	// any of the accepted forms. Re-prompt the user.
	ErrInvalidFormat = errors.New(`invalid problem format: use "1955C", "1955/C", or a Codeforces problem URL`)

	// ErrProblemNotFound means the judge knows neither the contest entry nor
	// the problemset entry for the requested (contestId, index).
	ErrProblemNotFound = errors.New("problem not found on Codeforces")
)

// APIError is a non-OK response envelope from the Codeforces API. Comment is
// the judge's own explanation and is safe to show to users.
type APIError struct {
	Comment string
}

func (e *APIError) Error() string {
	if e.Comment == "" {
		return "codeforces api error"
	}
	return fmt.Sprintf("codeforces api error: %s", e.Comment)
}
