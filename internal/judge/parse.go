package judge

import (
	"regexp"
	"strconv"
	"strings"
)

// ProblemRef identifies a Codeforces problem: a numeric contest ID plus an
// index like "C" or "A1".
type ProblemRef struct {
	ContestID int    `json:"contest_id"`
	Index     string `json:"index"`
}

// Accepted identifier forms, tried in order; first match wins.
var (
	urlPattern    = regexp.MustCompile(`codeforces\.com/(?:problemset/problem|contest)/(\d+)/(?:problem/)?([A-Z]\d?)`)
	slashPattern  = regexp.MustCompile(`^(\d+)/([A-Z]\d?)$`)
	directPattern = regexp.MustCompile(`^(\d+)([A-Z]\d?)$`)
)

// ParseProblemID parses a problem identifier in one of three forms: a
// Codeforces URL ("https://codeforces.com/problemset/problem/1955/C" or
// ".../contest/1955/problem/C"), a slash form ("1955/C"), or a concatenated form
// ("1955C", "1955A1"). Surrounding whitespace is ignored. Returns
// ErrInvalidFormat when nothing matches.
func ParseProblemID(input string) (ProblemRef, error) {
	cleaned := strings.TrimSpace(input)

	for _, pattern := range []*regexp.Regexp{urlPattern, slashPattern, directPattern} {
		m := pattern.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		contestID, err := strconv.Atoi(m[1])
		if err != nil {
			// \d+ beyond int range
			return ProblemRef{}, ErrInvalidFormat
		}
		return ProblemRef{ContestID: contestID, Index: m[2]}, nil
	}

	return ProblemRef{}, ErrInvalidFormat
}
