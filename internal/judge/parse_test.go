package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProblemID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ProblemRef
	}{
		{"direct", "1955C", ProblemRef{1955, "C"}},
		{"direct with sub-index", "1955A1", ProblemRef{1955, "A1"}},
		{"slash", "1955/C", ProblemRef{1955, "C"}},
		{"problemset url", "https://codeforces.com/problemset/problem/1955/C", ProblemRef{1955, "C"}},
		{"contest url", "https://codeforces.com/contest/1955/problem/C", ProblemRef{1955, "C"}},
		{"url without scheme", "codeforces.com/problemset/problem/4/A", ProblemRef{4, "A"}},
		{"surrounding whitespace", "  1955C \n", ProblemRef{1955, "C"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseProblemID(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseProblemIDInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"not-a-problem",
		"C1955",
		"1955",
		"abc/D",
		"https://example.com/problem/1955/C",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseProblemID(input)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}
