package judge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, NewLimiter(0))
}

func TestFetchProblemInfoFromStandings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contest.standings", r.URL.Path)
		require.Equal(t, "1955", r.URL.Query().Get("contestId"))
		fmt.Fprint(w, `{"status":"OK","result":{"problems":[
			{"contestId":1955,"index":"A","name":"Yogurt Sale","rating":800,"tags":["math"]},
			{"contestId":1955,"index":"C","name":"Inhabitant of the Deep Sea","rating":1300,"tags":["implementation","two pointers"]}
		]}}`)
	})

	info, err := c.FetchProblemInfo(context.Background(), 1955, "C")
	require.NoError(t, err)
	assert.Equal(t, 1955, info.ContestID)
	assert.Equal(t, "C", info.Index)
	assert.Equal(t, "Inhabitant of the Deep Sea", info.Name)
	require.NotNil(t, info.Rating)
	assert.Equal(t, 1300, *info.Rating)
	assert.Equal(t, []string{"implementation", "two pointers"}, info.Tags)
}

func TestFetchProblemInfoFallsBackToProblemset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contest.standings":
			fmt.Fprint(w, `{"status":"FAILED","comment":"contestId: Contest with id 1955 not found"}`)
		case "/problemset.problems":
			fmt.Fprint(w, `{"status":"OK","result":{"problems":[
				{"contestId":1955,"index":"C","name":"Inhabitant of the Deep Sea","rating":1300,"tags":[]}
			]}}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	info, err := c.FetchProblemInfo(context.Background(), 1955, "C")
	require.NoError(t, err)
	assert.Equal(t, "Inhabitant of the Deep Sea", info.Name)
}

func TestFetchProblemInfoUnknownIndex(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","result":{"problems":[
			{"contestId":1955,"index":"A","name":"Yogurt Sale","rating":800,"tags":[]}
		]}}`)
	})

	_, err := c.FetchProblemInfo(context.Background(), 1955, "Z")
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestFetchProblemInfoAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"FAILED","comment":"Call limit exceeded"}`)
	})

	_, err := c.FetchProblemInfo(context.Background(), 1955, "C")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Call limit exceeded", apiErr.Comment)
}

func TestHasSolved(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user.status", r.URL.Path)
		require.Equal(t, "tourist", r.URL.Query().Get("handle"))
		fmt.Fprint(w, `{"status":"OK","result":[
			{"contestId":1955,"problem":{"contestId":1955,"index":"C"},"verdict":"WRONG_ANSWER"},
			{"contestId":1955,"problem":{"contestId":1955,"index":"C"},"verdict":"OK"},
			{"contestId":1900,"problem":{"contestId":1900,"index":"A"},"verdict":"OK"}
		]}`)
	})

	solved, err := c.HasSolved(context.Background(), "tourist", 1955, "C")
	require.NoError(t, err)
	assert.True(t, solved)

	solved, err = c.HasSolved(context.Background(), "tourist", 1955, "D")
	require.NoError(t, err)
	assert.False(t, solved)
}

func TestHasSolvedRejectedVerdictsOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","result":[
			{"contestId":1955,"problem":{"contestId":1955,"index":"C"},"verdict":"TIME_LIMIT_EXCEEDED"}
		]}`)
	})

	solved, err := c.HasSolved(context.Background(), "someone", 1955, "C")
	require.NoError(t, err)
	assert.False(t, solved)
}

func TestFetchUserInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user.info", r.URL.Path)
		fmt.Fprint(w, `{"status":"OK","result":[
			{"handle":"tourist","rating":3858,"maxRating":4009,"rank":"legendary grandmaster","avatar":"https://example.org/a.jpg"}
		]}`)
	})

	info, err := c.FetchUserInfo(context.Background(), "tourist")
	require.NoError(t, err)
	assert.Equal(t, "tourist", info.Handle)
	require.NotNil(t, info.Rating)
	assert.Equal(t, 3858, *info.Rating)
	require.NotNil(t, info.Rank)
	assert.Equal(t, "legendary grandmaster", *info.Rank)
}

func TestFetchUserInfoUnknownHandle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"FAILED","comment":"handles: User with handle nobody not found"}`)
	})

	_, err := c.FetchUserInfo(context.Background(), "nobody")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestClientRequestsAreRateLimited(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"status":"OK","result":[]}`)
	})
	c.limiter = NewLimiter(15 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.FetchUserInfo(context.Background(), "tourist")
		require.Error(t, err) // empty result list
	}
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, 3, calls)
}
