package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRequest_Option(t *testing.T) {
	for _, tc := range []struct {
		body string
		want Option
	}{
		{body: `{"id": "p", "option": "Spotify"}`, want: "Spotify"},
		{body: `{"id": "p", "option": 3}`, want: "3"},
		{body: `{"id": "p", "option": 2.5}`, want: "2.5"},
		{body: `{"id": "p", "option": false}`, want: "false"},
		{body: `{"id": "p", "option": null}`, want: ""},
		{body: `{"id": "p"}`, want: ""},
	} {
		var req VoteRequest
		require.NoError(t, json.Unmarshal([]byte(tc.body), &req), tc.body)
		assert.Equal(t, tc.want, req.Option, tc.body)
	}

	var req VoteRequest
	assert.Error(t, json.Unmarshal([]byte(`{"id": "p", "option": [1]}`), &req))
}

func TestVoteRequest_Validate(t *testing.T) {
	assert.NoError(t, VoteRequest{ID: "p", Option: "0"}.Validate())
	assert.Error(t, VoteRequest{ID: "p"}.Validate())
	assert.Error(t, VoteRequest{Option: "a"}.Validate())
}
