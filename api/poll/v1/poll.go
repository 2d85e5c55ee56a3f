// Package v1 holds the request and response bodies of the poll API.
package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	siteerrs "github.com/jdholdren/podsite/internal/errors"
)

type VotesResponse struct {
	Votes map[string]int64 `json:"votes"`
}

type VoteRequest struct {
	ID     string `json:"id"`
	Option Option `json:"option"`
}

// Validate checks that the body names a poll and an option.
func (r VoteRequest) Validate() error {
	if r.ID == "" || r.Option == "" {
		return siteerrs.E(http.StatusBadRequest, "Missing id or option")
	}

	return nil
}

// Option is the choice being voted for. Widgets send it as a string, a
// number or a boolean; all of them count under their text form.
type Option string

func (o *Option) UnmarshalJSON(byts []byte) error {
	dec := json.NewDecoder(bytes.NewReader(byts))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch v := v.(type) {
	case nil:
		*o = ""
	case string:
		*o = Option(v)
	case json.Number:
		*o = Option(v.String())
	case bool:
		*o = Option(fmt.Sprint(v))
	default:
		return fmt.Errorf("option must be a string, number or boolean")
	}

	return nil
}
