package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Movie is a single row returned by the movie search endpoint
type Movie struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	Rank    Rank   `json:"rank"`
	MovieID string `json:"id"`
	Flag    string `json:"__flag,omitempty"`
}

// Rank is the movie rank as text. The endpoint sends it as a string but
// numeric ranks are accepted too.
type Rank string

// UnmarshalJSON accepts both "12" and 12
func (r *Rank) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Rank(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid rank %s: %w", string(data), err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*r = Rank(strconv.FormatInt(i, 10))
		return nil
	}
	*r = Rank(n.String())
	return nil
}

func (r Rank) String() string { return string(r) }

// Page is one page of search results as returned by the endpoint
type Page struct {
	Rows       []Movie `json:"rows"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
