package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageDecoding(t *testing.T) {
	body := `{
		"rows": [
			{"_id": "a1", "title": "Batman Begins", "rank": "12", "id": "m1", "__flag": "x"},
			{"_id": "a2", "title": "The Batman", "rank": 7, "id": "m2"},
			{"_id": "a3", "title": "Batman Forever", "rank": null, "id": "m3"}
		],
		"total": 3, "page": 1, "pageSize": 20, "totalPages": 1
	}`

	var page Page
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	require.Len(t, page.Rows, 3)
	assert.Equal(t, "Batman Begins", page.Rows[0].Title)
	assert.Equal(t, Rank("12"), page.Rows[0].Rank)
	assert.Equal(t, "x", page.Rows[0].Flag)
	assert.Equal(t, Rank("7"), page.Rows[1].Rank)
	assert.Equal(t, Rank(""), page.Rows[2].Rank)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
}

func TestRankRejectsGarbage(t *testing.T) {
	var r Rank
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &r))
}

func TestRankKeepsFractionalText(t *testing.T) {
	var r Rank
	require.NoError(t, json.Unmarshal([]byte(`8.5`), &r))
	assert.Equal(t, "8.5", r.String())
}
