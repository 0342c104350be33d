package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterZone(t *testing.T) {
	stops := []Stop{
		{ID: "100", Name: "Stazione"},
		{ID: "101", Name: "Piazza"},
		{ID: " 102 ", Name: "Ospedale"},
		{ID: "200", Name: "Porto"},
	}
	zones := []ZoneEntry{
		{StopCode: "100", ZoneCode: "500"},
		{StopCode: "101.0", ZoneCode: "500.0"},
		{StopCode: "102", ZoneCode: " 500"},
		{StopCode: "999", ZoneCode: "500"},
		{StopCode: "998", ZoneCode: "500"},
		{StopCode: "100", ZoneCode: "500"},
		{StopCode: "", ZoneCode: "500"},
		{StopCode: "200", ZoneCode: "600"},
	}

	result := FilterZone(stops, zones, "500")

	assert.Equal(t, 5, result.Eligible)
	assert.Equal(t, 3, result.Matched)
	assert.Equal(t, []string{"998", "999"}, result.Missing)
	assert.True(t, result.Contains("100"))
	assert.True(t, result.Contains("101"))
	assert.True(t, result.Contains("102"))
	assert.False(t, result.Contains("200"))
}

func TestFilterZoneNoMatch(t *testing.T) {
	stops := []Stop{{ID: "100"}}
	zones := []ZoneEntry{{StopCode: "100", ZoneCode: "500"}}

	result := FilterZone(stops, zones, "700")

	assert.Zero(t, result.Eligible)
	assert.Zero(t, result.Matched)
	assert.NotNil(t, result.Missing)
	assert.Empty(t, result.Missing)
}
