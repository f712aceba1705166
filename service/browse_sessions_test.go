package service

import (
	"testing"
	"time"

	"tienda-joyas/models"

	"github.com/stretchr/testify/assert"
)

func TestBrowseSessionsCursorPerSession(t *testing.T) {
	products := catalogFixture()
	sessions := NewBrowseSessions(2, time.Hour)
	all := models.FilterState{Category: "all", Material: "all"}

	first := sessions.List("a", products, all)
	assert.Equal(t, []string{"1", "2"}, ids(first.Products))
	assert.True(t, first.HasMore)

	more := sessions.More("a", products, all)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(more.Products))
	assert.Equal(t, 4, sessions.List("a", products, all).Visible, "cursor kept between requests")
	assert.Equal(t, 2, sessions.List("b", products, all).Visible, "other sessions start at one page")

	bijou := models.FilterState{Category: "all", Material: "bijou"}
	assert.Equal(t, []string{"3", "5"}, ids(sessions.List("a", products, bijou).Products))
	assert.Equal(t, 2, sessions.List("a", products, all).Visible, "filter change resets the cursor")
	assert.Equal(t, 2, sessions.Len())
}

func TestBrowseSessionsMoreStopsAtTotal(t *testing.T) {
	products := catalogFixture()
	sessions := NewBrowseSessions(2, 0)
	all := models.FilterState{Category: "all", Material: "all"}

	var result models.BrowseResult
	for i := 0; i < 5; i++ {
		result = sessions.More("a", products, all)
	}
	assert.Equal(t, 5, result.Visible)
	assert.False(t, result.HasMore)

	// the cursor stopped growing once every product was shown
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(sessions.List("a", products, all).Products))
	products = append(products, models.Product{ID: "6", Name: "Anillo Sol", Category: "Anillo", Material: models.MaterialPlata})
	assert.Equal(t, 6, sessions.List("a", products, all).Visible)
}

func TestBrowseSessionsSweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := NewBrowseSessions(2, time.Minute)
	sessions.now = func() time.Time { return now }

	sessions.List("old", catalogFixture(), models.FilterState{})
	now = now.Add(2 * time.Minute)
	sessions.List("fresh", catalogFixture(), models.FilterState{})

	assert.Equal(t, 1, sessions.Sweep())
	assert.Equal(t, 1, sessions.Len())
	assert.Zero(t, NewBrowseSessions(2, 0).Sweep())
}
