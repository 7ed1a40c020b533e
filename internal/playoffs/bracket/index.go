// Package bracket looks series up across the playoff tree and derives bracket-wide facts.
package bracket

import (
	"errors"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
)

// ErrSeriesNotFound reports an identifier with no match in the bracket.
var ErrSeriesNotFound = errors.New("series not found")

// Find returns the series with the given id. Per conference it searches round 1,
// round 2, then the conference final; the finals node is checked last.
// A nil or partially built bracket yields ErrSeriesNotFound.
func Find(b *playoffs.Bracket, id string) (*playoffs.Series, error) {
	if b == nil || id == "" {
		return nil, ErrSeriesNotFound
	}
	for _, conf := range b.Conferences() {
		if s := findIn(conf.Round1, id); s != nil {
			return s, nil
		}
		if s := findIn(conf.Round2, id); s != nil {
			return s, nil
		}
		if conf.ConferenceFinal != nil && conf.ConferenceFinal.ID == id {
			return conf.ConferenceFinal, nil
		}
	}
	if b.Finals != nil && b.Finals.ID == id {
		return b.Finals, nil
	}
	return nil, ErrSeriesNotFound
}

func findIn(list []playoffs.Series, id string) *playoffs.Series {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// Walk visits every series in search order. Returning false stops the walk.
func Walk(b *playoffs.Bracket, fn func(*playoffs.Series) bool) {
	if b == nil {
		return
	}
	for _, conf := range b.Conferences() {
		for i := range conf.Round1 {
			if !fn(&conf.Round1[i]) {
				return
			}
		}
		for i := range conf.Round2 {
			if !fn(&conf.Round2[i]) {
				return
			}
		}
		if conf.ConferenceFinal != nil && !fn(conf.ConferenceFinal) {
			return
		}
	}
	if b.Finals != nil {
		fn(b.Finals)
	}
}

// SeriesForGame returns the series that schedules the game id.
func SeriesForGame(b *playoffs.Bracket, gameID string) (*playoffs.Series, error) {
	var found *playoffs.Series
	Walk(b, func(s *playoffs.Series) bool {
		for _, id := range s.GameIDs {
			if id == gameID {
				found = s
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, ErrSeriesNotFound
	}
	return found, nil
}
