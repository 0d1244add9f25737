package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"school_mapper/internal/maps"
)

// ErrNoMarketsFound is returned when every strategy has run and the
// filtered result set is still empty.
var ErrNoMarketsFound = errors.New("no markets found after all search strategies")

// PlaceSearcher is the slice of the maps client the market finder
// needs; tests substitute a scripted fake.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, q maps.PlaceQuery) ([]maps.PlaceResult, error)
}

// SearchStrategy is one named query/filter configuration sent to the
// place-search provider.
type SearchStrategy struct {
	Name    string
	Query   string
	Type    string
	Keyword string
}

// marketStrategies cast a deliberately wide net, in order; the
// relevance filter narrows the merged set afterwards.
var marketStrategies = []SearchStrategy{
	{Name: "local-markets", Query: "local market OR flea market OR bazaar"},
	{Name: "central-markets", Query: "central market OR big market OR main market"},
	{Name: "shopping-malls", Type: "shopping_mall"},
	{Name: "grocery-markets", Type: "grocery_or_supermarket", Keyword: "market"},
	{Name: "plain-market", Query: "market"},
}

// MarketFinder discovers market places around a point by running an
// ordered list of search strategies against the provider, merging and
// deduplicating their hits, and keeping only results that look like
// markets.
type MarketFinder struct {
	searcher   PlaceSearcher
	strategies []SearchStrategy
}

// NewMarketFinder builds a MarketFinder over the given searcher with
// the standard strategy list.
func NewMarketFinder(searcher PlaceSearcher) *MarketFinder {
	return &MarketFinder{searcher: searcher, strategies: marketStrategies}
}

// FindMarkets runs every strategy sequentially. A failing strategy is
// logged and skipped; it never aborts the remaining strategies, and
// an empty strategy never short-circuits the rest. Duplicate placeIds
// keep the first strategy's data. The radius is clamped to the
// provider maximum before every call. Returns ErrNoMarketsFound only
// when the filtered set is empty after all strategies have run.
func (f *MarketFinder) FindMarkets(ctx context.Context, center Coordinate, radius int) ([]maps.PlaceResult, error) {
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	if radius > maps.MaxRadius {
		radius = maps.MaxRadius
	}

	var merged []maps.PlaceResult
	seen := make(map[string]bool)

	for _, strat := range f.strategies {
		results, err := f.searcher.SearchPlaces(ctx, maps.PlaceQuery{
			Query:   strat.Query,
			Type:    strat.Type,
			Keyword: strat.Keyword,
			Lat:     center.Lat,
			Lng:     center.Lng,
			Radius:  radius,
		})
		if err != nil {
			fault := &Error{Kind: KindStrategy, Message: err.Error()}
			logrus.WithError(fault).WithField("strategy", strat.Name).Warn("market search strategy failed")
			continue
		}

		for _, place := range results {
			if seen[place.PlaceID] {
				continue
			}
			seen[place.PlaceID] = true
			merged = append(merged, place)
		}
	}

	markets := merged[:0:0]
	for _, place := range merged {
		if isMarketPlace(place) {
			markets = append(markets, place)
		}
	}

	if len(markets) == 0 {
		return nil, ErrNoMarketsFound
	}
	return markets, nil
}

// isMarketPlace is the post-merge relevance filter: a place counts as
// a market when its name or category set carries a market-indicating
// token, or it is a shopping mall whose name also carries one.
func isMarketPlace(place maps.PlaceResult) bool {
	name := strings.ToLower(place.Name)
	if strings.Contains(name, "market") || strings.Contains(name, "bazaar") {
		return true
	}
	for _, t := range place.Types {
		if strings.Contains(t, "market") {
			return true
		}
	}
	return false
}
