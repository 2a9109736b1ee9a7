package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(out, ret string, price int) PriceCalendarPoint {
	return PriceCalendarPoint{OutboundDate: out, ReturnDate: ret, Price: price}
}

func TestMergeCalendarPoints(t *testing.T) {
	window1 := []PriceCalendarPoint{
		point("2026-01-04", "2026-01-13", 189),
		point("2026-01-11", "2026-01-20", 244),
	}
	window2 := []PriceCalendarPoint{
		point("2026-04-02", "2026-04-11", 310),
	}

	t.Run("disjoint windows concatenate", func(t *testing.T) {
		got := MergeCalendarPoints(window1, window2)
		assert.Len(t, got, 3)
	})

	t.Run("duplicate date pair keeps first-seen price", func(t *testing.T) {
		overlap := []PriceCalendarPoint{point("2026-01-04", "2026-01-13", 205)}

		got := MergeCalendarPoints(window1, overlap)

		require.Len(t, got, 2)
		assert.Equal(t, 189, got[0].Price)
	})

	t.Run("merging the same window twice does not duplicate", func(t *testing.T) {
		got := MergeCalendarPoints(window1, window1)
		assert.Len(t, got, len(window1))
	})

	t.Run("no sets", func(t *testing.T) {
		assert.Empty(t, MergeCalendarPoints())
	})
}

func TestSimilarPricedSubset(t *testing.T) {
	points := []PriceCalendarPoint{
		point("2026-01-01", "2026-01-10", 405),
		point("2026-01-02", "2026-01-11", 440),
		point("2026-01-03", "2026-01-12", 450),
		point("2026-01-04", "2026-01-13", 495),
		point("2026-01-05", "2026-01-14", 500),
		point("2026-01-06", "2026-01-15", 700),
	}

	got := SimilarPricedSubset(points, 450, 0.10)

	prices := make([]int, len(got))
	for i, p := range got {
		prices[i] = p.Price
	}
	assert.Equal(t, []int{405, 440, 450, 495}, prices)

	t.Run("subset invariant", func(t *testing.T) {
		inSubset := make(map[string]bool, len(got))
		for _, p := range got {
			inSubset[p.OutboundDate] = true
			assert.True(t, WithinBand(p.Price, 450, 0.10))
		}
		for _, p := range points {
			if !inSubset[p.OutboundDate] {
				assert.False(t, WithinBand(p.Price, 450, 0.10))
			}
		}
	})
}

func TestWithinBand(t *testing.T) {
	tests := []struct {
		name      string
		price     int
		reference int
		threshold float64
		want      bool
	}{
		{"equal to reference", 450, 450, 0.10, true},
		{"lower edge inclusive", 405, 450, 0.10, true},
		{"upper edge inclusive", 495, 450, 0.10, true},
		{"just above band", 496, 450, 0.10, false},
		{"well below band", 100, 450, 0.10, false},
		{"zero threshold exact only", 450, 450, 0, true},
		{"zero threshold off by one", 451, 450, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinBand(tt.price, tt.reference, tt.threshold))
		})
	}
}

func TestNewExpansionResult(t *testing.T) {
	points := []PriceCalendarPoint{
		point("2026-01-01", "2026-01-10", 405),
		point("2026-01-06", "2026-01-15", 700),
	}

	res := NewExpansionResult("DFW", "LIS", 450, "2026-03-10", "2026-03-19", 0.10, points)

	assert.Equal(t, "DFW", res.Origin)
	assert.Equal(t, "LIS", res.Destination)
	assert.Len(t, res.Points, 2)
	require.Len(t, res.SimilarPriced, 1)
	assert.Equal(t, 405, res.SimilarPriced[0].Price)
}
