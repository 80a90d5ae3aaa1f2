package mpsync

import (
	"math"
	"sort"

	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
)

type GenreCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type RatedName struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type ChartData struct {
	GenreDistribution   []GenreCount  `json:"genre_distribution"`
	RatingsDistribution []RatingCount `json:"ratings_distribution"`
	TopRatedBands       []RatedName   `json:"top_rated_bands"`
}

// sortedByRatingDesc returns a stable rating-descending copy. Ties keep
// their original relative order, which fixes the tie-break for the
// top/lowest/average picks below.
func sortedByRatingDesc(bands []mpmodel.Band) []mpmodel.Band {
	sorted := append([]mpmodel.Band(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	return sorted
}

// TopRated returns the band with the maximum rating, or nil for an empty
// collection.
func TopRated(bands []mpmodel.Band) *mpmodel.Band {
	if len(bands) == 0 {
		return nil
	}

	sorted := sortedByRatingDesc(bands)
	return &sorted[0]
}

// LowestRated returns the band with the minimum rating, or nil for an empty
// collection.
func LowestRated(bands []mpmodel.Band) *mpmodel.Band {
	if len(bands) == 0 {
		return nil
	}

	sorted := sortedByRatingDesc(bands)
	return &sorted[len(sorted)-1]
}

// AverageRated returns the band whose rating is closest to the mean rating.
// Ties go to the first occurrence in rating-descending order.
func AverageRated(bands []mpmodel.Band) *mpmodel.Band {
	if len(bands) == 0 {
		return nil
	}

	var sum float64
	for _, band := range bands {
		sum += band.Rating
	}
	mean := sum / float64(len(bands))

	sorted := sortedByRatingDesc(bands)
	closest := &sorted[0]
	for i := 1; i < len(sorted); i++ {
		if math.Abs(sorted[i].Rating-mean) < math.Abs(closest.Rating-mean) {
			closest = &sorted[i]
		}
	}

	return closest
}

// BuildChartData computes the chart aggregates: genre counts in first-seen
// order, counts per rounded rating, and the top five bands by rating.
func BuildChartData(bands []mpmodel.Band) ChartData {
	data := ChartData{
		GenreDistribution:   []GenreCount{},
		RatingsDistribution: []RatingCount{},
		TopRatedBands:       []RatedName{},
	}

	genreIndex := make(map[string]int)
	ratingCounts := make(map[int]int)

	for _, band := range bands {
		if i, seen := genreIndex[band.Genre]; seen {
			data.GenreDistribution[i].Value++
		} else {
			genreIndex[band.Genre] = len(data.GenreDistribution)
			data.GenreDistribution = append(data.GenreDistribution, GenreCount{Name: band.Genre, Value: 1})
		}

		ratingCounts[int(math.Round(band.Rating))]++
	}

	for rating, count := range ratingCounts {
		data.RatingsDistribution = append(data.RatingsDistribution, RatingCount{Rating: rating, Count: count})
	}
	sort.Slice(data.RatingsDistribution, func(i, j int) bool {
		return data.RatingsDistribution[i].Rating < data.RatingsDistribution[j].Rating
	})

	sorted := sortedByRatingDesc(bands)
	for i := 0; i < len(sorted) && i < 5; i++ {
		data.TopRatedBands = append(data.TopRatedBands, RatedName{
			Name:   sorted[i].Name,
			Rating: sorted[i].Rating,
		})
	}

	return data
}
