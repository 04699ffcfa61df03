package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	maxOwnershipBonus = 25
	maxRatingBonus    = 10
)

type ReferenceEntry struct {
	AppID          int
	Name           string
	Developer      string
	Publisher      string
	Owners         string
	Positive       int
	Negative       int
	UserScore      int
	AverageForever int
	MedianForever  int
	Price          string
	CCU            int
}

// ParseOwnerRange parses ranges such as "1,000,000 .. 2,000,000".
func ParseOwnerRange(raw string) (int64, int64, error) {
	parts := strings.Split(raw, "..")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("owner range %q: expected \"<min> .. <max>\"", raw)
	}

	bounds := [2]int64{}
	for i, part := range parts {
		cleaned := strings.ReplaceAll(strings.TrimSpace(part), ",", "")
		value, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("owner range %q: parse bound: %w", raw, err)
		}
		bounds[i] = value
	}

	return bounds[0], bounds[1], nil
}

// OwnershipBonus is min(log10(avgOwners)*5, 25).
func (e ReferenceEntry) OwnershipBonus() (float64, error) {
	minOwners, maxOwners, err := ParseOwnerRange(e.Owners)
	if err != nil {
		return 0, err
	}

	avg := float64(minOwners+maxOwners) / 2
	if avg <= 0 {
		return 0, fmt.Errorf("owner range %q: non-positive average", e.Owners)
	}

	return math.Min(math.Log10(avg)*5, maxOwnershipBonus), nil
}

func (e ReferenceEntry) RatingBonus() float64 {
	total := e.Positive + e.Negative
	if total <= 0 {
		return 0
	}

	return float64(e.Positive) / float64(total) * maxRatingBonus
}
