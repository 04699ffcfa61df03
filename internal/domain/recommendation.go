package domain

import (
	"fmt"
	"time"
)

const storeURLPrefix = "https://store.steampowered.com/app/"

type Recommendation struct {
	AppID                int
	Name                 string
	Score                float64
	OwnedBy              []SteamID
	RecentlyPlayedBy     []SteamID
	AveragePlaytimeHours int
}

func StoreURL(appID int) string {
	return fmt.Sprintf("%s%d", storeURLPrefix, appID)
}

// ExportedRecommendation is a recommendation enriched with reference metadata for
// rendering and history export.
type ExportedRecommendation struct {
	Recommendation
	GlobalOwners    string
	PositiveReviews int
	Developer       string
	StoreURL        string
	ExportedAt      time.Time
}

type RecommendationHistory struct {
	SteamID         SteamID
	ExportedAt      time.Time
	Recommendations []ExportedRecommendation
}
