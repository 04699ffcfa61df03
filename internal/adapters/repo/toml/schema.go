package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int             `toml:"version"`
	Histories []historySchema `toml:"histories"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type historySchema struct {
	SteamID         string                 `toml:"steam_id"`
	ExportedAt      string                 `toml:"exported_at"`
	Recommendations []recommendationSchema `toml:"recommendations"`
}

type recommendationSchema struct {
	AppID                int      `toml:"app_id"`
	Name                 string   `toml:"name"`
	Score                float64  `toml:"score"`
	OwnedBy              []string `toml:"owned_by"`
	RecentlyPlayedBy     []string `toml:"recently_played_by,omitempty"`
	AveragePlaytimeHours int      `toml:"average_playtime_hours"`
	GlobalOwners         string   `toml:"global_owners,omitempty"`
	PositiveReviews      int      `toml:"positive_reviews,omitempty"`
	Developer            string   `toml:"developer,omitempty"`
	StoreURL             string   `toml:"store_url"`
}
