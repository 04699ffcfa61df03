package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bnema/steamrec/internal/adapters/repo/atomicfile"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	HistoryPathKey  = "history.path"
	HistoryFileName = "recommendations.toml"
	tempFilePattern = ".recommendations-*.toml.tmp"
)

// Repository keeps the latest exported recommendations per Steam account.
type Repository struct {
	historyPath string
	mu          *sync.RWMutex
}

var _ ports.HistoryRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		return nil, errors.New("history config is nil")
	}

	historyPath := cfg.GetString(HistoryPathKey)
	if historyPath == "" {
		return nil, errors.New("history path is empty")
	}
	historyPath, err := atomicfile.NormalizePath(historyPath)
	if err != nil {
		return nil, err
	}

	return &Repository{historyPath: historyPath, mu: atomicfile.LockForPath(historyPath)}, nil
}

func (r *Repository) Path() string {
	return r.historyPath
}

func (r *Repository) Save(ctx context.Context, history domain.RecommendationHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(history)
	updated := false
	for i := range file.Histories {
		if file.Histories[i].SteamID == encoded.SteamID {
			file.Histories[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Histories = append(file.Histories, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetBySteamID(ctx context.Context, steamID domain.SteamID) (domain.RecommendationHistory, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationHistory{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.RecommendationHistory{}, err
	}

	for _, entry := range file.Histories {
		if entry.SteamID == string(steamID) {
			return fromSchema(entry), nil
		}
	}

	return domain.RecommendationHistory{}, domain.ErrHistoryNotFound
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read history file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode history file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode history file: %w", err)
	}

	if err := atomicfile.Write(r.historyPath, data, tempFilePattern); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	return nil
}

func toSchema(history domain.RecommendationHistory) historySchema {
	recommendations := make([]recommendationSchema, 0, len(history.Recommendations))
	for _, rec := range history.Recommendations {
		recommendations = append(recommendations, recommendationSchema{
			AppID:                rec.AppID,
			Name:                 rec.Name,
			Score:                rec.Score,
			OwnedBy:              steamIDStrings(rec.OwnedBy),
			RecentlyPlayedBy:     steamIDStrings(rec.RecentlyPlayedBy),
			AveragePlaytimeHours: rec.AveragePlaytimeHours,
			GlobalOwners:         rec.GlobalOwners,
			PositiveReviews:      rec.PositiveReviews,
			Developer:            rec.Developer,
			StoreURL:             rec.StoreURL,
		})
	}

	return historySchema{
		SteamID:         string(history.SteamID),
		ExportedAt:      formatTime(history.ExportedAt),
		Recommendations: recommendations,
	}
}

func fromSchema(entry historySchema) domain.RecommendationHistory {
	exportedAt := parseTime(entry.ExportedAt)
	recommendations := make([]domain.ExportedRecommendation, 0, len(entry.Recommendations))
	for _, rec := range entry.Recommendations {
		storeURL := rec.StoreURL
		if storeURL == "" {
			storeURL = domain.StoreURL(rec.AppID)
		}

		recommendations = append(recommendations, domain.ExportedRecommendation{
			Recommendation: domain.Recommendation{
				AppID:                rec.AppID,
				Name:                 rec.Name,
				Score:                rec.Score,
				OwnedBy:              steamIDs(rec.OwnedBy),
				RecentlyPlayedBy:     steamIDs(rec.RecentlyPlayedBy),
				AveragePlaytimeHours: rec.AveragePlaytimeHours,
			},
			GlobalOwners:    rec.GlobalOwners,
			PositiveReviews: rec.PositiveReviews,
			Developer:       rec.Developer,
			StoreURL:        storeURL,
			ExportedAt:      exportedAt,
		})
	}

	return domain.RecommendationHistory{
		SteamID:         domain.SteamID(entry.SteamID),
		ExportedAt:      exportedAt,
		Recommendations: recommendations,
	}
}

func steamIDStrings(ids []domain.SteamID) []string {
	if len(ids) == 0 {
		return nil
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func steamIDs(raw []string) []domain.SteamID {
	if len(raw) == 0 {
		return nil
	}

	out := make([]domain.SteamID, len(raw))
	for i, id := range raw {
		out[i] = domain.SteamID(id)
	}
	return out
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
