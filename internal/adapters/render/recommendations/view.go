package recommendations

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/steamrec/internal/application"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 20

type RenderOptions struct {
	// BarWidth is the width of the relative score bar. Zero uses the default.
	BarWidth int
	// HideLinks drops the store URL line under each entry.
	HideLinks bool
}

// Summary is the header shown above the ranked list.
type Summary struct {
	SteamID      domain.SteamID
	Friends      int
	Libraries    int
	Batches      int
	TotalBatches int
	StopReason   string
	GeneratedAt  time.Time
}

type Input struct {
	Title           string
	Summary         Summary
	Recommendations []domain.ExportedRecommendation
	EmptyReason     string
}

func FromResult(result application.RecommendResult) Input {
	libraries := 0
	if result.Collect.Snapshot != nil {
		libraries = result.Collect.Snapshot.PeerCount()
	}

	return Input{
		Title: "Steam Game Recommendations",
		Summary: Summary{
			SteamID:      result.SteamID,
			Friends:      len(result.Peers),
			Libraries:    libraries,
			Batches:      len(result.Collect.Batches),
			TotalBatches: result.Collect.TotalBatches,
			StopReason:   string(result.Collect.StopReason),
			GeneratedAt:  result.GeneratedAt,
		},
		Recommendations: result.Recommendations,
		EmptyReason:     result.EmptyReason(),
	}
}

func FromHistory(history domain.RecommendationHistory) Input {
	input := Input{
		Title: "Saved Recommendations",
		Summary: Summary{
			SteamID:     history.SteamID,
			GeneratedAt: history.ExportedAt,
		},
		Recommendations: history.Recommendations,
	}
	if len(history.Recommendations) == 0 {
		input.EmptyReason = "the saved run had no recommendations"
	}
	return input
}

func renderHeader(input Input, s styles) []string {
	lines := []string{
		s.title.Render(input.Title),
		s.header.Render(summaryLine(input.Summary)),
	}
	if warning := stopWarning(input.Summary.StopReason); warning != "" {
		lines = append(lines, s.warning.Render(warning))
	}
	return lines
}

func renderEmpty(reason string, s styles) string {
	if reason == "" {
		reason = "No recommendations available."
	}
	return s.section.Render(s.empty.Render(reason))
}

func summaryLine(summary Summary) string {
	parts := make([]string, 0, 5)
	if summary.SteamID != "" {
		parts = append(parts, fmt.Sprintf("steam id: %s", summary.SteamID))
	}
	if summary.Friends > 0 || summary.Libraries > 0 {
		parts = append(parts, fmt.Sprintf("friends: %d", summary.Friends))
		parts = append(parts, fmt.Sprintf("libraries: %d", summary.Libraries))
	}
	if summary.TotalBatches > 0 {
		parts = append(parts, fmt.Sprintf("batches: %d/%d", summary.Batches, summary.TotalBatches))
	}
	if !summary.GeneratedAt.IsZero() {
		parts = append(parts, summary.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, "  ")
}

func stopWarning(reason string) string {
	switch application.StopReason(reason) {
	case application.StopRateLimited:
		return "collection stopped early: Steam API rate limit reached, run again later to resume"
	case application.StopLowSuccessRate:
		return "collection stopped early: too many friend libraries failed to load"
	case application.StopConsecutiveFailures:
		return "collection stopped early: repeated batch failures"
	case application.StopCanceled:
		return "collection interrupted, progress was saved"
	case application.StopFirstBatchOnly:
		return "first batch only"
	default:
		return ""
	}
}

func renderEntry(rank int, rec domain.ExportedRecommendation, top float64, opts RenderOptions, s styles) string {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.rank.Render(fmt.Sprintf("%2d.", rank)),
		" ",
		s.name.Render(rec.Name),
	)

	scoreStyle := lipgloss.NewStyle().Foreground(interpolateColor(rec.Score, 0, top))
	score := lipgloss.JoinHorizontal(
		lipgloss.Top,
		"    ",
		renderScoreBar(rec.Score, top, width, s),
		" ",
		scoreStyle.Render(fmt.Sprintf("score %.1f", rec.Score)),
	)

	parts := []string{title, score, s.detail.Render("    " + playLine(rec.Recommendation))}
	if meta := metaLine(rec); meta != "" {
		parts = append(parts, s.meta.Render("    "+meta))
	}
	if !opts.HideLinks && rec.StoreURL != "" {
		parts = append(parts, "    "+s.link.Render(rec.StoreURL))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func playLine(rec domain.Recommendation) string {
	line := fmt.Sprintf("owned by %d %s", len(rec.OwnedBy), plural(len(rec.OwnedBy), "friend", "friends"))
	if recent := len(rec.RecentlyPlayedBy); recent > 0 {
		line += fmt.Sprintf(", %d played recently", recent)
	}
	if rec.AveragePlaytimeHours > 0 {
		line += fmt.Sprintf(", avg %dh played", rec.AveragePlaytimeHours)
	}
	return line
}

func metaLine(rec domain.ExportedRecommendation) string {
	parts := make([]string, 0, 3)
	if rec.GlobalOwners != "" {
		parts = append(parts, "owners "+rec.GlobalOwners)
	}
	if rec.PositiveReviews > 0 {
		parts = append(parts, fmt.Sprintf("%d positive reviews", rec.PositiveReviews))
	}
	if rec.Developer != "" {
		parts = append(parts, "by "+rec.Developer)
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func renderScoreBar(score, top float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := 0.0
	if top > 0 {
		fraction = score / top
	}
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
