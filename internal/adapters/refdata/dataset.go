package refdata

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
	"github.com/goccy/go-json"
)

const (
	FileName     = "base_steam.jsonl"
	maxLineBytes = 4 << 20
)

// Dataset reads SteamSpy-style JSONL, one object per line keyed by appid.
type Dataset struct {
	path string
}

var _ ports.ReferenceDataset = (*Dataset)(nil)

func NewDataset(path string) *Dataset {
	return &Dataset{path: path}
}

type entrySchema struct {
	AppID          flexInt    `json:"appid"`
	Name           flexString `json:"name"`
	Developer      flexString `json:"developer"`
	Publisher      flexString `json:"publisher"`
	Owners         flexString `json:"owners"`
	Positive       flexInt    `json:"positive"`
	Negative       flexInt    `json:"negative"`
	UserScore      flexInt    `json:"userscore"`
	AverageForever flexInt    `json:"average_forever"`
	MedianForever  flexInt    `json:"median_forever"`
	Price          flexString `json:"price"`
	CCU            flexInt    `json:"ccu"`
}

// LoadAll returns an empty map when the file does not exist. Lines that fail
// to decode are skipped.
func (d *Dataset) LoadAll(ctx context.Context) (map[int]domain.ReferenceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Ctx(ctx).Warn().Str("path", d.path).Msg("reference dataset not found, scoring without it")
			return map[int]domain.ReferenceEntry{}, nil
		}
		return nil, fmt.Errorf("open reference dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := d.decode(ctx, file)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Int("games", len(entries)).Str("path", d.path).Msg("reference dataset loaded")
	return entries, nil
}

func (d *Dataset) decode(ctx context.Context, r io.Reader) (map[int]domain.ReferenceEntry, error) {
	log := logging.Ctx(ctx)
	entries := map[int]domain.ReferenceEntry{}

	reader := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	skipped := 0
	for {
		raw, oversized, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read reference dataset line %d: %w", lineNo+1, err)
		}
		if len(raw) > 0 || oversized || err == nil {
			lineNo++
		}

		line := bytes.TrimSpace(raw)
		switch {
		case oversized:
			skipped++
			log.Debug().Int("line", lineNo).Msg("skipping oversized reference line")
		case len(line) > 0:
			if entry, ok := decodeEntry(line); ok {
				entries[entry.AppID] = entry
			} else {
				skipped++
				log.Debug().Int("line", lineNo).Msg("skipping malformed reference line")
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("ignored malformed reference lines")
	}

	return entries, nil
}

func decodeEntry(line []byte) (domain.ReferenceEntry, bool) {
	var raw entrySchema
	if err := json.Unmarshal(line, &raw); err != nil {
		return domain.ReferenceEntry{}, false
	}
	if raw.AppID <= 0 {
		return domain.ReferenceEntry{}, false
	}

	return raw.entry(), true
}

// readLine returns the next line without its newline. Lines longer than
// maxLineBytes are drained and reported as oversized with no content.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	oversized := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !oversized {
			if len(line)+len(chunk) > maxLineBytes+1 {
				oversized = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err != nil:
			return line, oversized, err
		default:
			return bytes.TrimSuffix(line, []byte("\n")), oversized, nil
		}
	}
}

func (s entrySchema) entry() domain.ReferenceEntry {
	return domain.ReferenceEntry{
		AppID:          int(s.AppID),
		Name:           string(s.Name),
		Developer:      string(s.Developer),
		Publisher:      string(s.Publisher),
		Owners:         string(s.Owners),
		Positive:       int(s.Positive),
		Negative:       int(s.Negative),
		UserScore:      int(s.UserScore),
		AverageForever: int(s.AverageForever),
		MedianForever:  int(s.MedianForever),
		Price:          string(s.Price),
		CCU:            int(s.CCU),
	}
}

// flexInt accepts numbers, numeric strings, empty strings and null.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*f = 0
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", raw, err)
	}
	*f = flexInt(value)
	return nil
}

// flexString accepts strings, numbers and null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}
	*f = flexString(raw)
	return nil
}
