package refdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))
	return path
}

func TestDatasetLoadAll(t *testing.T) {
	t.Parallel()

	path := writeDataset(t,
		`{"appid":620,"name":"Portal 2","developer":"Valve","publisher":"Valve","score_rank":"","positive":300000,"negative":3000,"userscore":0,"owners":"10,000,000 .. 20,000,000","average_forever":1000,"average_2weeks":20,"median_forever":500,"median_2weeks":10,"price":"999","initialprice":"999","discount":"0","ccu":2500}`,
		``,
		`{"appid":"570","name":"Dota 2","owners":"100,000,000 .. 200,000,000","positive":"1500000","negative":null,"price":0}`,
	)

	entries, err := NewDataset(path).LoadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, domain.ReferenceEntry{
		AppID:          620,
		Name:           "Portal 2",
		Developer:      "Valve",
		Publisher:      "Valve",
		Owners:         "10,000,000 .. 20,000,000",
		Positive:       300000,
		Negative:       3000,
		AverageForever: 1000,
		MedianForever:  500,
		Price:          "999",
		CCU:            2500,
	}, entries[620])
	assert.Equal(t, 1500000, entries[570].Positive)
	assert.Zero(t, entries[570].Negative)
	assert.Equal(t, "0", entries[570].Price)
}

func TestDatasetSkipsMalformedLines(t *testing.T) {
	t.Parallel()

	path := writeDataset(t,
		`{"appid":10,"name":"Counter-Strike","owners":"10,000,000 .. 20,000,000"}`,
		`{"appid":20,"name":`,
		`not json at all`,
		`{"name":"no id"}`,
		`{"appid":30,"name":"Team Fortress Classic","positive":"lots"}`,
		`{"appid":40,"name":"Day of Defeat"}`,
	)

	entries, err := NewDataset(path).LoadAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Contains(t, entries, 10)
	assert.Contains(t, entries, 40)
}

func TestDatasetSkipsOversizedLines(t *testing.T) {
	t.Parallel()

	path := writeDataset(t,
		`{"appid":10,"name":"Counter-Strike"}`,
		`{"appid":20,"name":"`+strings.Repeat("x", maxLineBytes+10)+`"}`,
		`{"appid":40,"name":"Day of Defeat"}`,
	)

	entries, err := NewDataset(path).LoadAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Contains(t, entries, 10)
	assert.NotContains(t, entries, 20)
	assert.Equal(t, "Day of Defeat", entries[40].Name)
}

func TestDatasetReadsLastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{\"appid\":10}\r\n{\"appid\":20}"), 0o600))

	entries, err := NewDataset(path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDatasetMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	entries, err := NewDataset(filepath.Join(t.TempDir(), FileName)).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDatasetHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataset(writeDataset(t, `{"appid":10}`)).LoadAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
