package csvfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/tally/internal/adapters/csvfile"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annotate.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVStore_Contract(t *testing.T) {
	tests.DatasetStoreContractTest(t, func(t *testing.T, seed domain.Dataset) ports.DatasetStore {
		var sb strings.Builder
		sb.WriteString("ID,Prompts,Responses,Label\n")
		for _, row := range seed {
			sb.WriteString(row.ID + "," + row.Prompt + "," + row.Response + "," + string(row.Label) + "\n")
		}
		return csvfile.New(writeFixture(t, sb.String()))
	})
}

func TestLoad_MissingFile(t *testing.T) {
	store := csvfile.New(filepath.Join(t.TempDir(), "nope.csv"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestLoad_MissingColumns(t *testing.T) {
	store := csvfile.New(writeFixture(t, "ID,Prompts\na,hello\n"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Contains(t, err.Error(), "Responses")
}

func TestLoad_MalformedCSV(t *testing.T) {
	// Unbalanced quote makes the reader fail.
	store := csvfile.New(writeFixture(t, "ID,Prompts,Responses\na,\"broken,oops\n"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestLoad_UnknownLabelToken(t *testing.T) {
	store := csvfile.New(writeFixture(t, "ID,Prompts,Responses,Label\na,p,r,Maybe\n"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestLoad_SchemaUpgrade(t *testing.T) {
	path := writeFixture(t, "ID,Prompts,Responses\na,p1,r1\nb,p2,r2\n")
	store := csvfile.New(path)
	ctx := context.Background()

	rows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.Label.IsSet())
	}

	// The upgrade rewrite makes the Label column visible to raw readers.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	header := strings.SplitN(string(raw), "\n", 2)[0]
	assert.Equal(t, "ID,Prompts,Responses,Label", header)

	// A second load sees the upgraded file.
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestSetLabel_PersistsAcrossStores(t *testing.T) {
	path := writeFixture(t, "ID,Prompts,Responses,Label\na,p1,r1,\nb,p2,r2,\n")
	ctx := context.Background()

	require.NoError(t, csvfile.New(path).SetLabel(ctx, "b", domain.LabelNo))

	// A fresh store over the same path observes the write, which is the
	// whole point: no write-behind caching layer.
	rows, err := csvfile.New(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LabelNo, rows.Find("b").Label)
	assert.False(t, rows.Find("a").Label.IsSet())
}

func TestSetLabel_QuotedFields(t *testing.T) {
	path := writeFixture(t, "ID,Prompts,Responses,Label\na,\"hello, world\",\"line\nbreak\",\n")
	ctx := context.Background()
	store := csvfile.New(path)

	require.NoError(t, store.SetLabel(ctx, "a", domain.LabelYes))

	rows, err := store.Load(ctx)
	require.NoError(t, err)
	row := rows.Find("a")
	require.NotNil(t, row)
	assert.Equal(t, "hello, world", row.Prompt)
	assert.Equal(t, "line\nbreak", row.Response)
	assert.Equal(t, domain.LabelYes, row.Label)
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	path := writeFixture(t, "ID,Prompts,Responses,Label\na,p,r,\n")
	ctx := context.Background()
	require.NoError(t, csvfile.New(path).SetLabel(ctx, "a", domain.LabelYes))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone after rename")
}

func TestClearLabels_MissingFile(t *testing.T) {
	store := csvfile.New(filepath.Join(t.TempDir(), "gone.csv"))
	err := store.ClearLabels(context.Background())
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestSetLabel_RowVanished(t *testing.T) {
	path := writeFixture(t, "ID,Prompts,Responses,Label\na,p,r,\n")
	err := csvfile.New(path).SetLabel(context.Background(), "z", domain.LabelYes)
	assert.ErrorIs(t, err, domain.ErrRowNotFound)
}
