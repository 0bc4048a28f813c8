package foodkeeper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/internal/domain"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "FoodKeeper.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeDataset(t, `[{"name": "Milk", "keywords": ["dairy milk"],
		"refrigerator": {"min": 5, "max": 7, "unit": "Days"}}]`)

	loader := NewLoader(FileSource{Path: path}, true, zap.NewNop())
	records, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Milk", records[0].Name)
	assert.Equal(t, "5-7 Days", records[0].Refrigerate.String())
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}, true, nil)

	_, err := loader.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestLoader_SchemaRejectsWrongShape(t *testing.T) {
	path := writeDataset(t, `[{"name": "Milk", "refrigerator": {"min": "five"}}]`)

	_, err := NewLoader(FileSource{Path: path}, true, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDatasetMalformed)

	// Without schema validation the decoder still rejects the type mismatch
	_, err = NewLoader(FileSource{Path: path}, false, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDatasetMalformed)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"record array", `[{"name": "Milk", "keywords": "a,b"}]`, false},
		{"product data", `{"product_data": [{"id": 1, "name": "Milk"}]}`, false},
		{"workbook", `{"sheets": [{"name": "Product", "data": [[{"ID": 1}]]}]}`, false},
		{"not json", `{{`, true},
		{"wrong top level", `{"foods": []}`, true},
		{"sheet without data", `{"sheets": [{"name": "Product"}]}`, true},
		{"keywords as number", `[{"name": "Milk", "keywords": 3}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrDatasetMalformed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
