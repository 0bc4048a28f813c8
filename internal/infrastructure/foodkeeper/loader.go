package foodkeeper

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/internal/domain"
)

//go:embed schema.json
var datasetSchema []byte

// FileSource reads the dataset from the local filesystem
type FileSource struct {
	Path string
}

// Read returns the file contents; a missing file maps to domain.ErrDatasetNotFound
func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, s.Path)
		}
		return nil, fmt.Errorf("failed to read dataset %s: %w", s.Path, err)
	}
	return data, nil
}

// Describe names the source for logs and report metadata
func (s FileSource) Describe() string {
	return s.Path
}

// Loader reads, validates and decodes the FoodKeeper dataset
type Loader struct {
	source         domain.DatasetSource
	validateSchema bool
	logger         *zap.Logger
}

// NewLoader creates a loader for the given source
func NewLoader(source domain.DatasetSource, validateSchema bool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source:         source,
		validateSchema: validateSchema,
		logger:         logger,
	}
}

// Load returns the dataset records in dataset order
func (l *Loader) Load(ctx context.Context) ([]domain.FoodRecord, error) {
	data, err := l.source.Read(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("dataset read",
		zap.String("source", l.source.Describe()),
		zap.Int("bytes", len(data)))

	if l.validateSchema {
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
	}

	records, err := Decode(data)
	if err != nil {
		return nil, err
	}

	l.logger.Info("dataset loaded",
		zap.String("source", l.source.Describe()),
		zap.Int("records", len(records)))
	return records, nil
}

// ValidateDocument checks the raw document against the embedded dataset schema
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(datasetSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatasetMalformed, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: schema validation failed: %s", domain.ErrDatasetMalformed, strings.Join(errs, "; "))
	}

	return nil
}
