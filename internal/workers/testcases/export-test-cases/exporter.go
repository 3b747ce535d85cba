// internal/workers/testcases/export-test-cases/exporter.go
package exporttestcases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/common/metrics"
	"testcase-ranker/internal/common/validation"
	"testcase-ranker/internal/models"
)

// ExportResult describes one written file.
type ExportResult struct {
	Path      string `json:"path"`
	Format    Format `json:"format"`
	SizeBytes int64  `json:"sizeBytes"`
}

// Exporter writes a document in every configured format under one base name.
type Exporter struct {
	outputDir string
	baseName  string
	formats   []Format
	logger    logger.Logger
}

func NewExporter(outputDir, baseName string, formats []Format, log logger.Logger) *Exporter {
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatYAML}
	}
	return &Exporter{
		outputDir: outputDir,
		baseName:  baseName,
		formats:   formats,
		logger:    log,
	}
}

// Path returns the target file for format f.
func (e *Exporter) Path(f Format) string {
	return filepath.Join(e.outputDir, e.baseName+"."+f.Extension())
}

// Export checks doc against the document schema, encodes it in every format
// and then swaps all files into place as a set. Nothing is renamed until every
// encoding has been written and synced, and a rename failure restores the
// targets already replaced, so a failed run leaves previous exports untouched.
// A document that fails the schema is reported as INVALID_INPUT.
func (e *Exporter) Export(ctx context.Context, doc models.Document) ([]ExportResult, error) {
	res, err := validation.ValidateDocument(doc)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("validate document: %w", err))
	}
	if err := res.Err(); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("document fails export schema: %v", err))
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, errors.NewExportFailedError(e.outputDir, err)
	}

	staged := make([]*stagedFile, 0, len(e.formats))
	discardAll := func() {
		for _, s := range staged {
			s.discard()
		}
	}

	for _, f := range e.formats {
		if err := ctx.Err(); err != nil {
			discardAll()
			return nil, errors.NewExportFailedError(e.Path(f), err)
		}
		data, err := Encode(doc, f)
		if err != nil {
			discardAll()
			metrics.ExportsWritten.WithLabelValues(string(f), "failed").Inc()
			return nil, errors.NewExportFailedError(e.Path(f), err)
		}
		s, err := stage(e.Path(f), data)
		if err != nil {
			discardAll()
			metrics.ExportsWritten.WithLabelValues(string(f), "failed").Inc()
			return nil, errors.NewExportFailedError(e.Path(f), err)
		}
		staged = append(staged, s)
	}

	if failed, err := commitAll(staged); err != nil {
		for _, f := range e.formats {
			metrics.ExportsWritten.WithLabelValues(string(f), "failed").Inc()
		}
		return nil, errors.NewExportFailedError(failed, err)
	}

	results := make([]ExportResult, 0, len(staged))
	for i, s := range staged {
		metrics.ExportsWritten.WithLabelValues(string(e.formats[i]), "ok").Inc()
		results = append(results, ExportResult{Path: s.path, Format: e.formats[i], SizeBytes: s.size})

		e.logger.Info("export written", map[string]interface{}{
			"path":   s.path,
			"format": e.formats[i],
			"bytes":  s.size,
		})
	}

	return results, nil
}

// ReadDocument loads an exported file, inferring the format from its extension.
func ReadDocument(path string) (*models.Document, Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, "", errors.NewInvalidInputError(err.Error())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, f, errors.NewInvalidInputError(fmt.Sprintf("read %s: %v", path, err))
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, f, errors.NewInvalidInputError(fmt.Sprintf("%s: %v", path, err))
	}
	return doc, f, nil
}
