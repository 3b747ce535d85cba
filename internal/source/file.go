// internal/source/file.go
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
)

const fileSourceName = "file"

// FileSource reads parser output from disk. Both {"test_cases": [...]} and a
// bare array are accepted, as JSON or YAML depending on the extension.
type FileSource struct {
	path   string
	logger logger.Logger
}

func NewFileSource(path string, log logger.Logger) *FileSource {
	return &FileSource{path: path, logger: log}
}

func (s *FileSource) Name() string { return fileSourceName }

func (s *FileSource) Fetch(ctx context.Context) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewUpstreamFailureError(fileSourceName, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewUpstreamFailureError(fileSourceName, err)
	}

	var candidates []models.Candidate
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		candidates, err = decodeYAML(data)
	default:
		candidates, err = decodeJSON(data)
	}
	if err != nil {
		return nil, errors.NewUpstreamFailureError(fileSourceName, fmt.Errorf("%s: %w", s.path, err))
	}
	if len(candidates) == 0 {
		return nil, errors.NewUpstreamFailureError(fileSourceName, fmt.Errorf("%s: no test cases", s.path))
	}

	s.logger.Info("candidates loaded", map[string]interface{}{
		"path":  s.path,
		"count": len(candidates),
	})
	return candidates, nil
}

func decodeJSON(data []byte) ([]models.Candidate, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []models.Candidate
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var env candidateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.TestCases, nil
}

func decodeYAML(data []byte) ([]models.Candidate, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var raw interface{}
	if node.Content[0].Kind == yaml.SequenceNode {
		var list []interface{}
		if err := node.Content[0].Decode(&list); err != nil {
			return nil, err
		}
		raw = list
	} else {
		var env map[string]interface{}
		if err := node.Content[0].Decode(&env); err != nil {
			return nil, err
		}
		raw = env["test_cases"]
	}

	// Round-trip through JSON so YAML scalars take the same Go types as the
	// JSON path (float64 numbers, []interface{} lists).
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var list []models.Candidate
	if err := json.Unmarshal(buf, &list); err != nil {
		return nil, err
	}
	return list, nil
}
