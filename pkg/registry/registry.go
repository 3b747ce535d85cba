// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"testcase-ranker/internal/common/validation"
)

const (
	TaskValidateTestCases  = "validate-test-cases"
	TaskCalculateRiskScore = "calculate-risk-score"
	TaskOrderExecution     = "order-execution"
	TaskExportTestCases    = "export-test-cases"
)

// TaskTypes lists every job type the worker manager subscribes to.
var TaskTypes = []string{
	TaskValidateTestCases,
	TaskCalculateRiskScore,
	TaskOrderExecution,
	TaskExportTestCases,
}

// LoadRegistry reads a registry file, for example to publish the contracts to
// a modeler.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Save writes reg as indented JSON, stamping LastUpdated.
func Save(reg *ActivityRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Check verifies that a registry is complete: unique ids, the required
// fields, a parseable timeout, and an entry for every task type this
// service registers workers for.
func (r *ActivityRegistry) Check() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", a.ID)
		}
		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout)
			}
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", a.ID)
		}
	}

	for _, taskType := range TaskTypes {
		if _, ok := r.Find(taskType); !ok {
			return fmt.Errorf("no activity registered for task type %s", taskType)
		}
	}
	return nil
}

// Default returns the built-in activity definitions.
func Default() *ActivityRegistry {
	testCase := withProperties(objectWith("title", "test_steps", "expected_result", "test_type", "priority"), map[string]interface{}{
		"title":      map[string]interface{}{"type": "string", "minLength": 1},
		"test_steps": map[string]interface{}{"type": "array", "minItems": 1},
		"complexity": map[string]interface{}{"type": "integer"},
	})
	scored := withProperties(objectWith("test_id", "risk_score", "risk_category"), map[string]interface{}{
		"test_id":    map[string]interface{}{"type": "string"},
		"risk_score": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
	})

	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-10-17",
		Activities: []Activity{
			{
				ID:          "validate-test-cases",
				DisplayName: "Validate Test Cases",
				Description: "Normalizes parser output and splits it into accepted and rejected records",
				Category:    "testcases",
				Version:     "1.0.0",
				TaskType:    TaskValidateTestCases,
				InputSchema: withProperties(objectWith(), map[string]interface{}{
					"candidates":    arrayOf(map[string]interface{}{"type": "object"}),
					"upstreamError": map[string]interface{}{"type": "string"},
				}),
				OutputSchema: withProperties(objectWith("status", "testCases", "rejections"), map[string]interface{}{
					"status":    map[string]interface{}{"type": "string", "enum": []interface{}{"success", "no_input"}},
					"testCases": arrayOf(testCase),
				}),
				ErrorCodes: []string{"NO_INPUT", "INVALID_INPUT"},
				Timeout:    "10s",
				Tags:       []string{"validation"},
			},
			{
				ID:          "calculate-risk-score",
				DisplayName: "Calculate Risk Score",
				Description: "Scores accepted test cases and assigns test ids and risk categories",
				Category:    "testcases",
				Version:     "1.0.0",
				TaskType:    TaskCalculateRiskScore,
				InputSchema: withProperties(objectWith("testCases"), map[string]interface{}{
					"testCases": arrayOf(testCase),
				}),
				OutputSchema: withProperties(objectWith("scoredTestCases"), map[string]interface{}{
					"scoredTestCases": arrayOf(scored),
				}),
				ErrorCodes: []string{"INVALID_INPUT", "CONFIGURATION_INVALID"},
				Timeout:    "10s",
				Tags:       []string{"scoring"},
			},
			{
				ID:          "order-execution",
				DisplayName: "Order Execution",
				Description: "Ranks scored test cases by descending risk",
				Category:    "testcases",
				Version:     "1.0.0",
				TaskType:    TaskOrderExecution,
				InputSchema: withProperties(objectWith("scoredTestCases"), map[string]interface{}{
					"scoredTestCases": arrayOf(scored),
				}),
				OutputSchema: withProperties(objectWith("orderedTestCases"), map[string]interface{}{
					"orderedTestCases": arrayOf(scored),
				}),
				ErrorCodes: []string{"INVALID_INPUT"},
				Timeout:    "10s",
				Tags:       []string{"ordering"},
			},
			{
				ID:          "export-test-cases",
				DisplayName: "Export Test Cases",
				Description: "Writes the ranked document as JSON and YAML",
				Category:    "testcases",
				Version:     "1.0.0",
				TaskType:    TaskExportTestCases,
				InputSchema: withProperties(objectWith("orderedTestCases"), map[string]interface{}{
					"orderedTestCases": arrayOf(scored),
					"rejections":       arrayOf(map[string]interface{}{"type": "object"}),
					"outputDir":        map[string]interface{}{"type": "string"},
					"baseName":         map[string]interface{}{"type": "string"},
				}),
				OutputSchema: withProperties(objectWith("files", "metadata"), map[string]interface{}{
					"files": arrayOf(map[string]interface{}{"type": "object"}),
				}),
				ErrorCodes: []string{"INVALID_INPUT", "EXPORT_FAILED"},
				Timeout:    "30s",
				Tags:       []string{"export"},
			},
		},
	}
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateInput checks raw job variables against the activity's input schema.
func (a *Activity) ValidateInput(variables string) error {
	return validateJSON(a.InputSchema, variables)
}

// ValidateOutput checks a handler's output object against the output schema.
func (a *Activity) ValidateOutput(output interface{}) error {
	res, err := validation.Validate(a.OutputSchema, output)
	if err != nil {
		return err
	}
	return res.Err()
}

func validateJSON(schema map[string]interface{}, variables string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &data); err != nil {
		return fmt.Errorf("parse variables: %w", err)
	}
	res, err := validation.Validate(schema, data)
	if err != nil {
		return err
	}
	return res.Err()
}
