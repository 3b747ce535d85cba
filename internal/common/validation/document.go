// internal/common/validation/document.go
package validation

import "testcase-ranker/internal/models"

// DocumentSchema describes the exported test case document.
func DocumentSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []interface{}{"metadata", "test_cases"},
		"properties": map[string]interface{}{
			"metadata": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"export_date", "total_test_cases", "risk_summary"},
				"properties": map[string]interface{}{
					"export_date":      map[string]interface{}{"type": "string", "format": "date-time"},
					"run_id":           map[string]interface{}{"type": "string"},
					"total_test_cases": nonNegativeInt(),
					"total_rejected":   nonNegativeInt(),
					"risk_summary":     countsObject("critical", "high", "medium", "low"),
					"priority_summary": countsObject("critical", "high", "medium", "low"),
					"generated_by":     map[string]interface{}{"type": "string"},
				},
			},
			"test_cases": map[string]interface{}{
				"type":  "array",
				"items": testCaseSchema(),
			},
			"rejections": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"index", "reason"},
					"properties": map[string]interface{}{
						"index":  nonNegativeInt(),
						"title":  map[string]interface{}{"type": "string"},
						"reason": map[string]interface{}{"type": "string", "minLength": 1},
					},
				},
			},
		},
	}
}

func testCaseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"required": []interface{}{
			"test_id", "title", "test_steps", "expected_result", "test_type",
			"priority", "risk_score", "risk_category", "execution_order",
		},
		"properties": map[string]interface{}{
			"test_id":         map[string]interface{}{"type": "string", "pattern": `^TC-[0-9]{3,}$`},
			"title":           map[string]interface{}{"type": "string", "minLength": 1},
			"test_steps":      map[string]interface{}{"type": "array", "minItems": 1, "items": map[string]interface{}{"type": "string"}},
			"expected_result": map[string]interface{}{"type": "string", "minLength": 1},
			"test_type":       map[string]interface{}{"type": "string", "enum": testTypeEnum()},
			"priority":        map[string]interface{}{"type": "string", "enum": priorityEnum()},
			"components":      map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"complexity":      map[string]interface{}{"type": "integer", "minimum": models.MinComplexity, "maximum": models.MaxComplexity},
			"risk_score":      map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
			"risk_category":   map[string]interface{}{"type": "string", "enum": categoryEnum()},
			"execution_order": map[string]interface{}{"type": "integer", "minimum": 1},
		},
	}
}

func nonNegativeInt() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 0}
}

func countsObject(keys ...string) map[string]interface{} {
	props := make(map[string]interface{}, len(keys))
	required := make([]interface{}, len(keys))
	for i, k := range keys {
		props[k] = nonNegativeInt()
		required[i] = k
	}
	return map[string]interface{}{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

func testTypeEnum() []interface{} {
	out := make([]interface{}, len(models.TestTypes))
	for i, tt := range models.TestTypes {
		out[i] = string(tt)
	}
	return out
}

func priorityEnum() []interface{} {
	out := make([]interface{}, len(models.Priorities))
	for i, p := range models.Priorities {
		out[i] = string(p)
	}
	return out
}

func categoryEnum() []interface{} {
	out := make([]interface{}, len(models.RiskCategories))
	for i, c := range models.RiskCategories {
		out[i] = string(c)
	}
	return out
}

// ValidateDocument checks an export document against DocumentSchema.
func ValidateDocument(doc interface{}) (*ValidationResult, error) {
	return Validate(DocumentSchema(), doc)
}
