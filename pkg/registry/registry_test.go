// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Find(t *testing.T) {
	reg := Default()

	for _, taskType := range TaskTypes {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, taskType, activity.TaskType)
		assert.NotEmpty(t, activity.ErrorCodes)
	}

	_, ok := reg.Find("send-email")
	assert.False(t, ok)
}

func TestActivity_ValidateInput(t *testing.T) {
	activity, ok := Default().Find(TaskExportTestCases)
	require.True(t, ok)

	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{"valid", `{"orderedTestCases": [], "outputDir": "out"}`, false},
		{"missing orderedTestCases", `{"outputDir": "out"}`, true},
		{"wrong type", `{"orderedTestCases": "nope"}`, true},
		{"not json", `{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := activity.ValidateInput(tt.variables)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivity_ValidateOutput(t *testing.T) {
	activity, ok := Default().Find(TaskValidateTestCases)
	require.True(t, ok)

	assert.NoError(t, activity.ValidateOutput(map[string]interface{}{
		"status":     "no_input",
		"testCases":  []interface{}{},
		"rejections": []interface{}{},
	}))
	assert.Error(t, activity.ValidateOutput(map[string]interface{}{
		"status":     "done",
		"testCases":  []interface{}{},
		"rejections": []interface{}{},
	}))
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "registry.json")
	require.NoError(t, Save(Default(), path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 4)
	assert.NotEmpty(t, reg.LastUpdated)
	assert.NoError(t, reg.Check())

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestActivityRegistry_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"default is complete", func(r *ActivityRegistry) {}, ""},
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities[1].ID = r.Activities[0].ID }, "duplicate activity ID"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"negative retries", func(r *ActivityRegistry) { r.Activities[2].Retries = -1 }, "negative retries"},
		{"missing task type", func(r *ActivityRegistry) { r.Activities = r.Activities[:3] }, TaskExportTestCases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Default()
			tt.mutate(reg)

			err := reg.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
