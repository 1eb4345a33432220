package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SplitsDirectiveAndKeepsOrder(t *testing.T) {
	raw := []any{
		map[string]any{"action": "set_device", "arguments": map[string]any{"device": "mock_device_1"}},
		map[string]any{"project": "existing", "arguments": map[string]any{
			"project_id":         11,
			"TESTDROID_USERNAME": "user",
			"TESTDROID_APIKEY":   "abc",
		}},
		map[string]any{"action": "start_test_run", "arguments": map[string]any{"name": "run_a"}},
		map[string]any{"action": "await_completion", "arguments": nil},
	}

	r, err := Load(raw)
	require.NoError(t, err)

	assert.Equal(t, StatusExisting, r.Directive.Status)
	assert.Equal(t, map[string]any{"project_id": 11}, r.Directive.Arguments)
	assert.Equal(t, map[string]string{"TESTDROID_USERNAME": "user", "TESTDROID_APIKEY": "abc"}, r.Directive.Credentials)

	require.Len(t, r.Tasks, 3)
	assert.Equal(t, "set_device", r.Tasks[0].Action)
	assert.Equal(t, 0, r.Tasks[0].Index)
	assert.Equal(t, "start_test_run", r.Tasks[1].Action)
	assert.Equal(t, 2, r.Tasks[1].Index)
	assert.Equal(t, "await_completion", r.Tasks[2].Action)
	assert.Empty(t, r.Tasks[2].Arguments)
}

func TestLoad_FirstDirectiveWins(t *testing.T) {
	raw := []any{
		map[string]any{"project": "new", "arguments": map[string]any{"project_name": "a"}},
		map[string]any{"project": "existing", "arguments": map[string]any{}},
	}
	_, err := Load(raw)

	var rerr *Error
	require.ErrorAs(t, err, &rerr, "the second directive is a task without an action")
	assert.Equal(t, MissingAction, rerr.Defect)
	assert.Equal(t, 1, rerr.Index)
}

func TestLoad_Defects(t *testing.T) {
	directive := map[string]any{"project": "existing", "arguments": map[string]any{"project_id": 11}}

	tests := []struct {
		name  string
		raw   any
		want  Defect
		index int
	}{
		{name: "not a sequence", raw: map[string]any{"project": "new"}, want: NotSequence, index: -1},
		{name: "nil", raw: nil, want: NotSequence, index: -1},
		{name: "empty", raw: []any{}, want: NoDirective, index: -1},
		{name: "no directive", raw: []any{map[string]any{"action": "x", "arguments": map[string]any{}}}, want: NoDirective, index: -1},
		{name: "bad status", raw: []any{map[string]any{"project": "old", "arguments": map[string]any{}}}, want: BadStatus, index: 0},
		{name: "directive without arguments", raw: []any{map[string]any{"project": "new"}}, want: BadArguments, index: 0},
		{name: "directive arguments not a mapping", raw: []any{map[string]any{"project": "new", "arguments": []any{1}}}, want: BadArguments, index: 0},
		{name: "task not a mapping", raw: []any{directive, "set_device"}, want: TaskNotMapping, index: 1},
		{name: "task without action", raw: []any{directive, map[string]any{"arguments": map[string]any{}}}, want: MissingAction, index: 1},
		{name: "task without arguments", raw: []any{directive, map[string]any{"action": "set_device"}}, want: MissingArguments, index: 1},
		{name: "task arguments not a mapping", raw: []any{directive, map[string]any{"action": "set_device", "arguments": "x"}}, want: BadArguments, index: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.raw)
			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tc.want, rerr.Defect)
			assert.Equal(t, tc.index, rerr.Index)
			assert.Contains(t, err.Error(), tc.want.String())
		})
	}
}
