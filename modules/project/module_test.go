package project

import (
	"testing"

	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func args(m map[string]any) *registry.Arguments {
	return registry.NewArguments(recipe.Task{Index: 1, Action: "x", Arguments: m})
}

func TestDecodeCreate(t *testing.T) {
	a := args(map[string]any{"project_name": "p", "project_type": "ANDROID", "permit_duplicate": "true"})
	in, err := decodeCreate(a)
	require.NoError(t, err)
	require.NoError(t, a.Err())
	assert.Equal(t, CreateInput{Name: "p", Type: "ANDROID", PermitDuplicate: true}, in)

	a = args(map[string]any{"project_name": "p"})
	_, _ = decodeCreate(a)
	assert.ErrorContains(t, a.Err(), "project_type is required")
}

func TestDecodeUse_IDWinsIsLeftToTheResolver(t *testing.T) {
	a := args(map[string]any{"project_id": 11, "project_name": "another_mock_project"})
	in, err := decodeUse(a)
	require.NoError(t, err)
	require.NoError(t, a.Err())
	assert.Equal(t, resolve.Selector{ID: resolve.ID(11), Name: resolve.Name("another_mock_project")}, in.Project)
}

func TestDecodeSetConfigs(t *testing.T) {
	a := args(map[string]any{"new_values": map[string]any{"timeout": 900}})
	in, err := decodeSetConfigs(a)
	require.NoError(t, err)
	require.NoError(t, a.Err())
	assert.Equal(t, map[string]any{"timeout": 900}, in.Values)

	a = args(map[string]any{})
	_, _ = decodeSetConfigs(a)
	assert.ErrorContains(t, a.Err(), "provide one of: new_values, path")
}
