package worklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkItem_Script(t *testing.T) {
	item := WorkItem{Name: "santorini", Prompt: "a villa"}

	events := item.Script()
	require.Len(t, events, 3)

	require.NotNil(t, events[0].Start)
	assert.Equal(t, 0, events[0].TimestampMS)
	assert.Equal(t, "a villa", events[0].Start.Prompt)

	require.NotNil(t, events[1].Interact)
	assert.Equal(t, 5000, events[1].TimestampMS)
	assert.Equal(t, "Slowly look around the space", events[1].Interact.Prompt)

	require.NotNil(t, events[2].End)
	assert.Equal(t, 10000, events[2].TimestampMS)
}

func TestWorkItem_Script_CustomInteract(t *testing.T) {
	item := WorkItem{Name: "tokyo", Prompt: "an apartment", Interact: "Pan towards the window"}

	events := item.Script()
	require.NotNil(t, events[1].Interact)
	assert.Equal(t, "Pan towards the window", events[1].Interact.Prompt)
}

func TestWorkItem_SubmitRequest(t *testing.T) {
	item := WorkItem{Name: "tokyo", Prompt: "an apartment", Portrait: true}

	req := item.SubmitRequest()
	assert.True(t, req.Portrait)
	assert.Len(t, req.Script, 3)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		items   []WorkItem
		wantErr bool
	}{
		{
			name:  "valid list",
			items: []WorkItem{{Name: "a", Prompt: "p"}, {Name: "b", Prompt: "q"}},
		},
		{
			name:    "missing name",
			items:   []WorkItem{{Prompt: "p"}},
			wantErr: true,
		},
		{
			name:    "missing prompt",
			items:   []WorkItem{{Name: "a"}},
			wantErr: true,
		},
		{
			name:    "name with path separator",
			items:   []WorkItem{{Name: "../escape", Prompt: "p"}},
			wantErr: true,
		},
		{
			name:    "duplicate names",
			items:   []WorkItem{{Name: "a", Prompt: "p"}, {Name: "a", Prompt: "q"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.items)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklist.yaml")
	content := `items:
  - name: lisbon
    prompt: A sunlit apartment in Alfama, Lisbon
  - name: kyoto
    prompt: A traditional ryokan room in Kyoto
    interact: Walk towards the garden
    portrait: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "lisbon", items[0].Name)
	assert.Equal(t, "Walk towards the garden", items[1].Interact)
	assert.True(t, items[1].Portrait)
}

func TestLoad_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrEmptyWorklist)
}

func TestLoad_InvalidItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: x\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	items := Default()
	require.Len(t, items, 4)
	assert.Equal(t, "santorini", items[0].Name)
	assert.NoError(t, Validate(items))
}
