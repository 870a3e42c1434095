// Package worklist defines the batch of demo clips to generate and how each
// demo translates into an Odyssey simulation script.
package worklist

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
)

// ErrEmptyWorklist is returned when a worklist file contains no items.
var ErrEmptyWorklist = errors.New("worklist: no items defined")

// Default script timing, matching the reference demo clips: open the scene,
// pan after five seconds, stop at ten.
const (
	defaultInteractAtMS = 5000
	defaultEndAtMS      = 10000
	defaultInteract     = "Slowly look around the space"
)

// WorkItem is one demo clip to generate. Items are immutable once the
// batch starts; artifact filenames are derived from Name, so it must be
// unique within a worklist and safe to use as a filename.
type WorkItem struct {
	// Name identifies the demo and names its output files.
	Name string `yaml:"name" validate:"required,max=64,excludesall=/\\"`
	// Prompt is the scene description for the start event.
	Prompt string `yaml:"prompt" validate:"required"`
	// Interact optionally overrides the default camera-movement prompt.
	Interact string `yaml:"interact,omitempty"`
	// Portrait requests a vertical aspect ratio.
	Portrait bool `yaml:"portrait,omitempty"`
}

// Script builds the simulation script for this item: a start event at
// timestamp 0, one interact event, and an end event.
func (w WorkItem) Script() []odyssey.ScriptEvent {
	interact := w.Interact
	if interact == "" {
		interact = defaultInteract
	}
	return []odyssey.ScriptEvent{
		{TimestampMS: 0, Start: &odyssey.StartAction{Prompt: w.Prompt}},
		{TimestampMS: defaultInteractAtMS, Interact: &odyssey.InteractAction{Prompt: interact}},
		{TimestampMS: defaultEndAtMS, End: &odyssey.EndAction{}},
	}
}

// SubmitRequest builds the full submission payload for this item.
func (w WorkItem) SubmitRequest() odyssey.SubmitRequest {
	return odyssey.SubmitRequest{
		Script:   w.Script(),
		Portrait: w.Portrait,
	}
}

// worklistFile is the on-disk YAML layout.
type worklistFile struct {
	Items []WorkItem `yaml:"items"`
}

// Validate checks all items in the list and rejects duplicate names.
func Validate(items []WorkItem) error {
	v := validator.New()
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := v.Struct(item); err != nil {
			return fmt.Errorf("worklist: item %d (%q): %w", i, item.Name, err)
		}
		if _, dup := seen[item.Name]; dup {
			return fmt.Errorf("worklist: duplicate item name %q", item.Name)
		}
		seen[item.Name] = struct{}{}
	}
	return nil
}

// Load reads and validates a worklist from a YAML file.
func Load(path string) ([]WorkItem, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, fmt.Errorf("worklist: read %s: %w", path, err)
	}

	var f worklistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("worklist: parse %s: %w", path, err)
	}

	if len(f.Items) == 0 {
		return nil, ErrEmptyWorklist
	}

	if err := Validate(f.Items); err != nil {
		return nil, err
	}

	return f.Items, nil
}

// Default returns the built-in Airbnb showcase worklist.
func Default() []WorkItem {
	return []WorkItem{
		{
			Name:   "santorini",
			Prompt: "A luxurious Airbnb villa in Santorini, Greece. White-washed walls, blue domed roof, infinity pool overlooking the Aegean Sea at golden hour",
		},
		{
			Name:   "tokyo",
			Prompt: "A cozy modern Tokyo apartment. Minimalist Japanese interior, floor-to-ceiling windows with neon city skyline view at night",
		},
		{
			Name:   "whistler",
			Prompt: "A rustic mountain cabin in Whistler, Canada. Stone fireplace, wooden beams, snow-covered peaks visible through large windows",
		},
		{
			Name:   "brooklyn",
			Prompt: "A stylish Brooklyn loft apartment. Exposed brick walls, industrial fixtures, open plan kitchen, large art on walls, afternoon sunlight",
		},
	}
}
