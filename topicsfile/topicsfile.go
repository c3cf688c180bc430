// Package topicsfile loads statebus topic configurations from JSON files, so
// deployments can declare their topics next to the rest of their config
// instead of in code. Validators cannot be expressed in a file; loaded topics
// keep the always-valid default.
package topicsfile

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/nfrund/statebus"
)

// Topic is the file schema for one topic config.
type Topic struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Default      any    `json:"default,omitempty"`
	EventOnly    bool   `json:"eventOnly,omitempty"`
	DoPrime      *bool  `json:"doPrime,omitempty"`
	AllowRepeats bool   `json:"allowRepeats,omitempty"`
}

// File is the schema of a topics file: an ordered list of topic configs.
type File struct {
	Topics []Topic `json:"topics"`
}

// Load reads a topics file and converts it into broker topic configs. The
// order in the file is preserved, which matters because AddTopics aborts on
// the first invalid entry.
func Load(fsys afero.Fs, path string) ([]statebus.TopicConfig, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file %s: %w", path, err)
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}

	configs := make([]statebus.TopicConfig, 0, len(file.Topics))
	for _, t := range file.Topics {
		configs = append(configs, statebus.TopicConfig{
			Name:         t.Name,
			Description:  t.Description,
			Default:      t.Default,
			EventOnly:    t.EventOnly,
			DoPrime:      t.DoPrime,
			AllowRepeats: t.AllowRepeats,
		})
	}
	return configs, nil
}

// Apply loads a topics file and registers its topics with the broker.
func Apply(b *statebus.Broker, fsys afero.Fs, path string) error {
	configs, err := Load(fsys, path)
	if err != nil {
		return err
	}
	return b.AddTopics(configs...)
}
