// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package qtcache

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// scenarioStep is one operation in a scripted cache scenario.
type scenarioStep struct {
	Op      string `yaml:"op"` // set | get | delete | len
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
	Want    string `yaml:"want"`
	WantOK  bool   `yaml:"wantOK"`
	WantLen int    `yaml:"wantLen"`
}

// scenario scripts a sequence of operations against a bounded cache.
type scenario struct {
	Name    string         `yaml:"name"`
	MaxSize int            `yaml:"maxSize"`
	Steps   []scenarioStep `yaml:"steps"`
}

func TestEvictionScenarios(t *testing.T) {
	raw, err := testDataFS.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(raw, &scenarios))
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			c := New(WithMaxSize(sc.MaxSize), WithCheckInterval(0))
			defer c.Close()

			for i, step := range sc.Steps {
				switch step.Op {
				case "set":
					c.Set(step.Key, step.Value)
				case "get":
					got, ok := c.Get(step.Key)
					assert.Equal(t, step.WantOK, ok, "step %d: get %q hit/miss", i, step.Key)
					if step.WantOK {
						assert.Equal(t, step.Want, got, "step %d: get %q value", i, step.Key)
					}
				case "delete":
					c.Delete(step.Key)
				case "len":
					assert.Equal(t, step.WantLen, c.Len(), "step %d: len", i)
				default:
					t.Fatalf("step %d: unknown op %q", i, step.Op)
				}
			}
		})
	}
}
