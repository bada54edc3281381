// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package info

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmx"
	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/internal/osmxtest"
	"m4o.io/osmx/model"
)

func openScenario(t *testing.T) *osmx.Environment {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scenario.osmx")
	require.NoError(t, osmxtest.Build(path, osmxtest.Scenario()))

	env, err := osmx.Open(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = env.Close() })

	return env
}

func TestRunInfo(t *testing.T) {
	env := openScenario(t)

	info, err := runInfo(env, 2, false)
	require.NoError(t, err)

	assert.Equal(t, env.Path(), info.Path)
	assert.Positive(t, info.Size)
	assert.Equal(t, []tableInfo{
		{Name: "locations", Entries: 2},
		{Name: "nodes", Entries: 2},
		{Name: "ways", Entries: 1},
		{Name: "relations", Entries: 1},
	}, info.Tables)
}

func TestRunInfoExtended(t *testing.T) {
	env := openScenario(t)

	info, err := runInfo(env, 3, true)
	require.NoError(t, err)

	require.Len(t, info.Tables, 4)
	assert.Nil(t, info.Tables[0].Decoded)

	for _, ti := range info.Tables[1:] {
		require.NotNil(t, ti.Decoded, ti.Name)
		assert.Equal(t, int64(ti.Entries), *ti.Decoded, ti.Name)
	}
}

func TestRunInfoExtendedCorrupt(t *testing.T) {
	ds := osmxtest.Scenario()
	ds.Raw = map[string]map[model.ID][]byte{"relations": {9: {0xff}}}

	path := filepath.Join(t.TempDir(), "corrupt.osmx")
	require.NoError(t, osmxtest.Build(path, ds))

	env, err := osmx.Open(path)
	require.NoError(t, err)

	defer env.Close()

	_, err = runInfo(env, 1, true)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}

func sampleInfo() *storeInfo {
	nodes, ways, relations := int64(2729006), int64(459055), int64(12833)

	return &storeInfo{
		Path: "greater-london.osmx",
		Size: 1 << 30,
		Tables: []tableInfo{
			{Name: "locations", Entries: 2729006},
			{Name: "nodes", Entries: 2729006, Decoded: &nodes},
			{Name: "ways", Entries: 459055, Decoded: &ways},
			{Name: "relations", Entries: 12833, Decoded: &relations},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 8192))
	buf.Reset()

	saved := out

	defer func() { out = saved }()

	out = buf

	renderJSON(sampleInfo())

	info := &storeInfo{}
	if err := json.Unmarshal(buf.Bytes(), info); err != nil {
		t.Fatalf("Unable to unmarshal json %v", err)
	}

	assert.Equal(t, sampleInfo(), info)
}

func TestRenderText(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 8192))
	buf.Reset()

	saved := out

	defer func() { out = saved }()

	out = buf

	renderTxt(sampleInfo())

	assert.Equal(t, `Path: greater-london.osmx
Size: 1.1 GB
locations: 2,729,006
nodes: 2,729,006 (2,729,006 decoded)
ways: 459,055 (459,055 decoded)
relations: 12,833 (12,833 decoded)
`, buf.String())
}
