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

package get

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmx"
	"m4o.io/osmx/internal/codec"
	"m4o.io/osmx/internal/osmxtest"
	"m4o.io/osmx/model"
)

func openStore(t *testing.T, ds *osmxtest.Dataset) *osmx.Environment {
	t.Helper()

	path := filepath.Join(t.TempDir(), "get.osmx")
	require.NoError(t, osmxtest.Build(path, ds))

	env, err := osmx.Open(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = env.Close() })

	return env
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	saved := out
	out = buf

	t.Cleanup(func() { out = saved })

	return buf
}

func TestGet(t *testing.T) {
	env := openStore(t, osmxtest.Scenario())

	tests := []struct {
		kind     string
		ids      []model.ID
		expected string
	}{
		{"node", []model.ID{100, 999}, `{"tags":{"amenity":"cafe"}}` + "\nnull\n"},
		{"way", []model.ID{5}, `{"nodes":["100","101","102"],"tags":{"highway":"residential"}}` + "\n"},
		{"relation", []model.ID{7}, `{"tags":{"type":"route"},"members":[` +
			`{"ref":"100","type":"node","role":"stop"},` +
			`{"ref":"5","type":"way","role":""},` +
			`{"ref":"8","type":"relation"}]}` + "\n"},
		{"location", []model.ID{100, 101, 102}, `{"lon":13.405,"lat":52.52,"version":1}` +
			"\nnull\n" + `{"lon":0,"lat":0,"version":3}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			buf := capture(t)

			require.NoError(t, runGet(env, tt.kind, tt.ids))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestGetMetadata(t *testing.T) {
	env := openStore(t, osmxtest.Scenario())
	buf := capture(t)

	require.NoError(t, runGet(env, "node", []model.ID{102}))
	assert.Equal(t,
		`{"tags":{},"metadata":{"version":3,"timestamp":1644784822,"changeset":117546012,"uid":42,"user":"mapper"}}`+"\n",
		buf.String())
}

func TestGetCorrupt(t *testing.T) {
	ds := osmxtest.Scenario()
	ds.Raw = map[string]map[model.ID][]byte{"nodes": {1: {0xff}}}

	env := openStore(t, ds)
	_ = capture(t)

	err := runGet(env, "node", []model.ID{1})

	var decodeErr *osmx.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, model.ID(1), decodeErr.ID)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}

func TestGetUnknownKind(t *testing.T) {
	env := openStore(t, osmxtest.Scenario())
	_ = capture(t)

	assert.ErrorIs(t, runGet(env, "changeset", []model.ID{1}), model.ErrUnknownElementType)
}

func TestGetUndefinedLocation(t *testing.T) {
	ds := osmxtest.Scenario()
	ds.Raw = map[string]map[model.ID][]byte{
		codec.LocationsTable: {104: codec.AppendLocation(nil, model.UndefinedLocation())},
	}

	env := openStore(t, ds)
	buf := capture(t)

	require.NoError(t, runGet(env, "location", []model.ID{104, 100}))
	assert.Equal(t, "null\n"+`{"lon":13.405,"lat":52.52,"version":1}`+"\n", buf.String())
}
