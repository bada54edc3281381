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

package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/osmx/model"
)

func metadata() *model.Metadata {
	return &model.Metadata{
		Version:   7,
		Timestamp: 1644784822,
		Changeset: 117_546_012,
		UID:       42,
		User:      model.String("mapper"),
	}
}

func TestNodeRoundTrip(t *testing.T) {
	test_cases := []struct {
		name string
		node *model.Node
	}{
		{"no tags, no metadata", &model.Node{Tags: model.Tags{}}},
		{"tags", &model.Node{Tags: model.Tags{"amenity": "cafe", "name": "Café Einstein"}}},
		{"metadata", &model.Node{Tags: model.Tags{}, Metadata: metadata()}},
		{"metadata without user", &model.Node{Tags: model.Tags{}, Metadata: &model.Metadata{Version: 1}}},
		{"zero metadata", &model.Node{Tags: model.Tags{}, Metadata: &model.Metadata{}}},
		{"empty user", &model.Node{Tags: model.Tags{"": ""}, Metadata: &model.Metadata{User: model.String("")}}},
		{"negative timestamp", &model.Node{Tags: model.Tags{}, Metadata: &model.Metadata{Timestamp: -1}}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeNode(AppendNode(nil, tc.node))
			require.NoError(t, err)
			assert.Equal(t, tc.node, decoded)
		})
	}
}

func TestWayRoundTrip(t *testing.T) {
	test_cases := []struct {
		name string
		way  *model.Way
	}{
		{"empty", &model.Way{Tags: model.Tags{}, NodeIDs: []model.ID{}}},
		{"refs", &model.Way{Tags: model.Tags{"highway": "residential"}, NodeIDs: []model.ID{100, 101, 102}}},
		{"descending refs", &model.Way{Tags: model.Tags{}, NodeIDs: []model.ID{9, 3, 3, 1}}},
		{"extreme refs", &model.Way{Tags: model.Tags{}, NodeIDs: []model.ID{math.MaxUint64, 0, 1 << 63, 1}}},
		{"closed", &model.Way{Tags: model.Tags{}, NodeIDs: []model.ID{1, 2, 3, 1}, Metadata: metadata()}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeWay(AppendWay(nil, tc.way))
			require.NoError(t, err)
			assert.Equal(t, tc.way, decoded)
		})
	}
}

func TestRelationRoundTrip(t *testing.T) {
	test_cases := []struct {
		name     string
		relation *model.Relation
	}{
		{"empty", &model.Relation{Tags: model.Tags{}, Members: []model.Member{}}},
		{"members", &model.Relation{
			Tags: model.Tags{"type": "route"},
			Members: []model.Member{
				{ID: 100, Type: model.NODE, Role: model.String("stop")},
				{ID: 5, Type: model.WAY, Role: model.String("")},
				{ID: 7, Type: model.RELATION},
				{ID: 0, Type: model.NODE},
			},
			Metadata: metadata(),
		}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeRelation(AppendRelation(nil, tc.relation))
			require.NoError(t, err)
			assert.Equal(t, tc.relation, decoded)
		})
	}
}

func TestMemberRolePresence(t *testing.T) {
	r := &model.Relation{
		Tags: model.Tags{},
		Members: []model.Member{
			{ID: 1, Type: model.NODE, Role: model.String("")},
			{ID: 2, Type: model.NODE},
		},
	}

	decoded, err := DecodeRelation(AppendRelation(nil, r))
	require.NoError(t, err)

	require.NotNil(t, decoded.Members[0].Role)
	assert.Equal(t, "", *decoded.Members[0].Role)
	assert.Nil(t, decoded.Members[1].Role)
}

func TestDecodeTags(t *testing.T) {
	var b []byte
	for _, s := range []string{"a", "1", "b", "2", "a", "3", "dangling"} {
		b = protowire.AppendTag(b, nodeTags, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}

	n, err := DecodeNode(b)
	require.NoError(t, err)
	assert.Equal(t, model.Tags{"a": "3", "b": "2"}, n.Tags)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := AppendWay(nil, &model.Way{Tags: model.Tags{"k": "v"}, NodeIDs: []model.ID{1, 2}})
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "added later")
	b = protowire.AppendTag(b, 100, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 12)
	b = protowire.AppendTag(b, 101, protowire.VarintType)
	b = protowire.AppendVarint(b, 300)

	w, err := DecodeWay(b)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{1, 2}, w.NodeIDs)
	assert.Equal(t, model.Tags{"k": "v"}, w.Tags)
}

func TestDecodeUnpackedNodes(t *testing.T) {
	var b []byte
	for _, delta := range []int64{100, 1, 1} {
		b = protowire.AppendTag(b, wayNodes, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(delta))
	}

	w, err := DecodeWay(b)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{100, 101, 102}, w.NodeIDs)
}

func TestDecodeCorrupt(t *testing.T) {
	valid := AppendRelation(nil, &model.Relation{
		Tags:     model.Tags{"type": "multipolygon"},
		Members:  []model.Member{{ID: 1, Type: model.WAY, Role: model.String("outer")}},
		Metadata: metadata(),
	})

	var wrongType []byte
	wrongType = protowire.AppendTag(wrongType, relationTags, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 1)

	test_cases := []struct {
		name string
		buf  []byte
	}{
		{"truncated", valid[:len(valid)-1]},
		{"bad tag", []byte{0xff}},
		{"wrong wire type", wrongType},
		{"overlong length", []byte{0x0a, 0x7f, 'a'}},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRelation(tc.buf)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecodeUnknownMemberType(t *testing.T) {
	var member []byte
	member = appendVarintField(member, memberRef, 1)
	member = appendVarintField(member, memberType, 3)

	var b []byte
	b = protowire.AppendTag(b, relationMembers, protowire.BytesType)
	b = protowire.AppendBytes(b, member)

	_, err := DecodeRelation(b)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, ErrUnknownMemberType)
}

func TestAppendRelationPanicsOnUnknownType(t *testing.T) {
	assert.Panics(t, func() {
		AppendRelation(nil, &model.Relation{Members: []model.Member{{Type: model.ElementType(9)}}})
	})
}

func TestLocationRoundTrip(t *testing.T) {
	locations := []model.Location{
		{},
		{Lon: 13.405, Lat: 52.52, Version: 1},
		{Lon: -180, Lat: -90, Version: math.MaxUint32},
		{Lon: 180, Lat: 90},
	}

	for _, l := range locations {
		b := AppendLocation(nil, l)
		require.Len(t, b, LocationSize)

		decoded, err := DecodeLocation(b)
		require.NoError(t, err)
		assert.True(t, l.Lon.EqualWithin(decoded.Lon, model.E7))
		assert.True(t, l.Lat.EqualWithin(decoded.Lat, model.E7))
		assert.Equal(t, l.Version, decoded.Version)
	}

	undefined, err := DecodeLocation(AppendLocation(nil, model.UndefinedLocation()))
	require.NoError(t, err)
	assert.False(t, undefined.Valid())

	_, err = DecodeLocation(make([]byte, LocationSize-1))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestKeys(t *testing.T) {
	for _, id := range []model.ID{0, 1, 100, math.MaxUint64} {
		decoded, err := DecodeKey(Key(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}

	_, err := DecodeKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCountVarints(t *testing.T) {
	b := appendDeltas(nil, []model.ID{1, 300, 70000, 1})
	assert.Equal(t, 4, countVarints(b))
}
