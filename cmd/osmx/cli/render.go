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

package cli

import (
	"fmt"

	"m4o.io/osmx/model"
)

// Rendered documents follow the shape of the JavaScript binding: identifiers
// are strings so that 64 bit values survive, and absent roles and users are
// omitted rather than empty.

type metadataDoc struct {
	Version   uint32  `json:"version"`
	Timestamp int64   `json:"timestamp"`
	Changeset uint64  `json:"changeset"`
	UID       uint32  `json:"uid"`
	User      *string `json:"user,omitempty"`
}

type nodeDoc struct {
	ID       string       `json:"id,omitempty"`
	Tags     model.Tags   `json:"tags"`
	Metadata *metadataDoc `json:"metadata,omitempty"`
}

type wayDoc struct {
	ID       string       `json:"id,omitempty"`
	Nodes    []string     `json:"nodes"`
	Tags     model.Tags   `json:"tags"`
	Metadata *metadataDoc `json:"metadata,omitempty"`
}

type memberDoc struct {
	Ref  string  `json:"ref"`
	Type string  `json:"type"`
	Role *string `json:"role,omitempty"`
}

type relationDoc struct {
	ID       string       `json:"id,omitempty"`
	Tags     model.Tags   `json:"tags"`
	Members  []memberDoc  `json:"members"`
	Metadata *metadataDoc `json:"metadata,omitempty"`
}

type locationDoc struct {
	Lon     model.Degrees `json:"lon"`
	Lat     model.Degrees `json:"lat"`
	Version uint32        `json:"version"`
}

// RenderElement converts e into its JSON document. The identifier is only
// included when withID is set, as it is for scans.
func RenderElement(e model.Element, withID bool) any {
	var id string
	if withID {
		id = e.GetID().String()
	}

	tags := e.GetTags()
	if tags == nil {
		tags = model.Tags{}
	}

	md := renderMetadata(e.GetMetadata())

	switch e := e.(type) {
	case *model.Node:
		return &nodeDoc{ID: id, Tags: tags, Metadata: md}
	case *model.Way:
		nodes := make([]string, len(e.NodeIDs))
		for i, ref := range e.NodeIDs {
			nodes[i] = ref.String()
		}

		return &wayDoc{ID: id, Nodes: nodes, Tags: tags, Metadata: md}
	case *model.Relation:
		members := make([]memberDoc, len(e.Members))
		for i, m := range e.Members {
			members[i] = memberDoc{Ref: m.ID.String(), Type: m.Type.String(), Role: m.Role}
		}

		return &relationDoc{ID: id, Tags: tags, Members: members, Metadata: md}
	default:
		panic(fmt.Sprintf("unknown element %T", e))
	}
}

// RenderLocation converts l into its JSON document.
func RenderLocation(l model.Location) any {
	return &locationDoc{Lon: l.Lon, Lat: l.Lat, Version: l.Version}
}

func renderMetadata(m *model.Metadata) *metadataDoc {
	if m == nil {
		return nil
	}

	return &metadataDoc{
		Version:   m.Version,
		Timestamp: m.Timestamp,
		Changeset: m.Changeset,
		UID:       m.UID,
		User:      m.User,
	}
}
