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

// Package model contains the shared model for the OSMX element store.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang/geo/s2"
)

var (
	// ErrInvalidID is returned when an identifier cannot be parsed.
	ErrInvalidID = errors.New("invalid element id")

	// ErrUnknownElementType is returned when an element type name is not
	// one of node, way or relation.
	ErrUnknownElementType = errors.New("unknown element type")
)

// ID is the primary key of an element within its table.
type ID uint64

// ParseID parses a decimal identifier.
func ParseID(s string) (ID, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	return ID(u), nil
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ElementType is an enumeration of OSM element types.
type ElementType int32

const (
	// NODE denotes that the member is a node.
	NODE ElementType = iota

	// WAY denotes that the member is a way.
	WAY

	// RELATION denotes that the member is a relation.
	RELATION
)

// ElementTypes lists every element type in table order.
var ElementTypes = [...]ElementType{NODE, WAY, RELATION}

func (t ElementType) String() string {
	switch t {
	case NODE:
		return "node"
	case WAY:
		return "way"
	case RELATION:
		return "relation"
	default:
		return "ElementType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	return t >= NODE && t <= RELATION
}

// ParseElementType converts "node", "way" or "relation" to an ElementType.
func ParseElementType(s string) (ElementType, error) {
	switch s {
	case "node":
		return NODE, nil
	case "way":
		return WAY, nil
	case "relation":
		return RELATION, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownElementType, s)
	}
}

// Tags maps tag keys to values.
type Tags map[string]string

// Metadata represents information common to Node, Way, and Relation elements.
// Only the latest version of an element is stored.
type Metadata struct {
	Version   uint32
	Timestamp int64 // seconds since the epoch
	Changeset uint64
	UID       uint32
	User      *string
}

// Time returns the timestamp as UTC time.
func (m *Metadata) Time() time.Time {
	return time.Unix(m.Timestamp, 0).UTC()
}

// undefinedCoordinate marks a location whose coordinates were never set.
const undefinedCoordinate = math.MaxInt32

// Location is the coordinate pair of a node and the node version it was
// taken from.
type Location struct {
	Lon     Degrees
	Lat     Degrees
	Version uint32
}

// UndefinedLocation returns a location with undefined coordinates.
func UndefinedLocation() Location {
	return Location{Lon: FromE7(undefinedCoordinate), Lat: FromE7(undefinedCoordinate)}
}

// Valid reports whether the coordinates are defined and within range.
func (l Location) Valid() bool {
	return l.Lon.E7() != undefinedCoordinate && l.Lat.E7() != undefinedCoordinate &&
		MinLon <= l.Lon && l.Lon <= MaxLon && MinLat <= l.Lat && l.Lat <= MaxLat
}

// LatLng returns the s2 point of the location.
func (l Location) LatLng() s2.LatLng {
	return LatLng(l.Lat, l.Lon)
}

// Element is implemented by *Node, *Way and *Relation.
type Element interface {
	isElement() // prevents extensions

	Type() ElementType

	GetID() ID

	GetTags() Tags

	GetMetadata() *Metadata
}

// Node holds the tags and metadata of a point element. Its coordinates are
// kept in the location index.
type Node struct {
	ID       ID
	Tags     Tags
	Metadata *Metadata
}

var _ Element = (*Node)(nil)

func (n *Node) isElement() {}

func (n *Node) Type() ElementType { return NODE }

func (n *Node) GetID() ID { return n.ID }

func (n *Node) GetTags() Tags { return n.Tags }

func (n *Node) GetMetadata() *Metadata { return n.Metadata }

// Way is an ordered list of node references that define a polyline. The
// referenced nodes need not exist.
type Way struct {
	ID       ID
	Tags     Tags
	Metadata *Metadata
	NodeIDs  []ID
}

var _ Element = (*Way)(nil)

func (w *Way) isElement() {}

func (w *Way) Type() ElementType { return WAY }

func (w *Way) GetID() ID { return w.ID }

func (w *Way) GetTags() Tags { return w.Tags }

func (w *Way) GetMetadata() *Metadata { return w.Metadata }

// Member is a typed reference from a relation. A nil Role means the member
// carries no role at all, which is distinct from an empty role.
type Member struct {
	ID   ID
	Type ElementType
	Role *string
}

// Relation is a multipurpose data structure that documents a relationship
// between two or more data elements (nodes, ways, and/or other relations).
type Relation struct {
	ID       ID
	Tags     Tags
	Metadata *Metadata
	Members  []Member
}

var _ Element = (*Relation)(nil)

func (r *Relation) isElement() {}

func (r *Relation) Type() ElementType { return RELATION }

func (r *Relation) GetID() ID { return r.ID }

func (r *Relation) GetTags() Tags { return r.Tags }

func (r *Relation) GetMetadata() *Metadata { return r.Metadata }

// String returns a pointer to s, for optional text fields.
func String(s string) *string {
	return &s
}
