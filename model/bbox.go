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

package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// ErrInvalidBoundingBox is returned when a bounding box cannot be parsed.
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// BoundingBox is simply a bounding box.
type BoundingBox struct {
	Top    Degrees
	Left   Degrees
	Bottom Degrees
	Right  Degrees
}

// InitialBoundingBox creates a BoundingBox that is meant to be expanded.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// ParseBoundingBox parses a "left,bottom,right,top" string, the order used by
// osmium and the OSM API.
func ParseBoundingBox(s string) (*BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: %q needs four comma separated values", ErrInvalidBoundingBox, s)
	}

	var vals [4]Degrees

	for i, p := range parts {
		d, err := ParseDegrees(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidBoundingBox, s, err)
		}

		vals[i] = d
	}

	b := &BoundingBox{Left: vals[0], Bottom: vals[1], Right: vals[2], Top: vals[3]}
	if b.Left > b.Right || b.Bottom > b.Top {
		return nil, fmt.Errorf("%w: %q is inverted", ErrInvalidBoundingBox, s)
	}

	return b, nil
}

// EqualWithin checks if two bounding boxes are within a specific epsilon.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Rect returns the equivalent s2.Rect. A box whose left edge lies east of
// its right edge is empty; it never wraps the antimeridian.
func (b *BoundingBox) Rect() s2.Rect {
	if b.Empty() {
		return s2.EmptyRect()
	}

	return s2.Rect{
		Lat: r1.Interval{Lo: b.Bottom.Angle().Radians(), Hi: b.Top.Angle().Radians()},
		Lng: s1.IntervalFromEndpoints(b.Left.Angle().Radians(), b.Right.Angle().Radians()),
	}
}

// Contains checks if the bounding box contains the lat lng point.
func (b *BoundingBox) Contains(lat Degrees, lng Degrees) bool {
	return b.Rect().ContainsLatLng(LatLng(lat, lng))
}

// ContainsLocation checks if the bounding box contains a defined location.
func (b *BoundingBox) ContainsLocation(l Location) bool {
	return l.Valid() && b.Rect().ContainsLatLng(l.LatLng())
}

// Empty reports whether nothing has been expanded into an initial bounding
// box.
func (b *BoundingBox) Empty() bool {
	return b.Left > b.Right || b.Bottom > b.Top
}

// ExpandWithLatLng grows the bounding box to include the point.
func (b *BoundingBox) ExpandWithLatLng(lat, lng Degrees) {
	if b.Top < lat {
		b.Top = lat
	}

	if b.Bottom > lat {
		b.Bottom = lat
	}

	if b.Left > lng {
		b.Left = lng
	}

	if b.Right < lng {
		b.Right = lng
	}
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}
