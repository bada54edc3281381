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
	"strconv"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Degrees is the decimal degree representation of a longitude or latitude.
type Degrees float64

// Epsilon is an enumeration of precisions that can be used when comparing Degrees.
type Epsilon float64

// Comparison precisions.
const (
	E5 Epsilon = 1e-5
	E6 Epsilon = 1e-6
	E7 Epsilon = 1e-7
	E9 Epsilon = 1e-9
)

// TenMillionths is the fixed point scale of stored coordinates.
const TenMillionths = 10_000_000

// Coordinate limits.
const (
	MinLat Degrees = -90
	MaxLat Degrees = 90
	MinLon Degrees = -180
	MaxLon Degrees = 180
)

// Angle returns the equivalent s1.Angle.
func (d Degrees) Angle() s1.Angle { return s1.Angle(d) * s1.Degree }

func (d Degrees) String() string {
	return ftoa(float64(d))
}

// MarshalJSON writes the degrees as a number with at most seven decimals.
func (d Degrees) MarshalJSON() ([]byte, error) {
	return []byte(ftoa(float64(d))), nil
}

// EqualWithin checks if two degrees are within a specific epsilon.
func (d Degrees) EqualWithin(o Degrees, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// E7 returns the angle in ten millionths of degrees.
func (d Degrees) E7() int32 { return round(float64(d * TenMillionths)) }

// FromE7 converts a fixed precision coordinate, in ten millionths of a
// degree, to Degrees.
func FromE7(coordinate int32) Degrees {
	return Degrees(coordinate) / TenMillionths
}

// LatLng returns the s2 point of lat and lng.
func LatLng(lat, lng Degrees) s2.LatLng {
	return s2.LatLng{Lat: lat.Angle(), Lng: lng.Angle()}
}

// round returns the value rounded to nearest as an int32.
func round(val float64) int32 {
	if val < 0 {
		return int32(val - 0.5)
	}

	return int32(val + 0.5)
}

// ParseDegrees converts a string to a Degrees instance.
func ParseDegrees(s string) (Degrees, error) {
	u, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return Degrees(u), nil
}

// ftoa formats f with at most seven decimals, the precision of stored
// coordinates, and without trailing zeros.
func ftoa(f float64) string {
	s := strconv.FormatFloat(f, 'f', 7, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	if s == "-0" {
		return "0"
	}

	return s
}
