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
	"golang.org/x/exp/constraints"
	"google.golang.org/protobuf/encoding/protowire"
)

// appendDeltas appends the zigzag encoded differences between consecutive
// values. Differences wrap, so the full unsigned 64-bit range round trips.
func appendDeltas[T constraints.Integer](b []byte, vals []T) []byte {
	var prev int64

	for _, v := range vals {
		cur := int64(v)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(cur-prev))
		prev = cur
	}

	return b
}

// deltaDecoder accumulates zigzag encoded differences, from either packed or
// unpacked repeated fields.
type deltaDecoder[T constraints.Integer] struct {
	vals []T
	prev int64
}

func (d *deltaDecoder[T]) add(v uint64) {
	d.prev += protowire.DecodeZigZag(v)
	d.vals = append(d.vals, T(d.prev))
}

func (d *deltaDecoder[T]) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch typ {
	case protowire.VarintType:
		v, n, err := consumeVarint(num, typ, b)
		if err != nil {
			return 0, err
		}

		d.add(v)

		return n, nil
	case protowire.BytesType:
		packed, n, err := consumeBytes(num, typ, b)
		if err != nil {
			return 0, err
		}

		d.vals = growFor(d.vals, countVarints(packed))

		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return 0, corrupt(protowire.ParseError(m))
			}

			d.add(v)
			packed = packed[m:]
		}

		return n, nil
	default:
		return 0, wrongType(num, typ)
	}
}

// countVarints counts the varints in packed by their terminating bytes.
func countVarints(packed []byte) int {
	var n int

	for _, c := range packed {
		if c < 0x80 {
			n++
		}
	}

	return n
}

func growFor[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}

	grown := make([]T, len(s), len(s)+n)
	copy(grown, s)

	return grown
}
