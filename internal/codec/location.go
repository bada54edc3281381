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
	"encoding/binary"
	"fmt"

	"m4o.io/osmx/model"
)

// LocationSize is the size of a stored location: longitude and latitude in
// ten millionths of a degree followed by the node version.
const LocationSize = 12

// DecodeLocation decodes a fixed width location value.
func DecodeLocation(b []byte) (model.Location, error) {
	if len(b) != LocationSize {
		return model.Location{}, fmt.Errorf("%w: location is %d bytes, expected %d", ErrCorrupt, len(b), LocationSize)
	}

	return model.Location{
		Lon:     model.FromE7(int32(binary.NativeEndian.Uint32(b[0:4]))),
		Lat:     model.FromE7(int32(binary.NativeEndian.Uint32(b[4:8]))),
		Version: binary.NativeEndian.Uint32(b[8:12]),
	}, nil
}

// AppendLocation appends the fixed width encoding of l to b.
func AppendLocation(b []byte, l model.Location) []byte {
	b = binary.NativeEndian.AppendUint32(b, uint32(l.Lon.E7()))
	b = binary.NativeEndian.AppendUint32(b, uint32(l.Lat.E7()))

	return binary.NativeEndian.AppendUint32(b, l.Version)
}
