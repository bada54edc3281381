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

package osmx

import (
	"errors"
	"fmt"

	"m4o.io/osmx/model"
)

var (
	// ErrClosed is returned when a snapshot is requested from an environment
	// that has been closed.
	ErrClosed = errors.New("environment closed")

	// ErrSnapshotReleased is returned when a snapshot, or a table bound to
	// it, is used after Abort.
	ErrSnapshotReleased = errors.New("snapshot released")

	// ErrMissingTable is returned when a table is opened that the store does
	// not contain.
	ErrMissingTable = errors.New("missing table")

	// ErrNilVisitor is returned when Iterate is called without a visitor.
	ErrNilVisitor = errors.New("nil visitor")
)

// DecodeError reports a stored record that could not be decoded. It is never
// returned for an identifier that is simply absent.
type DecodeError struct {
	Table string
	ID    model.ID
	Key   []byte // set instead of ID when the key itself is malformed
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("cannot decode %s key %x: %v", e.Table, e.Key, e.Err)
	}

	return fmt.Sprintf("cannot decode %s record %d: %v", e.Table, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
