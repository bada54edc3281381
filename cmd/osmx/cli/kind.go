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
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Location is the kind naming the location index.
const Location = "location"

// -- kind Value
type kindValue struct {
	value   *string
	allowed []string
}

// NewKindValue creates a cobra Value restricted to the allowed kind names.
func NewKindValue(def string, p *string, allowed ...string) pflag.Value {
	kv := &kindValue{
		value:   p,
		allowed: allowed,
	}
	*kv.value = def

	return kv
}

func (k *kindValue) Set(val string) error {
	val = strings.ToLower(val)
	if !slices.Contains(k.allowed, val) {
		return fmt.Errorf("%q is not one of %s", val, strings.Join(k.allowed, ", "))
	}

	*k.value = val

	return nil
}

func (k *kindValue) Type() string {
	return "kind"
}

func (k *kindValue) String() string {
	return *k.value
}
