/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crud

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tomoncle/crud/types"
)

// Payload is caller-supplied data used to create or patch a record.
type Payload interface {
	Fields() (types.Fields, error)
}

// PayloadFunc adapts a function to Payload.
type PayloadFunc func() (types.Fields, error)

func (f PayloadFunc) Fields() (types.Fields, error) { return f() }

// FieldsOf wraps a ready-made field mapping as a Payload.
func FieldsOf(fields types.Fields) Payload {
	return PayloadFunc(func() (types.Fields, error) { return fields.Clone(), nil })
}

// Mapper holds the explicit field mapping for a record type.
//
// Build turns a payload's fields into a new record for Create. Columns, when
// set, translates payload fields into column values for Update; without it
// payload keys are used as column names.
type Mapper[T any] struct {
	Build   func(fields types.Fields) (*T, error)
	Columns func(fields types.Fields) (types.Fields, error)
}

func (m Mapper[T]) columns(fields types.Fields) (types.Fields, error) {
	if m.Columns == nil {
		return fields, nil
	}
	return m.Columns(fields)
}

// NewStructMapper returns a Mapper that decodes fields into T by matching
// keys against the column names in T's bun tags. Keys that match no column
// are rejected. Extra decode hooks run before the built-in time parsing.
func NewStructMapper[T any](hooks ...mapstructure.DecodeHookFunc) Mapper[T] {
	return Mapper[T]{
		Build: func(fields types.Fields) (*T, error) {
			record := new(T)
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				DecodeHook:  decodeHook(hooks),
				ErrorUnused: true,
				TagName:     "bun",
				Result:      record,
			})
			if err != nil {
				return nil, err
			}
			if err := decoder.Decode(map[string]any(fields)); err != nil {
				return nil, fmt.Errorf("invalid payload for %T: %w", record, err)
			}
			return record, nil
		},
	}
}

func decodeHook(hooks []mapstructure.DecodeHookFunc) mapstructure.DecodeHookFunc {
	all := make([]mapstructure.DecodeHookFunc, 0, len(hooks)+1)
	all = append(all, hooks...)
	all = append(all, mapstructure.StringToTimeHookFunc(time.RFC3339))
	return mapstructure.ComposeDecodeHookFunc(all...)
}
