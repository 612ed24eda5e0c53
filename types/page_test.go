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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequest_Defaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, defaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())
	assert.Nil(t, p.GetFilter())
	assert.Empty(t, p.GetOrders())
}

func TestPageRequest_Offset(t *testing.T) {
	p := NewPageRequest(3, 20, NewQueryFilter("name = ?", "x"), []string{" id DESC ", "", "  "})
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, []string{"id DESC"}, p.GetOrders())
	require.NotNil(t, p.GetFilter())
	assert.Equal(t, "name = ?", p.GetFilter().Schema)
	assert.Equal(t, []any{"x"}, p.GetFilter().Args)
}

func TestPagination_Pages(t *testing.T) {
	p := NewDefaultPagination[int](1, 10)
	assert.Equal(t, 0, p.Pages())
	assert.NotNil(t, p.Items)

	p.Total = 21
	assert.Equal(t, 3, p.Pages())

	p.PageSize = 0
	assert.Equal(t, 0, p.Pages())
}
