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

package repository

import (
	"context"

	"github.com/tomoncle/crud/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines single-record and list reads plus column updates.
type CrudRepository[T any] interface {
	FindBy(ctx context.Context, db bun.IDB, column string, value any) (*T, error)

	List(ctx context.Context, db bun.IDB, limit, offset int) ([]*T, error)

	ListAll(ctx context.Context, db bun.IDB) ([]*T, error)

	UpdateColumns(ctx context.Context, db bun.IDB, column string, value any, fields types.Fields) (int64, error)

	Count(ctx context.Context, db bun.IDB) (int, error)
}

// PageQueryRepository defines numbered pagination for listing records.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, db bun.IDB, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository runs queries for one record type on whatever connection or
// transaction it is handed. It holds no connection of its own.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	Table(db bun.IDB) *schema.Table
}
