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
	"database/sql"
	"errors"
	"reflect"

	"github.com/tomoncle/crud/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct{}

// NewRepository returns a generic repository for T.
func NewRepository[T any]() Repository[T] {
	return &baseRepositoryImpl[T]{}
}

func (r *baseRepositoryImpl[T]) Table(db bun.IDB) *schema.Table {
	return db.Dialect().Tables().Get(reflect.TypeFor[T]())
}

func (r *baseRepositoryImpl[T]) FindBy(ctx context.Context, db bun.IDB, column string, value any) (*T, error) {
	entity := new(T)
	err := db.NewSelect().
		Model(entity).
		Where("? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, db bun.IDB, limit, offset int) ([]*T, error) {
	entities := make([]*T, 0)
	err := db.NewSelect().
		Model(&entities).
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) ListAll(ctx context.Context, db bun.IDB) ([]*T, error) {
	entities := make([]*T, 0)
	if err := db.NewSelect().Model(&entities).Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateColumns sets fields on every row whose column equals value and returns
// the number of rows affected. Keys are applied in sorted order. An empty
// fields map issues no statement.
func (r *baseRepositoryImpl[T]) UpdateColumns(ctx context.Context, db bun.IDB, column string, value any, fields types.Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	query := db.NewUpdate().Model((*T)(nil))
	for _, key := range fields.Keys() {
		query = query.Set("? = ?", bun.Ident(key), fields[key])
	}
	res, err := query.Where("? = ?", bun.Ident(column), value).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, db bun.IDB) (int, error) {
	return db.NewSelect().Model((*T)(nil)).Count(ctx)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, db bun.IDB, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(1, 0)
	}
	entities := make([]*T, 0)
	query := db.NewSelect().Model(&entities)
	if filter := pageRequest.GetFilter(); filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(pageRequest.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}
