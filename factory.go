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
	"context"
	"errors"
	"fmt"

	"github.com/tomoncle/crud/config"
	"github.com/tomoncle/crud/database"
	"github.com/tomoncle/crud/repository"
	"github.com/tomoncle/crud/types"
	"github.com/uptrace/bun"
)

// UnitOfWork is the transactional session the factory operates on. It is
// owned by the caller; *database.Session implements it.
type UnitOfWork interface {
	// Add registers a new record to be inserted on the next flush.
	Add(model any)
	// Delete registers a record to be deleted on the next flush.
	Delete(model any)
	Flush(ctx context.Context) error
	Commit(ctx context.Context) error
	// Conn returns the connection queries should run on, after flushing.
	Conn(ctx context.Context) (bun.IDB, error)
}

var _ UnitOfWork = (*database.Session)(nil)

// Factory performs the basic persistence operations for one record type.
//
// Every mutating method commits the unit of work it is given, so several
// calls cannot share one transaction.
type Factory[T any] struct {
	repo          repository.Repository[T]
	mapper        Mapper[T]
	table         string
	identifier    string
	hasIdentifier bool
	lookup        string
	pageLimit     PageLimiter
	logger        database.Logger
}

// NewFactory builds a Factory for T. db is only used to read T's table
// metadata; all queries run on the unit of work passed to each method.
//
// If T has no column named by the identifier option, GetModel and Delete fall
// back to T's single primary key and Update always returns nil.
func NewFactory[T any](db bun.IDB, mapper Mapper[T], opts ...Option) (*Factory[T], error) {
	if db == nil {
		return nil, errors.New("crud: db is required")
	}
	if mapper.Build == nil {
		return nil, errors.New("crud: mapper has no Build function")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = database.NewNamedLogger("CRUD")
	}

	repo := repository.NewRepository[T]()
	table := repo.Table(db)
	f := &Factory[T]{
		repo:          repo,
		mapper:        mapper,
		table:         table.Name,
		identifier:    o.identifier,
		hasIdentifier: o.identifier != "" && table.HasField(o.identifier),
		lookup:        o.identifier,
		pageLimit:     o.pageLimit,
		logger:        o.logger,
	}
	if !f.hasIdentifier {
		if len(table.PKs) != 1 {
			return nil, fmt.Errorf("crud: table %s has no %q column and no single primary key", table.Name, o.identifier)
		}
		f.lookup = table.PKs[0].Name
		f.logger.Warn("Record type has no identifier column, updates are disabled",
			"table", f.table, "identifier", o.identifier, "lookup", f.lookup)
	}
	return f, nil
}

// HasIdentifier reports whether T has the configured identifier column. When
// it does not, Update returns nil for every call.
func (f *Factory[T]) HasIdentifier() bool { return f.hasIdentifier }

func (f *Factory[T]) TableName() string { return f.table }

func (f *Factory[T]) limit() int {
	if n := f.pageLimit.GetPageLimit(); n > 0 {
		return n
	}
	return config.DefaultPageLimit
}

// Create builds a record from payload, adds it to uow, flushes and commits.
// The returned record carries the identifier assigned by the store.
func (f *Factory[T]) Create(ctx context.Context, uow UnitOfWork, payload Payload) (*T, error) {
	fields, err := payload.Fields()
	if err != nil {
		return nil, err
	}
	record, err := f.mapper.Build(fields)
	if err != nil {
		return nil, err
	}
	uow.Add(record)
	if err := uow.Flush(ctx); err != nil {
		f.storageFailed("create", err)
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		f.storageFailed("create", err)
		return nil, err
	}
	return record, nil
}

// GetPage returns at most the configured page limit of records, skipping the
// first page records. No ordering is applied.
func (f *Factory[T]) GetPage(ctx context.Context, uow UnitOfWork, page int) ([]*T, error) {
	conn, err := uow.Conn(ctx)
	if err != nil {
		return nil, err
	}
	records, err := f.repo.List(ctx, conn, f.limit(), page)
	if err != nil {
		f.storageFailed("get_page", err)
		return nil, err
	}
	return records, nil
}

// GetAll returns every record of the type, unordered.
func (f *Factory[T]) GetAll(ctx context.Context, uow UnitOfWork) ([]*T, error) {
	conn, err := uow.Conn(ctx)
	if err != nil {
		return nil, err
	}
	records, err := f.repo.ListAll(ctx, conn)
	if err != nil {
		f.storageFailed("get_all", err)
		return nil, err
	}
	return records, nil
}

// GetModel returns the record with the given identifier, or nil.
func (f *Factory[T]) GetModel(ctx context.Context, uow UnitOfWork, id any) (*T, error) {
	conn, err := uow.Conn(ctx)
	if err != nil {
		return nil, err
	}
	record, err := f.repo.FindBy(ctx, conn, f.lookup, id)
	if err != nil {
		f.storageFailed("get_model", err)
		return nil, err
	}
	return record, nil
}

// Update applies payload to the record with the given identifier, commits and
// returns the re-fetched record. It returns nil when no row matches, and also
// when T has no identifier column; HasIdentifier tells the two apart.
func (f *Factory[T]) Update(ctx context.Context, uow UnitOfWork, id any, payload Payload) (*T, error) {
	fields, err := payload.Fields()
	if err != nil {
		return nil, err
	}
	if !f.hasIdentifier {
		f.logger.Warn("Update skipped, record type has no identifier column",
			"table", f.table, "identifier", f.identifier)
		return nil, nil
	}
	columns, err := f.mapper.columns(fields)
	if err != nil {
		return nil, err
	}

	conn, err := uow.Conn(ctx)
	if err != nil {
		return nil, err
	}
	affected, err := f.repo.UpdateColumns(ctx, conn, f.identifier, id, columns)
	if err != nil {
		f.storageFailed("update", err)
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		f.storageFailed("update", err)
		return nil, err
	}
	if affected == 0 {
		f.logger.Debug("Update matched no rows", "table", f.table, "id", id)
	}
	return f.GetModel(ctx, uow, id)
}

// Delete removes the record with the given identifier and commits. It
// returns false, without touching the store, when no such record exists.
func (f *Factory[T]) Delete(ctx context.Context, uow UnitOfWork, id any) (bool, error) {
	record, err := f.GetModel(ctx, uow, id)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	uow.Delete(record)
	if err := uow.Commit(ctx); err != nil {
		f.storageFailed("delete", err)
		return false, err
	}
	return true, nil
}

// Paginate returns a numbered page (starting at 1) with the total count.
func (f *Factory[T]) Paginate(ctx context.Context, uow UnitOfWork, page *types.PageRequest) (*types.Pagination[T], error) {
	conn, err := uow.Conn(ctx)
	if err != nil {
		return nil, err
	}
	result, err := f.repo.Page(ctx, conn, page)
	if err != nil {
		f.storageFailed("paginate", err)
		return nil, err
	}
	return result, nil
}

func (f *Factory[T]) Count(ctx context.Context, uow UnitOfWork) (int, error) {
	conn, err := uow.Conn(ctx)
	if err != nil {
		return 0, err
	}
	n, err := f.repo.Count(ctx, conn)
	if err != nil {
		f.storageFailed("count", err)
		return 0, err
	}
	return n, nil
}

// storageFailed logs a storage error with its classification. The error
// itself is returned to the caller unchanged.
func (f *Factory[T]) storageFailed(op string, err error) {
	fields := []any{"op", op, "table", f.table, "error", err}
	if ok, kind := database.IsSqlError(err); ok {
		fields = append(fields, "kind", kind.String())
	}
	f.logger.Warn("Storage operation failed", fields...)
}
