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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/crud/database"
	"github.com/tomoncle/crud/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Price int    `bun:"price"`
}

func seedItems(t *testing.T, names ...string) *bun.DB {
	t.Helper()
	ctx := context.Background()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.CreateTables(ctx, db, (*item)(nil)))
	for i, name := range names {
		_, err := db.NewInsert().Model(&item{Name: name, Price: i + 1}).Exec(ctx)
		require.NoError(t, err)
	}
	return db
}

func TestRepository_FindBy(t *testing.T) {
	ctx := context.Background()
	db := seedItems(t, "pen", "ink")
	repo := NewRepository[item]()

	got, err := repo.FindBy(ctx, db, "name", "ink")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Price)

	got, err = repo.FindBy(ctx, db, "name", "nib")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	db := seedItems(t, "a", "b", "c")
	repo := NewRepository[item]()

	all, err := repo.ListAll(ctx, db)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := repo.List(ctx, db, 2, 2)
	require.NoError(t, err)
	assert.Len(t, some, 1)

	n, err := repo.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRepository_UpdateColumns(t *testing.T) {
	ctx := context.Background()
	db := seedItems(t, "pen")
	repo := NewRepository[item]()

	affected, err := repo.UpdateColumns(ctx, db, "name", "pen", types.Fields{"price": 9, "name": "quill"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := repo.FindBy(ctx, db, "name", "quill")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Price)

	affected, err = repo.UpdateColumns(ctx, db, "name", "missing", types.Fields{"price": 1})
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.UpdateColumns(ctx, db, "name", "quill", nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepository_Page(t *testing.T) {
	ctx := context.Background()
	db := seedItems(t, "a", "b", "c", "d", "e")
	repo := NewRepository[item]()

	page, err := repo.Page(ctx, db, types.NewPageRequest(3, 2, nil, []string{"price ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "e", page.Items[0].Name)

	empty, err := repo.Page(ctx, db, types.NewPageRequest(1, 2, types.NewQueryFilter("price > ?", 100), nil))
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Items)
}

func TestRepository_Table(t *testing.T) {
	db := seedItems(t)
	table := NewRepository[item]().Table(db)
	assert.Equal(t, "items", table.Name)
	assert.True(t, table.HasField("price"))
	assert.False(t, table.HasField("uid"))
	require.Len(t, table.PKs, 1)
	assert.Equal(t, "id", table.PKs[0].Name)
}
