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

package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Title string `bun:"title,notnull,unique"`
}

func newNoteDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, CreateTables(context.Background(), db, (*note)(nil)))
	return db
}

func newNoteSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(newNoteDB(t))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_AddCommit(t *testing.T) {
	ctx := context.Background()
	s := newNoteSession(t)
	assert.NotEmpty(t, s.ID())

	n := &note{Title: "first"}
	s.Add(n)
	assert.Equal(t, 1, s.Pending())
	assert.False(t, s.InTransaction())

	require.NoError(t, s.Commit(ctx))
	assert.NotZero(t, n.ID)
	assert.Zero(t, s.Pending())
	assert.False(t, s.InTransaction())

	got := new(note)
	found, err := s.Get(ctx, got, "id", n.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", got.Title)
	assert.True(t, s.InTransaction())
}

func TestSession_FlushAssignsKeyRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s := newNoteSession(t)

	n := &note{Title: "draft"}
	s.Add(n)
	require.NoError(t, s.Flush(ctx))
	assert.NotZero(t, n.ID)
	assert.True(t, s.InTransaction())

	require.NoError(t, s.Rollback(ctx))
	assert.False(t, s.InTransaction())

	found, err := s.Get(ctx, new(note), "id", n.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSession_Delete(t *testing.T) {
	ctx := context.Background()
	s := newNoteSession(t)

	n := &note{Title: "doomed"}
	s.Add(n)
	require.NoError(t, s.Commit(ctx))

	s.Delete(n)
	require.NoError(t, s.Commit(ctx))

	found, err := s.Get(ctx, new(note), "id", n.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSession_CommitWithoutWork(t *testing.T) {
	s := newNoteSession(t)
	require.NoError(t, s.Commit(context.Background()))
	assert.False(t, s.InTransaction())
}

func TestSession_FailedFlushKeepsPending(t *testing.T) {
	ctx := context.Background()
	s := newNoteSession(t)

	s.Add(&note{Title: "same"})
	require.NoError(t, s.Commit(ctx))

	s.Add(&note{Title: "same"})
	err := s.Commit(ctx)
	require.Error(t, err)
	ok, kind := IsSqlError(err)
	assert.True(t, ok)
	assert.Equal(t, DuplicateKeyErr, kind)
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Rollback(ctx))
	assert.Zero(t, s.Pending())

	conn, err := s.Conn(ctx)
	require.NoError(t, err)
	count, err := conn.NewSelect().Model((*note)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSession_Closed(t *testing.T) {
	ctx := context.Background()
	s := newNoteSession(t)

	s.Add(&note{Title: "never"})
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Close())
	assert.False(t, s.InTransaction())

	assert.ErrorIs(t, s.Flush(ctx), ErrSessionClosed)
	assert.ErrorIs(t, s.Rollback(ctx), ErrSessionClosed)
	_, err := s.Conn(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Get(ctx, new(note), "id", 1)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.NoError(t, s.Close())
}
