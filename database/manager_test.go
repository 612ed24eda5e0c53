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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) SetLevel(LogLevel) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any) {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Warn(msg string, fields ...any) { l.warns = append(l.warns, msg) }

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", SQLiteDSN(""))
	assert.Equal(t, "file::memory:?cache=shared", SQLiteDSN(":memory:"))
	assert.Equal(t, "file:test?mode=memory", SQLiteDSN("file:test?mode=memory"))
	assert.Equal(t, "wallet.db", SQLiteDSN("wallet.db"))
	assert.Equal(t, "wallet.db", SQLiteDSN("wallet"))
}

func TestCreateFromConfig_UnsupportedType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	assert.Error(t, err)
}

func TestCreateFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_NAME", ":memory:")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg := DefaultConnectionConfig()
	cfg.Type = "mysql"
	manager, err := NewDatabaseFactory().CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, manager)
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, ":memory:", cfg.DBName)
	assert.Equal(t, 7, cfg.MaxOpenConns)
}

func TestInitDB_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	RegisteredModel(NewModelAdapter((*note)(nil), 1))

	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.TableConfig.CreateOnStartup = true

	db, err := InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })
	assert.Same(t, db, GetDB())

	status := GetHealthStatus(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, 1, GetDatabaseStats().MaxOpenConns)

	s, err := NewGlobalSession()
	require.NoError(t, err)
	defer s.Close()

	n := &note{Title: "global"}
	s.Add(n)
	require.NoError(t, s.Commit(ctx))

	found, err := s.Get(ctx, new(note), "title", "global")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGlobal_BeforeInit(t *testing.T) {
	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
	_, err := NewGlobalSession()
	assert.Error(t, err)
	assert.False(t, GetHealthStatus(context.Background()).Healthy)
}

func TestSlowQueryHook(t *testing.T) {
	logger := &recordingLogger{}
	hook := &SlowQueryHook{Threshold: time.Millisecond, Logger: logger}

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		StartTime: time.Now().Add(-time.Second),
		Query:     "SELECT 1",
	})
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "slow query")

	hook.AfterQuery(context.Background(), &bun.QueryEvent{
		StartTime: time.Now(),
		Query:     "SELECT 1",
	})
	assert.Len(t, logger.warns, 1)
}
