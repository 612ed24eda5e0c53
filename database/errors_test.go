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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("find: %w", sql.ErrNoRows), true, NoRowsErr},
		{"conn done", sql.ErrConnDone, true, ConnectionErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql unknown column", &mysql.MySQLError{Number: 1054}, true, NoColumnErr},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452}, true, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 9999}, true, UnknownErr},
		{"sqlite no column", errors.New("SQL logic error: no such column: nickname (1)"), true, NoColumnErr},
		{"sqlite insert column", errors.New("table accounts has no column named nickname"), true, NoColumnErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: notes.title (2067)"), true, DuplicateKeyErr},
		{"sqlite no table", errors.New("no such table: wallets"), true, NoTableErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: users.username"), true, NotNullViolationErr},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "users_pkey" (SQLSTATE 23505)`), true, DuplicateKeyErr},
		{"postgres undefined table", errors.New(`pq: relation "x" does not exist (SQLSTATE 42P01)`), true, NoTableErr},
		{"unrelated", errors.New("boom"), false, UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			assert.Equal(t, tt.is, is)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestSQLError_String(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "no_column", NoColumnErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}

func TestSQLError_IsConstraintViolation(t *testing.T) {
	assert.True(t, DuplicateKeyErr.IsConstraintViolation())
	assert.True(t, ForeignKeyViolationErr.IsConstraintViolation())
	assert.False(t, NoRowsErr.IsConstraintViolation())
	assert.False(t, ConnectionErr.IsConstraintViolation())
}
