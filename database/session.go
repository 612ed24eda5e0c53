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
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrSessionClosed is returned by every Session method after Close.
var ErrSessionClosed = errors.New("session is closed")

type pendingKind int

const (
	pendingInsert pendingKind = iota
	pendingDelete
)

type pendingOp struct {
	kind  pendingKind
	model any
}

// Session is a unit of work over a Bun database. A transaction begins on first
// use and ends with Commit or Rollback; the next use begins a new one. Added
// and deleted models are queued and written by Flush, which runs before every
// query issued through Conn and before Commit.
//
// A Session must not be used by more than one goroutine at a time.
type Session struct {
	id      string
	db      *bun.DB
	txOpts  *sql.TxOptions
	logger  Logger
	tx      *bun.Tx
	pending []pendingOp
	closed  bool
}

type SessionOption func(*Session)

// WithTxOptions sets the options used for every transaction the session begins.
func WithTxOptions(opts *sql.TxOptions) SessionOption {
	return func(s *Session) { s.txOpts = opts }
}

func WithSessionLogger(logger Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession returns a session bound to db. No connection is taken until the
// session is first used.
func NewSession(db *bun.DB, opts ...SessionOption) *Session {
	s := &Session{
		id:     uuid.NewString(),
		db:     db,
		logger: GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// InTransaction reports whether a transaction is currently open.
func (s *Session) InTransaction() bool { return s.tx != nil }

// Pending returns the number of queued inserts and deletes.
func (s *Session) Pending() int { return len(s.pending) }

// Add queues model for insertion. model must be a pointer to a Bun model so
// that generated keys can be written back on flush.
func (s *Session) Add(model any) {
	s.pending = append(s.pending, pendingOp{kind: pendingInsert, model: model})
}

// Delete queues model for deletion by primary key.
func (s *Session) Delete(model any) {
	s.pending = append(s.pending, pendingOp{kind: pendingDelete, model: model})
}

func (s *Session) begin(ctx context.Context) (*bun.Tx, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, s.txOpts)
	if err != nil {
		return nil, err
	}
	s.tx = &tx
	s.logger.Debug("Session transaction started", "session", s.id)
	return s.tx, nil
}

// Flush writes queued inserts and deletes in the order they were queued. On
// failure the failing operation and everything after it stay queued; the
// caller is expected to Rollback.
func (s *Session) Flush(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	for len(s.pending) > 0 {
		op := s.pending[0]
		switch op.kind {
		case pendingInsert:
			_, err = tx.NewInsert().Model(op.model).Exec(ctx)
		case pendingDelete:
			_, err = tx.NewDelete().Model(op.model).WherePK().Exec(ctx)
		}
		if err != nil {
			return err
		}
		s.pending = s.pending[1:]
	}
	return nil
}

// Conn flushes pending work and returns the open transaction, beginning one
// if needed. Queries built on it run inside the session's unit of work.
func (s *Session) Conn(ctx context.Context) (bun.IDB, error) {
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Get loads the row whose column equals id into model. It reports false when
// no row matches.
func (s *Session) Get(ctx context.Context, model any, column string, id any) (bool, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return false, err
	}
	err = conn.NewSelect().
		Model(model).
		Where("? = ?", bun.Ident(column), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Commit flushes pending work and commits the open transaction. It is a no-op
// when nothing was done since the last commit.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("Session transaction committed", "session", s.id)
	return nil
}

// Rollback discards pending work and rolls back the open transaction.
func (s *Session) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.pending = nil
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	s.logger.Debug("Session transaction rolled back", "session", s.id)
	return nil
}

// Close rolls back anything uncommitted and releases the connection.
// Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	err := s.Rollback(context.Background())
	s.closed = true
	return err
}
