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

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomoncle/crud/database"
	"github.com/tomoncle/crud/types"
	"github.com/uptrace/bun"
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Wallet)(nil), 20))
}

// User owns wallets.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Email     string    `bun:"email" json:"email"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// UserPayload is the create/replace schema for users.
type UserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (p UserPayload) Fields() (types.Fields, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return types.Fields{"username": p.Username, "email": p.Email}, nil
}

// Wallet is a named balance held in one currency.
type Wallet struct {
	bun.BaseModel `bun:"table:wallets,alias:w"`

	ID       int64           `bun:"id,pk,autoincrement" json:"id"`
	UserID   int64           `bun:"user_id" json:"user_id"`
	Name     string          `bun:"name,notnull" json:"name"`
	Currency string          `bun:"currency,notnull" json:"currency"`
	Balance  decimal.Decimal `bun:"balance,type:decimal(20,4),notnull" json:"balance"`
	Meta     types.Fields    `bun:"meta,type:json" json:"meta,omitempty"`
}

// WalletPayload is the create schema for wallets. Every field is serialized.
type WalletPayload struct {
	UserID   int64           `json:"user_id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Meta     types.Fields    `json:"meta"`
}

func (p WalletPayload) Fields() (types.Fields, error) {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return types.Fields{
		"user_id":  p.UserID,
		"name":     p.Name,
		"currency": currency,
		"balance":  p.Balance,
		"meta":     p.Meta,
	}, nil
}

// WalletPatch is the update schema for wallets. Only set fields are serialized.
type WalletPatch struct {
	Name     *string          `json:"name,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	Balance  *decimal.Decimal `json:"balance,omitempty"`
}

func (p WalletPatch) Fields() (types.Fields, error) {
	fields := types.Fields{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Currency != nil {
		fields["currency"] = *p.Currency
	}
	if p.Balance != nil {
		fields["balance"] = *p.Balance
	}
	return fields, nil
}

// BuildWallet maps wallet fields onto a new Wallet. Unknown keys are errors.
func BuildWallet(fields types.Fields) (*Wallet, error) {
	w := &Wallet{Currency: "USD"}
	for key, value := range fields {
		var err error
		switch key {
		case "user_id":
			w.UserID, err = toInt64(value)
		case "name":
			w.Name, err = toString(value)
		case "currency":
			w.Currency, err = toString(value)
		case "balance":
			w.Balance, err = toDecimal(value)
		case "meta":
			w.Meta, err = toFields(value)
		default:
			err = fmt.Errorf("unexpected field")
		}
		if err != nil {
			return nil, fmt.Errorf("wallet field %q: %w", key, err)
		}
	}
	return w, nil
}

// WalletColumns converts patch values into column values for updates.
func WalletColumns(fields types.Fields) (types.Fields, error) {
	columns := make(types.Fields, len(fields))
	for key, value := range fields {
		if key == "balance" {
			d, err := toDecimal(value)
			if err != nil {
				return nil, fmt.Errorf("wallet field %q: %w", key, err)
			}
			value = d
		}
		columns[key] = value
	}
	return columns, nil
}

func toString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, nil
	case string:
		return decimal.NewFromString(d)
	case float64:
		return decimal.NewFromFloat(d), nil
	case int:
		return decimal.NewFromInt(int64(d)), nil
	case int64:
		return decimal.NewFromInt(d), nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("expected decimal, got %T", v)
	}
}

func toFields(v any) (types.Fields, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case types.Fields:
		return m, nil
	case map[string]any:
		return types.Fields(m), nil
	default:
		return nil, fmt.Errorf("expected object, got %T", v)
	}
}
