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
	"github.com/tomoncle/crud/config"
	"github.com/tomoncle/crud/database"
)

// DefaultIdentifier is the identifier column used unless WithIdentifier says
// otherwise.
const DefaultIdentifier = "id"

// PageLimiter supplies the fixed page size used by GetPage.
type PageLimiter interface {
	GetPageLimit() int
}

// PageLimit is a constant PageLimiter.
type PageLimit int

func (p PageLimit) GetPageLimit() int { return int(p) }

type options struct {
	identifier string
	pageLimit  PageLimiter
	logger     database.Logger
}

func defaultOptions() options {
	return options{
		identifier: DefaultIdentifier,
		pageLimit:  PageLimit(config.DefaultPageLimit),
	}
}

type Option func(*options)

// WithIdentifier names the identifier column. A name that is not a column of
// the record type leaves the factory without an identifier.
func WithIdentifier(column string) Option {
	return func(o *options) { o.identifier = column }
}

// WithPageLimit sets the page size source, usually *config.Settings.
func WithPageLimit(limiter PageLimiter) Option {
	return func(o *options) {
		if limiter != nil {
			o.pageLimit = limiter
		}
	}
}

func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}
