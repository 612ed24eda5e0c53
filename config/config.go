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

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tomoncle/crud/database"
	"github.com/tomoncle/crud/utils"
	"gopkg.in/yaml.v3"
)

// DefaultPageLimit is the page size used when none is configured.
const DefaultPageLimit = 10

// LogConfig selects the level and format of every named logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// Settings is the application configuration file.
type Settings struct {
	PageLimit int             `yaml:"page_limit"`
	Database  database.Config `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns settings with a sqlite in-memory database.
func Default() *Settings {
	db := database.DefaultConfig()
	db.ConnectionConfig.Type = "sqlite"
	db.ConnectionConfig.DBName = ":memory:"
	return &Settings{
		PageLimit: DefaultPageLimit,
		Database:  *db,
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path on top of Default, then applies PAGE_LIMIT, LOG_LEVEL and
// LOG_FORMAT from the environment. An empty path skips the file.
func Load(path string) (*Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	s.overrideFromEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) overrideFromEnv() {
	s.PageLimit = utils.EnvDefaultInt("PAGE_LIMIT", s.PageLimit)
	s.Log.Level = utils.EnvDefaultString("LOG_LEVEL", s.Log.Level)
	s.Log.Format = utils.EnvDefaultString("LOG_FORMAT", s.Log.Format)
}

func (s *Settings) Validate() error {
	if s.PageLimit < 1 {
		return fmt.Errorf("page_limit must be positive, got %d", s.PageLimit)
	}
	if s.Database.ConnectionConfig.Type == "" {
		return errors.New("database.connection.type is required")
	}
	return nil
}

// GetPageLimit returns the configured page size.
func (s *Settings) GetPageLimit() int {
	return s.PageLimit
}

// ConfigLoader exposes the database section.
func (s *Settings) ConfigLoader() *database.Config {
	return &s.Database
}

// ApplyLogging pushes the log section to every named logger.
func (s *Settings) ApplyLogging() {
	utils.ConfigureLogLevel(s.Log.Level)
	utils.ConfigureLogFormat(s.Log.Format)
}
