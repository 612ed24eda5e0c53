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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" warning "))
	assert.Equal(t, logrus.ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLogger_Registry(t *testing.T) {
	a := NewLogger("registry-test")
	b := NewLogger("registry-test")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("registry-test", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("never-created", "error"))
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "CRUD"}
	out, err := f.Format(&logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Storage operation failed",
		Data:    logrus.Fields{"op": "update", "error": errors.New("boom")},
	})
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "CRUD", rec["model"])
	assert.Equal(t, "2025-01-02 03:04:05.000", rec["time"])
	fields := rec["fields"].(map[string]any)
	assert.Equal(t, "update", fields["op"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 4, NoColor: true}
	out, err := f.Format(&logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "connected",
		Data:    logrus.Fields{"type": "sqlite", "host": ""},
	})
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "   INFO")
	assert.Contains(t, line, " DATA : connected host= type=sqlite")
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.NotContains(t, line, "\x1b[")
}

func TestConfigureOutput(t *testing.T) {
	lg := NewLogger("output-test")
	var buf bytes.Buffer
	ConfigureOutput(&buf)
	defer ConfigureOutput(os.Stdout)

	lg.SetLevel(logrus.InfoLevel)
	lg.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestCallerLine(t *testing.T) {
	assert.Equal(t, "crud/factory.go:12", callerLine("/src/crud/factory.go", 12))
	assert.Equal(t, "main.go:3", callerLine("main.go", 3))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CRUD_TEST_INT", "12")
	t.Setenv("CRUD_TEST_BAD_INT", "x")
	t.Setenv("CRUD_TEST_BOOL", "true")

	assert.Equal(t, 12, EnvDefaultInt("CRUD_TEST_INT", 1))
	assert.Equal(t, 1, EnvDefaultInt("CRUD_TEST_BAD_INT", 1))
	assert.True(t, EnvDefaultBool("CRUD_TEST_BOOL", false))
	assert.Equal(t, "fallback", EnvDefaultString("CRUD_TEST_UNSET", "fallback"))
}
