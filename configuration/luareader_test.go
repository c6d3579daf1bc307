// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/custodyd/configuration"
	"github.com/bitmark-inc/custodyd/fault"
)

type rateType struct {
	Limit float64 `gluamapper:"limit"`
	Burst int     `gluamapper:"burst"`
}

type testConfiguration struct {
	DataDirectory string   `gluamapper:"data_directory"`
	Name          string   `gluamapper:"name"`
	Listen        []string `gluamapper:"listen"`
	Enabled       bool     `gluamapper:"enabled"`
	Rate          rateType `gluamapper:"rate"`
}

const script = `
local M = {}
M.data_directory = config_dir
M.name = "custodyd-" .. chain
M.listen = { "127.0.0.1:8000", "[::1]:8000" }
M.enabled = true
M.rate = { limit = 2.5, burst = 10 }
return M
`

func writeScript(t *testing.T, dir string, text string) string {
	name := filepath.Join(dir, "test.conf")
	require.NoError(t, ioutil.WriteFile(name, []byte(text), 0600), "write script")
	return name
}

func TestParseConfigurationFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	require.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := writeScript(t, dir, script)

	config := testConfiguration{
		Name: "unchanged",
		Rate: rateType{
			Burst: 1,
		},
	}
	err = configuration.ParseConfigurationFile(name, &config, map[string]string{"chain": "testing"})
	require.NoError(t, err, "parse")

	absolute, err := filepath.Abs(dir)
	require.NoError(t, err, "abs")

	assert.Equal(t, absolute, config.DataDirectory, "data directory")
	assert.Equal(t, "custodyd-testing", config.Name, "name")
	assert.Equal(t, []string{"127.0.0.1:8000", "[::1]:8000"}, config.Listen, "listen")
	assert.True(t, config.Enabled, "enabled")
	assert.Equal(t, 2.5, config.Rate.Limit, "rate limit")
	assert.Equal(t, 10, config.Rate.Burst, "rate burst")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	require.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)

	config := testConfiguration{}

	err = configuration.ParseConfigurationFile(filepath.Join(dir, "missing.conf"), &config, nil)
	assert.Error(t, err, "missing file")

	name := writeScript(t, dir, "return {")
	err = configuration.ParseConfigurationFile(name, &config, nil)
	assert.Error(t, err, "syntax error")

	name = writeScript(t, dir, "return 42")
	err = configuration.ParseConfigurationFile(name, &config, nil)
	assert.Equal(t, fault.WrongFieldType, errors.Cause(err), "not a table")

	err = configuration.ParseConfigurationFile(name, config, nil)
	assert.Equal(t, fault.InvalidStructPointer, err, "not a pointer")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data", "log"), "relative")
	assert.Equal(t, "/var/log", configuration.EnsureAbsolute("/data", "/var/log"), "absolute")
	assert.Equal(t, "/data/db", configuration.EnsureAbsolute("/data", "./x/../db"), "cleaned")
}
