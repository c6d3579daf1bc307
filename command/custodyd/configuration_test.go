// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfiguration(t *testing.T, dir string, text string) string {
	name := filepath.Join(dir, "custodyd.conf")
	require.NoError(t, ioutil.WriteFile(name, []byte(text), 0600), "write configuration")
	return name
}

func TestGetConfiguration(t *testing.T) {
	dir, err := ioutil.TempDir("", "custodyd")
	require.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)
	dir, err = filepath.EvalSymlinks(dir)
	require.NoError(t, err, "eval symlinks")

	name := writeConfiguration(t, dir, `
return {
    data_directory = ".",
    pidfile = "custodyd.pid",
    listen = { "127.0.0.1:" .. port },
    spool = { enabled = true },
    rate = { limit = 0 },
}
`)

	options, err := getConfiguration(name, map[string]string{"port": "8123"})
	require.NoError(t, err, "get configuration")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(options.DataDirectory), "data directory")
	assert.Equal(t, filepath.Join(dir, "custodyd.pid"), options.PidFile, "pid file")
	assert.Equal(t, []string{"127.0.0.1:8123"}, options.Listen, "listen")
	assert.Equal(t, filepath.Join(dir, defaultLevelDBDirectory, defaultChainDatabase), options.Database.Name, "database")
	assert.Equal(t, filepath.Join(dir, defaultSpoolDirectory), options.Spool.Directory, "spool")
	assert.Equal(t, float64(0), options.Rate.Limit, "rate limit")
	assert.Equal(t, defaultRateBurst, options.Rate.Burst, "rate burst default")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), options.Logging.Directory, "log directory")

	for _, d := range []string{defaultLevelDBDirectory, defaultLogDirectory, defaultSpoolDirectory} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "stat: %s", d)
		assert.True(t, info.IsDir(), "directory: %s", d)
	}
}

func TestGetConfigurationErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "custodyd")
	require.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)

	items := []string{
		`return { }`,
		`return { data_directory = "~" }`,
		`return { data_directory = "/nonexistent/custodyd" }`,
		`return { data_directory = ".", listen = {} }`,
		`return { data_directory = ".", database = { name = "x/y.leveldb" } }`,
		`return { data_directory = ".", logging = { file = "../custodyd.log" } }`,
	}
	for i, text := range items {
		name := writeConfiguration(t, dir, text)
		_, err := getConfiguration(name, nil)
		assert.Error(t, err, "%d: %s", i, text)
	}
}
