// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/custodyd/configuration"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/spool"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultChainDatabase    = "custody.leveldb"

	defaultSpoolDirectory = "spool"

	defaultListen = "127.0.0.1:8000"

	defaultRateLimit = 10
	defaultRateBurst = 20

	defaultLogDirectory = "log"
	defaultLogFile      = "custodyd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - everything from the configuration file
type Configuration struct {
	DataDirectory string                  `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                  `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType            `gluamapper:"database" json:"database"`
	Listen        []string                `gluamapper:"listen" json:"listen"`
	Spool         spool.Configuration     `gluamapper:"spool" json:"spool"`
	Rate          ratelimit.Configuration `gluamapper:"rate" json:"rate"`
	Logging       logger.Configuration    `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultChainDatabase,
		},

		Listen: []string{defaultListen},

		Spool: spool.Configuration{
			Directory: defaultSpoolDirectory,
			Enabled:   false,
		},

		Rate: ratelimit.Configuration{
			Limit: defaultRateLimit,
			Burst: defaultRateBurst,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	if 0 == len(options.Listen) {
		return nil, fmt.Errorf("no listen addresses")
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = configuration.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator
	for _, f := range []string{options.Database.Name, options.Logging.File} {
		switch filepath.Dir(f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", f)
		}
	}

	// make absolute and create directories if they do not already exist
	directories := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	if options.Spool.Enabled {
		directories = append(directories, &options.Spool.Directory)
	}
	for _, d := range directories {
		*d = configuration.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}
	options.Database.Name = configuration.EnsureAbsolute(options.Database.Directory, options.Database.Name)

	// done
	return options, nil
}
