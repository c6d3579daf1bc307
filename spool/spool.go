// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spool - pick up transaction files dropped into a directory
//
// every "*.json" file is passed to a handler once it has stopped
// changing; accepted files are removed and rejected ones renamed with a
// ".rejected" suffix so they are not retried.  Any other handler error
// leaves the file in place to be tried again
package spool

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/custodyd/fault"
)

// file name suffixes
const (
	Suffix         = ".json"
	RejectedSuffix = ".rejected"
)

// a file must be quiet this long before it is read
const settleTime = 200 * time.Millisecond

// extra wait before a file that failed for a transient reason is re-read
const retryTime = time.Second

// Configuration - from the daemon configuration file
type Configuration struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Enabled   bool   `gluamapper:"enabled" json:"enabled"`
}

// Handler - process the contents of one file
type Handler func(name string, data []byte) error

// Spool - directory watcher
type Spool struct {
	log       *logger.L
	directory string
	handler   Handler
	watcher   *fsnotify.Watcher
	pending   map[string]time.Time
}

// New - watch directory, which must already exist
func New(directory string, handler Handler, log *logger.L) (*Spool, error) {
	directory, err := filepath.Abs(filepath.Clean(directory))
	if nil != err {
		return nil, err
	}

	info, err := os.Stat(directory)
	if nil != err {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fault.NotFound
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher error: %s", err)
		return nil, err
	}

	err = watcher.Add(directory)
	if nil != err {
		log.Errorf("watcher add error: %s", err)
		watcher.Close()
		return nil, err
	}

	return &Spool{
		log:       log,
		directory: directory,
		handler:   handler,
		watcher:   watcher,
		pending:   make(map[string]time.Time),
	}, nil
}

// Run - background process loop
func (s *Spool) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("watching: %s", s.directory)

	s.scan()

	ticker := time.NewTicker(settleTime / 2)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-s.watcher.Events:
			if !ok {
				break loop
			}
			log.Debugf("file event: %v", event)
			if !isSpoolFile(event.Name) {
				continue
			}
			if watcherEventFileRemove(event) {
				delete(s.pending, event.Name)
				continue
			}
			if watcherEventFileChange(event) {
				s.pending[event.Name] = time.Now()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)

		case now := <-ticker.C:
			for name, changed := range s.pending {
				if now.Sub(changed) >= settleTime {
					delete(s.pending, name)
					s.process(name)
				}
			}
		}
	}

	s.watcher.Close()
	log.Info("shutdown")
}

// queue files already present at start
func (s *Spool) scan() {
	names, err := filepath.Glob(filepath.Join(s.directory, "*"+Suffix))
	if nil != err {
		s.log.Errorf("scan error: %s", err)
		return
	}
	for _, name := range names {
		s.pending[name] = time.Time{}
	}
}

// read, hand off and dispose of one file
func (s *Spool) process(name string) {
	log := s.log

	data, err := ioutil.ReadFile(name)
	if os.IsNotExist(err) {
		return
	}
	if nil != err {
		log.Errorf("read: %s  error: %s", name, err)
		return
	}

	err = s.handler(filepath.Base(name), data)
	if nil == err {
		log.Infof("accepted: %s", name)
		if err := os.Remove(name); nil != err {
			log.Errorf("remove: %s  error: %s", name, err)
		}
		return
	}

	if !isRejection(err) {
		log.Errorf("retry: %s  error: %s", name, err)
		s.pending[name] = time.Now().Add(retryTime)
		return
	}

	log.Warnf("rejected: %s  error: %s", name, err)
	if err := os.Rename(name, name+RejectedSuffix); nil != err {
		log.Errorf("rename: %s  error: %s", name, err)
	}
}

// errors caused by the file contents, retrying cannot succeed
func isRejection(err error) bool {
	return fault.IsErrInvalid(err) ||
		fault.IsErrRecord(err) ||
		fault.IsErrExists(err) ||
		fault.IsErrLength(err)
}

func isSpoolFile(name string) bool {
	return strings.HasSuffix(name, Suffix)
}

func watcherEventFileRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Write == fsnotify.Write
}
