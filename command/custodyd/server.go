// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// one HTTP listener run as a background process
type server struct {
	log      *logger.L
	listener net.Listener
	server   *http.Server
}

func newServer(address string, handler http.Handler, log *logger.L) (*server, error) {
	listener, err := net.Listen("tcp", address)
	if nil != err {
		return nil, err
	}

	return &server{
		log:      log,
		listener: listener,
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}, nil
}

// Run - serve until shutdown
func (s *server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	address := s.listener.Addr().String()
	log.Infof("listening on: %s", address)

	done := make(chan error, 1)
	go func() {
		done <- s.server.Serve(s.listener)
	}()

	select {
	case <-shutdown:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); nil != err {
			log.Errorf("shutdown: %s  error: %s", address, err)
		}
		<-done
	case err := <-done:
		log.Criticalf("serve: %s  error: %s", address, err)
	}

	log.Infof("stopped: %s", address)
}
