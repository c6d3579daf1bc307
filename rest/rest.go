// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rest - deliver a transaction's JSON to a remote acceptance service
package rest

import (
	"io/ioutil"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/custodyd/fault"
)

// defaults
const (
	DefaultURL     = "http://localhost:8000/transaction"
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2

	contentType = "application/json"
)

// Reply - what came back from the service, not interpreted further
type Reply struct {
	Body       string `json:"body"`
	StatusCode int    `json:"statusCode"`
}

// Poster - anything that can deliver a JSON body
type Poster interface {
	Post(url string, body []byte) (*Reply, error)
}

// Client - HTTP poster with retries on transport errors and 5xx replies
type Client struct {
	client *retryablehttp.Client
}

// New - create a client
func New(timeout time.Duration, retries int, log *logger.L) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = 0
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout

	// once retries are exhausted return the last response as is
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if nil == log {
		client.Logger = nil
	} else {
		client.Logger = leveled{log: log}
	}

	return &Client{
		client: client,
	}
}

// Post - send body with content type application/json
func (c *Client) Post(url string, body []byte) (*Reply, error) {
	request, err := retryablehttp.NewRequest(http.MethodPost, url, body)
	if nil != err {
		return nil, errors.Wrap(fault.SubmitFailed, err.Error())
	}
	request.Header.Set("Content-Type", contentType)

	response, err := c.client.Do(request)
	if nil != err {
		return nil, errors.Wrap(fault.SubmitFailed, err.Error())
	}
	defer response.Body.Close()

	data, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return nil, errors.Wrap(fault.SubmitFailed, err.Error())
	}

	return &Reply{
		Body:       string(data),
		StatusCode: response.StatusCode,
	}, nil
}

// adapt a logger channel to the retry client's leveled logger
type leveled struct {
	log *logger.L
}

func (l leveled) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorf("%s %v", msg, keysAndValues)
}

func (l leveled) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infof("%s %v", msg, keysAndValues)
}

func (l leveled) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("%s %v", msg, keysAndValues)
}

func (l leveled) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnf("%s %v", msg, keysAndValues)
}
