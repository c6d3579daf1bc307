// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - token bucket limiting for submissions
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/custodyd/fault"
)

// Configuration - limiter settings
type Configuration struct {
	Limit float64 `gluamapper:"limit" json:"limit"` // requests per second
	Burst int     `gluamapper:"burst" json:"burst"`
}

// New - create a limiter, zero limit means unlimited
func New(configuration Configuration) *rate.Limiter {
	if configuration.Limit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := configuration.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(configuration.Limit), burst)
}

// Limit - limiting for a single request
func Limit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// LimitN - limiting for a multiple request
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	// invalid count gets limited as a single request
	if count <= 0 || count > maximumCount {

		r := limiter.Reserve()
		if !r.OK() {
			return fault.RateLimiting
		}
		time.Sleep(r.Delay())

		return fault.InvalidCount
	}

	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())

	return nil
}

// Allow - non-blocking check for servers that reject rather than wait
func Allow(limiter *rate.Limiter) error {
	if !limiter.Allow() {
		return fault.RateLimiting
	}
	return nil
}
