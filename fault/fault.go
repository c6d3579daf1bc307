// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"github.com/pkg/errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised     = ExistsError("already initialised")
	AlreadySubmitted       = ExistsError("transaction already submitted")
	ChainBroken            = RecordError("transaction does not follow previous owner")
	ContentMismatch        = RecordError("content does not match the signature")
	EmptyChain             = InvalidError("chain has no transactions")
	InvalidBase64          = InvalidError("invalid base64 encoding")
	InvalidCount           = InvalidError("invalid count")
	InvalidJSON            = InvalidError("invalid json")
	InvalidPublicKey       = LengthError("could not create public key from input")
	InvalidSecretKey       = LengthError("invalid secret key")
	InvalidSignature       = InvalidError("signature is not valid")
	InvalidStructPointer   = InvalidError("invalid struct pointer")
	InvalidTimestamp       = InvalidError("timestamp is not an unsigned 64 bit integer")
	InvalidUTF8            = InvalidError("asset id is not valid utf-8")
	MissingField           = InvalidError("required field is missing")
	MissingPrevious        = InvalidError("previous transaction is missing")
	NotFound               = NotFoundError("not found")
	NotInitialised         = NotFoundError("not initialised")
	NotRegister            = RecordError("first transaction of a chain must be a register")
	RateLimiting           = ProcessError("rate limiting")
	SecretKeyDestroyed     = ProcessError("secret key has been destroyed")
	SecretKeyMismatch      = RecordError("secret key does not match previous owner")
	SubmitFailed           = ProcessError("failed to send transaction")
	TransactionExists      = ExistsError("transaction already exists")
	TransactionTooLarge    = LengthError("transaction is too large")
	UnsupportedContentType = InvalidError("content type must be application/json")
	WrongFieldType         = InvalidError("field has wrong type")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
// wrapped errors are classified by their cause
func IsErrExists(e error) bool   { _, ok := errors.Cause(e).(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := errors.Cause(e).(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := errors.Cause(e).(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := errors.Cause(e).(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := errors.Cause(e).(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := errors.Cause(e).(RecordError); return ok }
