// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package acceptor

import (
	"encoding/json"
	"io/ioutil"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/transaction"
)

// paths served
const (
	TransactionPath = "/transaction"
	ChainPath       = "/chain/"
	DigestPath      = "/digest/"
)

// Handler - HTTP routes for the acceptor
func (a *Acceptor) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.root)
	mux.HandleFunc(TransactionPath, a.transaction)
	mux.HandleFunc(ChainPath, a.chain)
	mux.HandleFunc(DigestPath, a.digest)
	return mux
}

// this matches anything not matched and returns error
func (a *Acceptor) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// POST /transaction
func (a *Acceptor) transaction(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if err := ratelimit.Allow(a.Limiter); nil != err {
		sendFault(w, err)
		return
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if nil != err || "application/json" != mediaType {
		sendFault(w, fault.UnsupportedContentType)
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaximumBodySize))
	if nil != err {
		sendFault(w, fault.TransactionTooLarge)
		return
	}

	reply, err := a.Accept(body)
	if nil != err {
		sendFault(w, err)
		return
	}

	a.Log.Infof("accepted asset: %q  sequence: %d  from: %s", reply.AssetID, reply.Sequence, r.RemoteAddr)
	sendReply(w, reply)
}

// GET /chain/<asset id>
func (a *Acceptor) chain(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, ChainPath)
	if "" == id {
		sendNotFound(w)
		return
	}

	chain, err := a.Store.Chain(id)
	if nil != err {
		sendFault(w, err)
		return
	}
	sendReply(w, chain)
}

// GET /digest/<hex>
func (a *Acceptor) digest(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	var d digest.Digest
	if err := d.UnmarshalText([]byte(strings.TrimPrefix(r.URL.Path, DigestPath))); nil != err {
		sendError(w, "invalid digest", http.StatusBadRequest)
		return
	}

	tx, sequence, err := a.Store.Get(d)
	if nil != err {
		sendFault(w, err)
		return
	}

	type theReply struct {
		AssetID     string                   `json:"assetId"`
		Sequence    uint64                   `json:"sequence"`
		Transaction *transaction.Transaction `json:"transaction"`
	}
	sendReply(w, theReply{
		AssetID:     tx.ID(),
		Sequence:    sequence,
		Transaction: tx,
	})
}

// StatusCode - HTTP status for an accept error
func StatusCode(err error) int {
	cause := errors.Cause(err)
	switch {
	case fault.RateLimiting == cause:
		return http.StatusTooManyRequests
	case fault.UnsupportedContentType == cause:
		return http.StatusUnsupportedMediaType
	case fault.TransactionTooLarge == cause:
		return http.StatusRequestEntityTooLarge
	case fault.ContentMismatch == cause:
		return http.StatusBadRequest
	case fault.IsErrExists(cause), fault.IsErrRecord(cause):
		return http.StatusConflict
	case fault.IsErrInvalid(cause), fault.IsErrLength(cause):
		return http.StatusBadRequest
	case fault.IsErrNotFound(cause):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// send a successful reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// map a fault to its status, hiding internal detail
func sendFault(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if http.StatusInternalServerError == code {
		sendInternalServerError(w)
		return
	}
	sendError(w, err.Error(), code)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
