// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/custodyd/fault"
)

// wire field names, fixed for interoperability
const (
	idField              = "id"
	timestampField       = "timestamp"
	publicKeyInputField  = "publicKeyInput"
	publicKeyOutputField = "publicKeyOutput"
	signatureField       = "signature"
)

// the JSON form; byte fields are standard base64 with padding
type wireTransaction struct {
	Id              string    `json:"id"`
	Timestamp       Timestamp `json:"timestamp"`
	PublicKeyInput  *string   `json:"publicKeyInput"` // null for a register
	PublicKeyOutput string    `json:"publicKeyOutput"`
	Signature       string    `json:"signature"`
}

// MarshalJSON - convert to the wire form
func (t *Transaction) MarshalJSON() ([]byte, error) {
	w := wireTransaction{
		Id:              t.id,
		Timestamp:       t.timestamp,
		PublicKeyOutput: base64.StdEncoding.EncodeToString(t.output),
		Signature:       base64.StdEncoding.EncodeToString(t.signature),
	}
	if nil != t.input {
		s := base64.StdEncoding.EncodeToString(*t.input)
		w.PublicKeyInput = &s
	}
	return json.Marshal(w)
}

// UnmarshalJSON - convert from the wire form
//
// on error the receiver is left unchanged
func (t *Transaction) UnmarshalJSON(buffer []byte) error {
	decoded, err := DecodeJSON(buffer)
	if nil != err {
		return err
	}
	*t = *decoded
	return nil
}

// EncodeJSON - indented wire form for transport and display
func (t *Transaction) EncodeJSON() []byte {
	buffer, err := json.MarshalIndent(t, "", "  ")
	fault.PanicIfError("transaction.EncodeJSON", err)
	return buffer
}

// DecodeJSON - parse the wire form
//
// either a complete transaction or an error naming the failed field
func DecodeJSON(buffer []byte) (*Transaction, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(buffer, &fields); nil != err {
		return nil, errors.Wrap(fault.InvalidJSON, err.Error())
	}
	if nil == fields {
		return nil, errors.Wrap(fault.InvalidJSON, "null")
	}

	id, err := stringField(fields, idField)
	if nil != err {
		return nil, err
	}

	raw, ok := present(fields, timestampField)
	if !ok {
		return nil, errors.Wrap(fault.MissingField, timestampField)
	}
	var timestamp uint64
	if err := json.Unmarshal(raw, &timestamp); nil != err {
		return nil, errors.Wrapf(fault.InvalidTimestamp, "%s: %s", timestampField, raw)
	}

	var input *PublicKey
	if _, ok := present(fields, publicKeyInputField); ok {
		key, err := base64Field(fields, publicKeyInputField)
		if nil != err {
			return nil, err
		}
		k := PublicKey(key)
		input = &k
	}

	output, err := base64Field(fields, publicKeyOutputField)
	if nil != err {
		return nil, err
	}

	signature, err := base64Field(fields, signatureField)
	if nil != err {
		return nil, err
	}

	t := &Transaction{
		id:        id,
		timestamp: Timestamp(timestamp),
		input:     input,
		output:    output,
		signature: signature,
	}
	return t, nil
}

// a missing key and an explicit null are treated alike
func present(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || "null" == string(raw) {
		return nil, false
	}
	return raw, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := present(fields, name)
	if !ok {
		return "", errors.Wrap(fault.MissingField, name)
	}
	s := ""
	if err := json.Unmarshal(raw, &s); nil != err {
		return "", errors.Wrapf(fault.WrongFieldType, "%s: expected string", name)
	}
	return s, nil
}

func base64Field(fields map[string]json.RawMessage, name string) ([]byte, error) {
	s, err := stringField(fields, name)
	if nil != err {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if nil != err {
		return nil, errors.Wrapf(fault.InvalidBase64, "%s: %s", name, err)
	}
	return b, nil
}
