// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

func TestJSONRoundTrip(t *testing.T) {
	t0, sk0, err := transaction.Register(bikeSerial)
	require.NoError(t, err, "register")
	t1, sk1, err := transaction.Transfer(t0, sk0)
	require.NoError(t, err, "transfer")
	defer sk1.Destroy()
	g, _ := transaction.Genesis()

	for i, tx := range []*transaction.Transaction{t0, t1, g} {
		buffer := tx.EncodeJSON()
		back, err := transaction.DecodeJSON(buffer)
		require.NoError(t, err, "%d: decode", i)
		assert.Equal(t, tx, back, "%d: round trip", i)
		assert.NoError(t, back.Verify(), "%d: decoded verify", i)
	}

	// present but empty input key stays distinct from no input key
	empty := transaction.PublicKey{}
	withEmpty := transaction.FromDetails("x", 1, &empty, transaction.PublicKey{1}, transaction.Signature{2})
	back, err := transaction.DecodeJSON(withEmpty.EncodeJSON())
	require.NoError(t, err, "decode empty input")
	assert.True(t, back.HasInput(), "empty input key was lost")
}

func TestJSONWireForm(t *testing.T) {
	g, sk := transaction.Genesis()
	defer sk.Destroy()

	fields := make(map[string]interface{})
	err := json.Unmarshal(g.EncodeJSON(), &fields)
	require.NoError(t, err, "unmarshal")

	assert.Equal(t, 5, len(fields), "field count")
	assert.Equal(t, "GENESIS", fields["id"], "id")
	assert.Equal(t, float64(0), fields["timestamp"], "timestamp")
	assert.Nil(t, fields["publicKeyInput"], "publicKeyInput is not null")
	assert.Contains(t, fields, "publicKeyInput", "publicKeyInput key missing")
	assert.Equal(t, base64.StdEncoding.EncodeToString(g.PublicKeyOutput()), fields["publicKeyOutput"], "publicKeyOutput")
	assert.Equal(t, base64.StdEncoding.EncodeToString(g.Signature()), fields["signature"], "signature")

	// embedded in another structure
	type holder struct {
		Transaction *transaction.Transaction `json:"transaction"`
	}
	buffer, err := json.Marshal(holder{Transaction: g})
	require.NoError(t, err, "marshal holder")

	var h holder
	err = json.Unmarshal(buffer, &h)
	require.NoError(t, err, "unmarshal holder")
	assert.Equal(t, g, h.Transaction, "embedded round trip")
}

func TestJSONMissingInput(t *testing.T) {
	g, sk := transaction.Genesis()
	defer sk.Destroy()

	s := `{
  "id": "GENESIS",
  "timestamp": 0,
  "publicKeyOutput": "` + base64.StdEncoding.EncodeToString(g.PublicKeyOutput()) + `",
  "signature": "` + base64.StdEncoding.EncodeToString(g.Signature()) + `"
}`
	tx, err := transaction.DecodeJSON([]byte(s))
	require.NoError(t, err, "decode")
	assert.False(t, tx.HasInput(), "missing key gave an input")
	assert.Equal(t, g, tx, "decoded differs")
	assert.NoError(t, tx.Verify(), "verify")
}

func TestJSONDecodeFailures(t *testing.T) {
	const key = "O2onvM62pC1io6jQKm8Nc2UyFXcd4kOmOsBIoYtZ2ik="
	const signature = "AAAA"

	items := []struct {
		name  string
		json  string
		class func(error) bool
		cause error
	}{
		{"not json", `{"id": `, fault.IsErrInvalid, fault.InvalidJSON},
		{"array", `[1, 2]`, fault.IsErrInvalid, fault.InvalidJSON},
		{"null", `null`, fault.IsErrInvalid, fault.InvalidJSON},
		{"missing id", `{"timestamp": 1, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.MissingField},
		{"numeric id", `{"id": 12, "timestamp": 1, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.WrongFieldType},
		{"missing timestamp", `{"id": "a", "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.MissingField},
		{"negative timestamp", `{"id": "a", "timestamp": -1, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidTimestamp},
		{"fractional timestamp", `{"id": "a", "timestamp": 1.5, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidTimestamp},
		{"overflow timestamp", `{"id": "a", "timestamp": 18446744073709551616, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidTimestamp},
		{"string timestamp", `{"id": "a", "timestamp": "1", "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidTimestamp},
		{"missing output", `{"id": "a", "timestamp": 1, "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.MissingField},
		{"bad output", `{"id": "a", "timestamp": 1, "publicKeyOutput": "not base64!", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidBase64},
		{"url alphabet", `{"id": "a", "timestamp": 1, "publicKeyOutput": "-_-_", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidBase64},
		{"unpadded", `{"id": "a", "timestamp": 1, "publicKeyOutput": "O2onvM62pC1io6jQKm8Nc2UyFXcd4kOmOsBIoYtZ2ik", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidBase64},
		{"bad input", `{"id": "a", "timestamp": 1, "publicKeyInput": "%%%", "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.InvalidBase64},
		{"numeric input", `{"id": "a", "timestamp": 1, "publicKeyInput": 7, "publicKeyOutput": "` + key + `", "signature": "` + signature + `"}`, fault.IsErrInvalid, fault.WrongFieldType},
		{"missing signature", `{"id": "a", "timestamp": 1, "publicKeyOutput": "` + key + `"}`, fault.IsErrInvalid, fault.MissingField},
		{"null signature", `{"id": "a", "timestamp": 1, "publicKeyOutput": "` + key + `", "signature": null}`, fault.IsErrInvalid, fault.MissingField},
		{"bad signature", `{"id": "a", "timestamp": 1, "publicKeyOutput": "` + key + `", "signature": "A"}`, fault.IsErrInvalid, fault.InvalidBase64},
	}

	for _, item := range items {
		tx, err := transaction.DecodeJSON([]byte(item.json))
		assert.Nil(t, tx, "%s: got a transaction", item.name)
		require.Error(t, err, "%s: no error", item.name)
		assert.True(t, item.class(err), "%s: wrong class: %s", item.name, err)
		assert.Equal(t, item.cause, errorCause(err), "%s: wrong cause: %s", item.name, err)
	}
}

func TestJSONErrorNamesField(t *testing.T) {
	_, err := transaction.DecodeJSON([]byte(`{"id": "a", "timestamp": 1, "publicKeyOutput": "@@@@", "signature": "AAAA"}`))
	require.Error(t, err, "bad output accepted")
	assert.Contains(t, err.Error(), "publicKeyOutput", "field not named")

	_, err = transaction.DecodeJSON([]byte(`{"id": "a", "timestamp": 1, "publicKeyOutput": "AAAA"}`))
	require.Error(t, err, "missing signature accepted")
	assert.Contains(t, err.Error(), "signature", "field not named")
}

func TestUnmarshalLeavesReceiver(t *testing.T) {
	g, sk := transaction.Genesis()
	defer sk.Destroy()

	tx := transaction.FromDetails(g.ID(), g.Timestamp(), nil, g.PublicKeyOutput(), g.Signature())
	err := json.Unmarshal([]byte(`{"id": 1}`), tx)
	assert.Error(t, err, "bad json accepted")
	assert.Equal(t, g, tx, "receiver modified")
}
