// Package protocol implements the NDJSON envelope wire format shared by the
// host process and engine subprocesses: one JSON object per line, no framing
// headers.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the only envelope schema version this package emits and
// accepts.
const ProtocolVersion = 1

// Kind identifies whether an Envelope carries a request, a response, or an
// unsolicited event.
type Kind string

const (
	KindReq   Kind = "req"
	KindRes   Kind = "res"
	KindEvent Kind = "event"
)

// Envelope is the single message shape exchanged between host and engine.
// Payload is left as raw JSON so callers can decode it into the struct that
// matches Type.
type Envelope struct {
	V       int             `json:"v"`
	Kind    Kind            `json:"kind"`
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewRequest builds a request Envelope with payload marshaled from v.
func NewRequest(id, typ string, payload any) (Envelope, error) {
	return newEnvelope(KindReq, typ, id, payload)
}

// NewResponse builds a response Envelope correlated to id.
func NewResponse(id, typ string, payload any) (Envelope, error) {
	return newEnvelope(KindRes, typ, id, payload)
}

// NewEvent builds an unsolicited event Envelope. Events never carry an id.
func NewEvent(typ string, payload any) (Envelope, error) {
	return newEnvelope(KindEvent, typ, "", payload)
}

func newEnvelope(kind Kind, typ, id string, payload any) (Envelope, error) {
	env := Envelope{V: ProtocolVersion, Kind: kind, Type: typ, ID: id}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	env.Payload = raw
	return env, nil
}

// DecodePayload unmarshals env.Payload into a value of type T.
func DecodePayload[T any](env Envelope) (T, error) {
	var v T
	if len(env.Payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(env.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return v, nil
}

// OkResult is the common {"ok":true} / {"ok":false,"error":"..."} response
// payload shape used by every request/response pair in this protocol.
type OkResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Success builds an OkResult{OK:true}.
func Success() OkResult { return OkResult{OK: true} }

// Failure builds an OkResult{OK:false, Error: reason}.
func Failure(reason string) OkResult { return OkResult{OK: false, Error: reason} }
