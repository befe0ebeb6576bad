//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package wire converts the provider-independent conversation into each
// provider's wire message shape and back. The conversion is round-trip
// stable: marshal, parse, marshal yields identical wire output.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/sommda/gamemaster-client/model"
)

// Marshal serializes turns into the provider's wire message array. It is
// called before every network send, so a conversation built by one provider's
// calls in a prior iteration must serialize for the other provider without
// error (a mid-run provider switch is unsupported but non-fatal).
func Marshal(turns []model.Turn, p model.Provider) (json.RawMessage, error) {
	switch p {
	case model.ProviderAnthropic:
		return marshalAnthropic(turns)
	case model.ProviderOpenAI:
		return marshalOpenAI(turns)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p)
	}
}

// Parse is the inverse of Marshal: it rebuilds turns from a provider wire
// message array.
func Parse(raw json.RawMessage, p model.Provider) ([]model.Turn, error) {
	switch p {
	case model.ProviderAnthropic:
		return parseAnthropic(raw)
	case model.ProviderOpenAI:
		return parseOpenAI(raw)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p)
	}
}

// safeArguments returns call arguments as wire-safe JSON. Arguments that
// never parsed (best-effort fragments kept after an assembly failure) are
// encoded as a JSON string so the wire payload stays valid.
func safeArguments(args json.RawMessage) json.RawMessage {
	if len(args) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(args) {
		return args
	}
	quoted, err := json.Marshal(string(args))
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return quoted
}

// rawArgumentString returns call arguments as the raw string form used by
// wire formats that carry arguments as a string field.
func rawArgumentString(args json.RawMessage) string {
	if len(args) == 0 {
		return "{}"
	}
	return string(args)
}
