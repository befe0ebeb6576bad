//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"fmt"

	"github.com/sommda/gamemaster-client/model"
)

// Normalizer turns one provider's raw framed events into normalized Events.
// Frames are fed strictly in delivery order. A malformed or non-JSON frame is
// ignored, not fatal: upstream framing noise is expected and must not abort
// the stream.
type Normalizer interface {
	// Normalize consumes one raw frame and returns zero or more normalized
	// events. The event name may be empty for providers that carry the frame
	// type inside the data payload.
	Normalize(event string, data []byte) []Event

	// Finish flushes any state held back until end of stream and returns the
	// remaining events.
	Finish() []Event
}

// New returns the normalizer for the given provider.
func New(p model.Provider) (Normalizer, error) {
	switch p {
	case model.ProviderAnthropic:
		return newAnthropicNormalizer(), nil
	case model.ProviderOpenAI:
		return newOpenAINormalizer(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p)
	}
}
