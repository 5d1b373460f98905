package sanitizer

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Encoder converts a raw string into a form that is safe to reflect into HTML.
// Implementations must be deterministic and must map "" to "".
type Encoder func(string) string

// Encoder names accepted by EncoderByName and Config.Encoder.
const (
	EncoderHTML   = "html"
	EncoderXSS    = "xss"
	EncoderStrict = "strict"
	EncoderUGC    = "ugc"
)

// HTMLEncoder replaces reserved HTML characters with character references.
var HTMLEncoder Encoder = EscapeHTML

// PolicyEncoder adapts a bluemonday policy. Policies are safe for concurrent
// use once built, so one policy can back every request.
func PolicyEncoder(p *bluemonday.Policy) Encoder {
	if p == nil {
		return HTMLEncoder
	}
	return p.Sanitize
}

// Chain runs encoders left to right. Nil encoders are skipped; an empty
// chain returns its input.
func Chain(encoders ...Encoder) Encoder {
	steps := make([]Encoder, 0, len(encoders))
	for _, e := range encoders {
		if e != nil {
			steps = append(steps, e)
		}
	}
	return func(s string) string {
		for _, step := range steps {
			s = step(s)
		}
		return s
	}
}

// EncoderByName resolves a named encoder:
//
//   - "html" (or empty): EscapeHTML
//   - "xss": PreventXSS
//   - "strict": bluemonday StrictPolicy, which drops all markup
//   - "ugc": bluemonday UGCPolicy, which keeps safe formatting markup
func EncoderByName(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncoderHTML:
		return HTMLEncoder, nil
	case EncoderXSS:
		return PreventXSS, nil
	case EncoderStrict:
		return PolicyEncoder(bluemonday.StrictPolicy()), nil
	case EncoderUGC:
		return PolicyEncoder(bluemonday.UGCPolicy()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoder, name)
}
