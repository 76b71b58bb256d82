package lesson

import (
	"errors"
	"log/slog"
)

// FailureSink is notified of every payload that fails to decode.
type FailureSink interface {
	PayloadFailed(kind PayloadKind, rawInner string, err error)
}

// SinkFunc adapts a function to FailureSink.
type SinkFunc func(kind PayloadKind, rawInner string, err error)

func (f SinkFunc) PayloadFailed(kind PayloadKind, rawInner string, err error) {
	f(kind, rawInner, err)
}

// Sinks fans a failure out to several sinks.
type Sinks []FailureSink

func (s Sinks) PayloadFailed(kind PayloadKind, rawInner string, err error) {
	for _, sink := range s {
		if sink != nil {
			sink.PayloadFailed(kind, rawInner, err)
		}
	}
}

// LogSink logs decode failures at warn level.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) PayloadFailed(kind PayloadKind, rawInner string, err error) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn("payload decode failed",
		"kind", kind,
		"reason", Reason(err),
		"error", err,
		"raw", truncate(rawInner, 500),
	)
}

// Reason returns the short failure reason of a decode error, or "" when err
// is not one.
func Reason(err error) string {
	var de *DecodeError
	if errors.As(err, &de) && de.Reason != nil {
		return de.Reason.Error()
	}
	return ""
}

// Parser parses lesson documents. The zero value is ready to use and drops
// failure notifications. A Parser holds no per-document state and may be
// shared between goroutines as long as its Sink is safe for concurrent use.
type Parser struct {
	Sink FailureSink
}

// Parse is Parser.Parse with no failure sink.
func Parse(raw string) []Item {
	var p Parser
	return p.Parse(raw)
}

// Parse splits raw into blocks, classifies each one and decodes every
// payload. It never fails; malformed payloads come back as tokens with Err
// set.
func (p *Parser) Parse(raw string) []Item {
	blocks := Split(raw)
	items := make([]Item, 0, len(blocks))
	for _, b := range blocks {
		item := Classify(b)
		if item.Kind == KindMixedContent {
			p.decodeTokens(item.Tokens)
		}
		items = append(items, item)
	}
	return items
}

func (p *Parser) decodeTokens(tokens []Token) {
	for i := range tokens {
		tok := &tokens[i]
		if tok.Type != TokenPayload {
			continue
		}
		v, err := Decode(tok.Kind, tok.Inner)
		if err != nil {
			var de *DecodeError
			if !errors.As(err, &de) {
				de = &DecodeError{Kind: tok.Kind, Reason: ErrInvalidJSON, Cause: err}
			}
			tok.Err = de
			if p.Sink != nil {
				p.Sink.PayloadFailed(tok.Kind, tok.Inner, de)
			}
			continue
		}
		tok.Value = v
	}
}

// Summary counts what a parse produced.
type Summary struct {
	Blocks   int `json:"blocks"`
	Payloads int `json:"payloads"`
	Failures int `json:"failures"`
}

// Summarize counts blocks, payloads and failed payloads in items.
func Summarize(items []Item) Summary {
	s := Summary{Blocks: len(items)}
	for _, it := range items {
		for _, t := range it.Tokens {
			if t.Type != TokenPayload {
				continue
			}
			s.Payloads++
			if t.Err != nil {
				s.Failures++
			}
		}
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
