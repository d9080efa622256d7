// Package sse incrementally parses a server-sent-event chat stream into
// ordered content deltas. Payload lines follow the chat-completions
// convention: `data: <json>` where <json>.choices[0].delta.content carries
// incremental text, terminated by `data: [DONE]`.
package sse

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const doneSentinel = "[DONE]"

type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Parser reassembles an SSE byte stream delivered in arbitrary chunks.
// Feed may split lines and multi-byte sequences anywhere; deltas are emitted
// in arrival order, exactly once each.
type Parser struct {
	onDelta func(string)

	text    string
	carry   []byte // trailing bytes of an incomplete UTF-8 sequence
	done    bool
	flushed bool
}

func NewParser(onDelta func(string)) *Parser {
	return &Parser{onDelta: onDelta}
}

// Done reports whether the [DONE] sentinel was seen.
func (p *Parser) Done() bool {
	return p.done
}

// Feed decodes a chunk and processes every complete line in the buffer.
// A data line whose JSON does not yet parse is pushed back and deferred
// until more bytes arrive.
func (p *Parser) Feed(chunk []byte) {
	if p.flushed {
		return
	}

	data := chunk
	if len(p.carry) > 0 {
		data = append(p.carry, chunk...)
		p.carry = nil
	}

	complete, rest := splitIncompleteRune(data)
	p.carry = rest
	p.text += string(complete)
	p.process(false)
}

// Flush runs a final best-effort pass over buffered text at stream end.
// Unparseable residue is dropped.
func (p *Parser) Flush() {
	if p.flushed {
		return
	}
	p.flushed = true
	// decode whatever is held over, incomplete or not
	if len(p.carry) > 0 {
		p.text += string(p.carry)
		p.carry = nil
	}
	p.process(true)
	p.text = ""
}

func (p *Parser) process(final bool) {
	for {
		idx := strings.IndexByte(p.text, '\n')
		var line string
		if idx >= 0 {
			line = p.text[:idx]
			p.text = p.text[idx+1:]
		} else if final && p.text != "" {
			line = p.text
			p.text = ""
		} else {
			return
		}

		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			if payload, ok = strings.CutPrefix(line, "data:"); !ok {
				continue
			}
		}

		if payload == doneSentinel {
			p.done = true
			continue
		}

		var event chunkPayload
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			if final {
				continue
			}
			// line split across chunk boundaries; retry once more bytes arrive
			p.text = line + "\n" + p.text
			return
		}

		if len(event.Choices) > 0 {
			if content := event.Choices[0].Delta.Content; content != "" {
				p.onDelta(content)
			}
		}
	}
}

// splitIncompleteRune returns the longest prefix of b ending on a complete
// UTF-8 sequence, plus the held-over remainder.
func splitIncompleteRune(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			break
		}
		if c&0xC0 == 0xC0 { // start byte of a multi-byte sequence
			if !utf8.FullRune(b[i:]) {
				return b[:i], append([]byte(nil), b[i:]...)
			}
			break
		}
	}
	return b, nil
}
