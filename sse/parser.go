package sse

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// doneSentinel is the out-of-band termination payload some producers send
// instead of a structured JSON object.
const doneSentinel = "[DONE]"

// ParserState carries the bytes received but not yet resolved into a
// complete event block. The zero value is ready to use; [ParseChunk]
// returns a successor state rather than mutating its argument, so a state
// value can be threaded through a loop or stored between callbacks.
//
// A ParserState must not be shared across concurrent ParseChunk calls;
// each stream owns exactly one, threaded linearly.
type ParserState struct {
	buf string
}

// NewParserState returns an empty parser state for the start of a stream.
func NewParserState() ParserState {
	return ParserState{}
}

// ParseChunk appends chunk to the buffered state and decodes every event
// block the combined buffer now completes, in stream order. The returned
// state holds the incomplete trailing block, if any.
//
// Blocks that decode to nothing (no data lines, malformed JSON, pure
// whitespace) are dropped without error. A non-nil error is returned only
// for an internal parser failure, in which case the input state is returned
// unchanged so the caller can decide whether to continue or abort.
func ParseChunk(chunk []byte, state ParserState) (events []Event, next ParserState, err error) {
	defer func() {
		if r := recover(); r != nil {
			events = nil
			next = state
			err = &ParseError{Cause: r}
		}
	}()

	buf := state.buf + string(chunk)
	blocks, rest := splitBlocks(buf)
	for _, block := range blocks {
		if ev, ok := decode(block); ok {
			events = append(events, Normalize(ev))
		}
	}
	return events, ParserState{buf: rest}, nil
}

// decode is an indirection over decodeBlock; tests swap it to fault-inject
// the decoding path.
var decode = decodeBlock

// Finalize decodes any complete-but-unterminated block left in the buffer
// when the transport signals end of stream. An unparseable tail is dropped;
// Finalize never fails.
func Finalize(state ParserState) []Event {
	if strings.TrimSpace(state.buf) == "" {
		return nil
	}
	ev, ok := decode(state.buf)
	if !ok {
		return nil
	}
	return []Event{Normalize(ev)}
}

// splitBlocks cuts buf at every blank-line separator. The text after the
// last separator is returned as rest; it may still grow into a block.
// Separator-only segments are discarded.
func splitBlocks(buf string) (blocks []string, rest string) {
	for {
		i, n := nextSeparator(buf)
		if i < 0 {
			return blocks, buf
		}
		segment := buf[:i]
		buf = buf[i+n:]
		if strings.TrimSpace(segment) != "" {
			blocks = append(blocks, segment)
		}
	}
}

// nextSeparator locates the first blank-line separator in s: a line break
// immediately followed by another. Producers mix "\n" and "\r\n" endings,
// so all four combinations count. Returns the index of the first byte of
// the separator and its length, or (-1, 0) when s holds no complete
// separator (a trailing partial separator stays in the buffer).
func nextSeparator(s string) (idx, length int) {
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		j := i + 1
		if j < len(s) && s[j] == '\r' {
			j++
		}
		if j < len(s) && s[j] == '\n' {
			return i, j - i + 1
		}
	}
	return -1, 0
}

// fieldSet is the result of field-parsing one event block.
type fieldSet struct {
	data  []string
	event string
	id    string
	retry int
	extra map[string]string
}

// parseBlock splits one event block into SSE fields.
//
// Lines are CRLF-tolerant regardless of which separator ended the block.
// Comment lines (leading ":") and lines without a colon are skipped. A
// single space after the colon is stripped from the value; the rest is
// verbatim. "data" accumulates in order; "event" and "id" are last write
// wins; a non-numeric or negative "retry" is ignored rather than failing
// the block. Unrecognized fields land in extra.
func parseBlock(block string) fieldSet {
	fs := fieldSet{retry: -1}
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			fs.data = append(fs.data, value)
		case "event":
			fs.event = value
		case "id":
			fs.id = value
		case "retry":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				fs.retry = n
			}
		default:
			if fs.extra == nil {
				fs.extra = make(map[string]string)
			}
			fs.extra[field] = value
		}
	}
	return fs
}

// decodeBlock turns one event block into an Event. A block with no data
// lines produces nothing, as does a payload that is neither the "[DONE]"
// sentinel nor valid JSON.
func decodeBlock(block string) (Event, bool) {
	fs := parseBlock(block)
	if len(fs.data) == 0 {
		return Event{}, false
	}

	ev := Event{
		ID:        fs.id,
		Type:      fs.event,
		Retry:     fs.retry,
		Extra:     fs.extra,
		Timestamp: time.Now(),
	}

	payload := strings.Join(fs.data, "\n")
	if payload == doneSentinel {
		ev.Done = true
		return ev, true
	}
	if !json.Valid([]byte(payload)) {
		return Event{}, false
	}
	ev.Data = json.RawMessage(payload)
	return ev, true
}
