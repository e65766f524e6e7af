// Package landmarks decodes landmark frames from the pose estimator and feeds
// them to the current session.
package landmarks

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/claude/presscoach/internal/models"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Format is a wire encoding for frame payloads.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat accepts a format name or a Content-Type header value. An empty
// string means JSON.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json", "application/json":
		return JSON, nil
	case "msgpack", "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return MsgPack, nil
	}
	return "", fmt.Errorf("unsupported frame format %q", s)
}

// Decode reads one payload or an array of payloads.
func Decode(data []byte, format Format) ([]models.FramePayload, error) {
	switch format {
	case JSON:
		return decodeJSON(data)
	case MsgPack:
		return decodeMsgPack(data)
	}
	return nil, fmt.Errorf("unsupported frame format %q", format)
}

func decodeJSON(data []byte) ([]models.FramePayload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if trimmed[0] == '[' {
		var batch []models.FramePayload
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decoding frame batch: %w", err)
		}
		return batch, nil
	}
	var p models.FramePayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return []models.FramePayload{p}, nil
}

func decodeMsgPack(data []byte) ([]models.FramePayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	code, err := dec.PeekCode()
	if err != nil {
		return nil, fmt.Errorf("reading msgpack header: %w", err)
	}
	if msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32 {
		var batch []models.FramePayload
		if err := dec.Decode(&batch); err != nil {
			return nil, fmt.Errorf("decoding frame batch: %w", err)
		}
		return batch, nil
	}
	var p models.FramePayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return []models.FramePayload{p}, nil
}

// maxLineSize bounds one line of a recording; a full 33-point landmark list
// fits many times over.
const maxLineSize = 1 << 20

// Scan reads newline-delimited JSON payloads, calling fn for each. Blank lines
// are skipped. Scanning stops at the first error from fn.
func Scan(r io.Reader, fn func(line int, p models.FramePayload) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var p models.FramePayload
		if err := json.Unmarshal(text, &p); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(line, p); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading frames: %w", err)
	}
	return nil
}
