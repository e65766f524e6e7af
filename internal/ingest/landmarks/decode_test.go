package landmarks

import (
	"strings"
	"testing"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/pose"
	"github.com/vmihailenco/msgpack/v5"
)

// TestParseFormat verifies format names and content types.
func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{"application/json", JSON, false},
		{"msgpack", MsgPack, false},
		{"application/x-msgpack", MsgPack, false},
		{"text/csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

// TestDecodeJSON verifies a single object and an array both decode.
func TestDecodeJSON(t *testing.T) {
	single := `{"ts": 17, "joints": {"left_shoulder": {"x": 0.4, "y": 0.3}}}`
	got, err := Decode([]byte(single), JSON)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp != 17 {
		t.Fatalf("single = %+v", got)
	}
	if pt := got[0].Joints["left_shoulder"]; pt.X != 0.4 || pt.Y != 0.3 {
		t.Errorf("left_shoulder = %+v", pt)
	}

	batch := ` [{"ts": 1, "landmarks": [{"x": 1}]}, {"ts": 2, "landmarks": [{"x": 2}]}]`
	got, err = Decode([]byte(batch), JSON)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(got) != 2 || got[1].Timestamp != 2 || got[1].Landmarks[0].X != 2 {
		t.Errorf("batch = %+v", got)
	}

	if _, err := Decode([]byte("  "), JSON); err == nil {
		t.Error("expected error for empty payload")
	}
	if _, err := Decode([]byte("{"), JSON); err == nil {
		t.Error("expected error for truncated payload")
	}
}

// TestDecodeMsgPack verifies a single map and an array both decode.
func TestDecodeMsgPack(t *testing.T) {
	frame := models.FramePayload{
		Timestamp: 5,
		Width:     640,
		Height:    480,
		Joints:    map[string]pose.Point{"right_hip": {X: 0.5, Y: 0.6}},
	}
	data, err := msgpack.Marshal(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data, MsgPack)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(got) != 1 || got[0].Width != 640 || got[0].Joints["right_hip"].Y != 0.6 {
		t.Errorf("single = %+v", got)
	}

	data, err = msgpack.Marshal([]models.FramePayload{frame, frame, frame})
	if err != nil {
		t.Fatal(err)
	}
	got, err = Decode(data, MsgPack)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("batch length = %d, want 3", len(got))
	}
}

// TestScan verifies newline-delimited recordings, including blank lines and
// the line number on a bad record.
func TestScan(t *testing.T) {
	input := "{\"ts\":1,\"landmarks\":[]}\n\n{\"ts\":2,\"landmarks\":[]}\n"
	var seen []int64
	err := Scan(strings.NewReader(input), func(_ int, p models.FramePayload) error {
		seen = append(seen, p.Timestamp)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("timestamps = %v, want [1 2]", seen)
	}

	err = Scan(strings.NewReader("{\"ts\":1}\nnot json\n"), func(int, models.FramePayload) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want an error naming line 2", err)
	}
}
