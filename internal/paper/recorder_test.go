package paper

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLRecorderWritesFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fills", "out.jsonl")
	rec, err := NewJSONLRecorder(path)
	if err != nil {
		t.Fatalf("NewJSONLRecorder returned error: %v", err)
	}

	rec.Record(Fill{Symbol: "BTCUSDT", Side: "BUY", Price: 101, Qty: 1, Equity: 0, Ts: time.UnixMilli(1700000000000)})
	rec.Record(Fill{Symbol: "BTCUSDT", Side: "SELL", Price: 98, Qty: 1, Equity: -3, Ts: time.UnixMilli(1700000001000)})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fills file: %v", err)
	}
	defer file.Close()

	var fills []Fill
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var f Fill
		if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
			t.Fatalf("bad JSONL line: %v", err)
		}
		fills = append(fills, f)
	}
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if fills[0].Side != "BUY" || fills[1].Side != "SELL" {
		t.Fatalf("unexpected fill sides: %+v", fills)
	}
	if fills[1].Equity != -3 {
		t.Fatalf("expected equity -3 on sell, got %v", fills[1].Equity)
	}
}

func TestJSONLRecorderCloseIdempotent(t *testing.T) {
	rec, err := NewJSONLRecorder(filepath.Join(t.TempDir(), "out.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLRecorder returned error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
