package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/oisee/i8080/pkg/cpu"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		bits int
		want uint64
		ok   bool
	}{
		{"256", 16, 256, true},
		{"0x100", 16, 0x100, true},
		{"100h", 16, 0x100, true},
		{"FFH", 8, 0xFF, true},
		{" 0x10 ", 8, 0x10, true},
		{"0x10000", 16, 0, false},
		{"100h", 8, 0, false},
		{"", 16, 0, false},
		{"zz", 16, 0, false},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in, tt.bits)
		if (err == nil) != tt.ok {
			t.Errorf("parseNumber(%q, %d) err=%v, want ok=%v", tt.in, tt.bits, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseNumber(%q, %d) = %#x, want %#x", tt.in, tt.bits, got, tt.want)
		}
	}
}

func TestHexValue(t *testing.T) {
	h := newHexValue(0x100, 16)
	if h.String() != "0x0100" || h.Type() != "hex16" {
		t.Errorf("String=%q Type=%q", h.String(), h.Type())
	}
	if err := h.Set("0C00h"); err != nil {
		t.Fatal(err)
	}
	if h.u16() != 0x0C00 {
		t.Errorf("u16 = %04X", h.u16())
	}
	p := newHexValue(1, 8)
	if p.String() != "0x01" || p.u8() != 1 {
		t.Errorf("port String=%q", p.String())
	}
	if err := p.Set("0x100"); err == nil {
		t.Error("8-bit value accepted 0x100")
	}
}

func testConsole(out *bytes.Buffer, keys ...byte) *console {
	c := &console{
		statusPort: 0x00,
		dataPort:   0x01,
		out:        out,
		keys:       make(chan byte, len(keys)+1),
		pending:    -1,
	}
	for _, k := range keys {
		c.keys <- k
	}
	return c
}

func TestConsolePorts(t *testing.T) {
	var out bytes.Buffer
	c := testConsole(&out, 'x')
	if c.Input(0x00) != 0xFF {
		t.Error("status should report a waiting key")
	}
	if k := c.Input(0x01); k != 'x' {
		t.Errorf("data port read %02X", k)
	}
	if c.Input(0x00) != 0x00 || c.Input(0x01) != 0x00 {
		t.Error("console should be empty after the read")
	}
	if c.Input(0x42) != 0 {
		t.Error("unmapped port should read zero")
	}
	c.Output(0x01, 'A')
	c.Output(0x07, 'B')
	if out.String() != "A" {
		t.Errorf("output %q", out.String())
	}
}

// echo: poll status, read a key, write it back, halt via DAA.
var echoProgram = []byte{
	0xDB, 0x00, // 0000: IN 0
	0xFE, 0x00, // 0002: CPI 0
	0xCA, 0x00, 0x00, // 0004: JZ 0000
	0xDB, 0x01, // 0007: IN 1
	0xD3, 0x01, // 0009: OUT 1
	0x27, // 000B: DAA
}

func TestExecuteEcho(t *testing.T) {
	s, err := cpu.New(echoProgram, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	var out, log bytes.Buffer
	c := testConsole(&out, 'q')

	var steps uint64
	err = execute(s, c, &steps, 100, true, &log)
	var f *cpu.Fault
	if !errors.As(err, &f) || f.Opcode != 0x27 || f.PC != 0x000B {
		t.Fatalf("err = %v", err)
	}
	if out.String() != "q" {
		t.Errorf("echoed %q", out.String())
	}
	if steps != 5 {
		t.Errorf("steps = %d, want 5", steps)
	}
	if !bytes.Contains(log.Bytes(), []byte("0009  OUT $01")) {
		t.Errorf("trace missing OUT line:\n%s", log.String())
	}
}

func TestExecuteLimitAndQuit(t *testing.T) {
	s, err := cpu.New([]byte{0xC3, 0x00, 0x00}, 0, 0) // JMP 0000
	if err != nil {
		t.Fatal(err)
	}
	var out, log bytes.Buffer
	c := testConsole(&out)

	var steps uint64
	if err := execute(s, c, &steps, 50, false, &log); err != nil {
		t.Fatal(err)
	}
	if steps != 50 {
		t.Errorf("steps = %d, want 50", steps)
	}

	c.quit.Store(true)
	if err := execute(s, c, &steps, 0, false, &log); err != nil {
		t.Fatal(err)
	}
	if steps != 50 {
		t.Errorf("quit key should stop before stepping, steps = %d", steps)
	}
}

type failingWriter struct{ calls int }

var errClosedPipe = errors.New("closed pipe")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errClosedPipe
}

func TestConsoleOutputError(t *testing.T) {
	w := &failingWriter{}
	c := &console{dataPort: 0x01, out: w, keys: make(chan byte, 1), pending: -1}
	c.Output(0x01, 'A')
	c.Output(0x01, 'B')
	if w.calls != 1 {
		t.Errorf("writes after the first error: %d calls", w.calls)
	}
	if err := c.Close(); !errors.Is(err, errClosedPipe) {
		t.Errorf("Close = %v", err)
	}
}

// TestReadLoopDropsOverflow feeds more keys than the buffer holds; the
// loop must still reach EOF instead of blocking.
func TestReadLoopDropsOverflow(t *testing.T) {
	c := &console{keys: make(chan byte, 4), pending: -1}
	c.readLoop(strings.NewReader("abcdefgh\x1d"))
	if len(c.keys) != 4 {
		t.Errorf("buffered %d keys, want 4", len(c.keys))
	}
	if k := <-c.keys; k != 'a' {
		t.Errorf("first key %q, want 'a'", k)
	}
	if !c.Stopped() {
		t.Error("quit key after a full buffer was lost")
	}
}

func TestReadLoopStopsAfterClose(t *testing.T) {
	c := &console{out: &bytes.Buffer{}, keys: make(chan byte, 4), pending: -1}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	c.readLoop(strings.NewReader("xyz"))
	if len(c.keys) != 0 {
		t.Errorf("closed console buffered %d keys", len(c.keys))
	}
}
