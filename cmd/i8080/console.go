package main

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// quitKey (Ctrl-]) stops a run, since raw mode passes Ctrl-C to the program.
const quitKey = 0x1D

// console is a two-port serial device: reading the status port returns
// 0xFF when a key is waiting, the data port reads and writes characters.
// Every other port reads as zero.
type console struct {
	statusPort, dataPort uint8

	out     io.Writer
	outErr  error
	keys    chan byte
	pending int
	quit    atomic.Bool
	closed  atomic.Bool
	restore func() error
}

// newConsole attaches to in/out. A terminal on in is switched to raw mode
// until Close.
func newConsole(in *os.File, out io.Writer, statusPort, dataPort uint8) (*console, error) {
	c := &console{
		statusPort: statusPort,
		dataPort:   dataPort,
		out:        out,
		keys:       make(chan byte, 64),
		pending:    -1,
	}
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return nil, err
		}
		c.restore = func() error { return term.Restore(fd, old) }
	}
	go c.readLoop(in)
	return c, nil
}

// readLoop feeds keys from in until it fails or the console is closed.
// Keys typed while the buffer is full are dropped.
func (c *console) readLoop(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil || c.closed.Load() {
			return
		}
		if n == 0 {
			continue
		}
		if buf[0] == quitKey {
			c.quit.Store(true)
			continue
		}
		select {
		case c.keys <- buf[0]:
		default:
		}
	}
}

// poll moves a waiting key into pending without blocking.
func (c *console) poll() {
	if c.pending >= 0 {
		return
	}
	select {
	case k := <-c.keys:
		c.pending = int(k)
	default:
	}
}

func (c *console) Input(port uint8) uint8 {
	switch port {
	case c.statusPort:
		c.poll()
		if c.pending >= 0 {
			return 0xFF
		}
	case c.dataPort:
		c.poll()
		if c.pending >= 0 {
			k := uint8(c.pending)
			c.pending = -1
			return k
		}
	}
	return 0
}

func (c *console) Output(port uint8, value uint8) {
	if port == c.dataPort && c.outErr == nil {
		if _, err := c.out.Write([]byte{value}); err != nil {
			c.outErr = err
		}
	}
}

// Stopped reports whether the user pressed the quit key.
func (c *console) Stopped() bool {
	return c.quit.Load()
}

// Close restores the terminal mode and returns the first output error.
func (c *console) Close() error {
	c.closed.Store(true)
	if c.restore != nil {
		if err := c.restore(); err != nil {
			return err
		}
	}
	return c.outErr
}
