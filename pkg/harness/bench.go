package harness

import (
	"bytes"
	"errors"
	"io"

	"github.com/oisee/i8080/pkg/cpu"
	"github.com/oisee/i8080/pkg/inst"
	"github.com/oisee/i8080/pkg/result"
)

// CP/M memory layout used by the bench.
const (
	ProgramBase uint16 = 0x0100 // .COM programs load and start here
	BDOSEntry   uint16 = 0x0005
	StackTop    uint16 = 0xF000

	portWarmBoot uint8 = 0x00
	portBDOS     uint8 = 0x01
)

// BDOS functions the bench understands.
const (
	bdosConsoleOut  = 2
	bdosPrintString = 9
)

// Bench runs a CP/M .COM program with just enough of the system around it
// for CPU diagnostics: a warm-boot stub at 0x0000 and a console BDOS at
// 0x0005. Both stubs are real 8080 code that trap to the host with OUT.
type Bench struct {
	State *cpu.State
	Echo  io.Writer // optional live copy of console output

	out     bytes.Buffer
	echoErr error
	done    bool
}

// NewBench loads image at 0x0100 and installs the system stubs.
func NewBench(image []byte) (*Bench, error) {
	if len(image) > int(StackTop-ProgramBase) {
		return nil, errors.New("program overlaps the bench stack")
	}
	s, err := cpu.New(image, ProgramBase, ProgramBase)
	if err != nil {
		return nil, err
	}

	// 0x0000: OUT 0 (warm boot)
	s.Memory.Set(0x0000, inst.OUT)
	s.Memory.Set(0x0001, portWarmBoot)
	// 0x0005: OUT 1; RET (BDOS)
	s.Memory.Set(BDOSEntry, inst.OUT)
	s.Memory.Set(BDOSEntry+1, portBDOS)
	s.Memory.Set(BDOSEntry+2, inst.RET)

	// Returning from the program lands on the warm-boot stub.
	s.SP = StackTop
	s.Push16(0x0000)

	return &Bench{State: s}, nil
}

// Input reads zero from every port.
func (b *Bench) Input(port uint8) uint8 {
	return 0
}

// Output services the warm-boot and BDOS traps.
func (b *Bench) Output(port uint8, value uint8) {
	switch port {
	case portWarmBoot:
		b.done = true
	case portBDOS:
		b.bdos()
	}
}

func (b *Bench) bdos() {
	s := b.State
	switch s.C {
	case bdosConsoleOut:
		b.write(s.E)
	case bdosPrintString:
		addr := s.DE()
		for n := 0; n < cpu.MemorySize; n++ {
			c := s.Memory.Get(addr)
			if c == '$' {
				break
			}
			b.write(c)
			addr++
		}
	}
}

func (b *Bench) write(c uint8) {
	b.out.WriteByte(c)
	if b.Echo != nil && b.echoErr == nil {
		if _, err := b.Echo.Write([]byte{c}); err != nil {
			b.echoErr = err
		}
	}
}

// EchoErr returns the first error writing to Echo. Echo stops after it;
// Console still holds the complete output.
func (b *Bench) EchoErr() error {
	return b.echoErr
}

// Console returns everything the program printed so far.
func (b *Bench) Console() string {
	return b.out.String()
}

// Done reports whether the program jumped to the warm-boot vector.
func (b *Bench) Done() bool {
	return b.done
}

// Run steps the program until it warm-boots, faults, or executes maxSteps
// instructions (0 means no limit).
func (b *Bench) Run(name string, maxSteps uint64) result.Report {
	rep := result.Report{Program: name}
	for !b.done && (maxSteps == 0 || rep.Steps < maxSteps) {
		if err := cpu.Step(b.State, b); err != nil {
			var f *cpu.Fault
			if errors.As(err, &f) {
				rep.Fault = result.FaultFrom(f)
			}
			break
		}
		rep.Steps++
	}
	rep.Finished = b.done
	rep.Output = b.Console()
	return rep
}
