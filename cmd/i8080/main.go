package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oisee/i8080/pkg/cpu"
	"github.com/oisee/i8080/pkg/harness"
	"github.com/oisee/i8080/pkg/inst"
	"github.com/oisee/i8080/pkg/result"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "i8080",
		Short:        "Intel 8080 interpreter and CP/M diagnostic bench",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newCPMCmd(), newInspectCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run command
func newRunCmd() *cobra.Command {
	base := newHexValue(0, 16)
	entry := newHexValue(0, 16)
	statusPort := newHexValue(0x00, 8)
	dataPort := newHexValue(0x01, 8)
	var maxSteps uint64
	var trace bool
	var checkpoint string
	var resume string

	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a raw program image and execute it with a console device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *cpu.State
			var steps uint64
			var program string

			switch {
			case resume != "":
				ckpt, err := result.LoadCheckpoint(resume)
				if err != nil {
					return fmt.Errorf("failed to resume: %w", err)
				}
				s, steps, program = &ckpt.State, ckpt.Steps, ckpt.Program
			case len(args) == 1:
				image, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				start := base.u16()
				if cmd.Flags().Changed("entry") {
					start = entry.u16()
				}
				s, err = cpu.New(image, base.u16(), start)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", args[0], err)
				}
				program = args[0]
			default:
				return errors.New("need an image or --resume")
			}

			con, err := newConsole(os.Stdin, os.Stdout, statusPort.u8(), dataPort.u8())
			if err != nil {
				return err
			}
			runErr := execute(s, con, &steps, maxSteps, trace, os.Stderr)
			if err := con.Close(); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "\r\n%d steps, PC=%04X\r\n", steps, s.PC)
			if checkpoint != "" {
				if err := result.SaveCheckpoint(checkpoint, &result.Checkpoint{
					Program: program,
					Steps:   steps,
					State:   *s,
				}); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Checkpoint written to %s\r\n", checkpoint)
			}
			return runErr
		},
	}
	cmd.Flags().Var(base, "base", "Load address of the image")
	cmd.Flags().Var(entry, "entry", "Entry point (defaults to --base)")
	cmd.Flags().Var(statusPort, "console-status", "Console status port")
	cmd.Flags().Var(dataPort, "console-data", "Console data port")
	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "Stop after this many instructions (0 = no limit)")
	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "Print every instruction before it executes")
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "Write machine state here when the run stops")
	cmd.Flags().StringVar(&resume, "resume", "", "Resume from a checkpoint instead of loading an image")
	return cmd
}

// execute steps s until a fault, the step limit, or the console quit key.
func execute(s *cpu.State, con *console, steps *uint64, maxSteps uint64, trace bool, log io.Writer) error {
	for n := uint64(0); maxSteps == 0 || n < maxSteps; n++ {
		if con.Stopped() {
			return nil
		}
		if trace {
			fmt.Fprintf(log, "%04X  %-16s %s\r\n",
				s.PC, inst.Disassemble(inst.Decode(s.Memory[:], s.PC)), s.Snapshot())
		}
		if err := cpu.Step(s, con); err != nil {
			var f *cpu.Fault
			if errors.As(err, &f) {
				fmt.Fprintf(log, "\r\nError: %v\r\n%s\r\n", f, f.Snapshot)
			}
			return err
		}
		*steps++
	}
	return nil
}

// cpm command
func newCPMCmd() *cobra.Command {
	var numWorkers int
	var maxSteps uint64
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "cpm [program.com...]",
		Short: "Run CP/M diagnostic programs in parallel and report the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := harness.LoadTasks(args)
			if err != nil {
				return err
			}
			cfg := harness.Config{
				NumWorkers: numWorkers,
				MaxSteps:   maxSteps,
				Verbose:    verbose,
			}

			table := harness.Run(cfg, tasks)
			reports := table.Reports()

			failed := 0
			for _, r := range reports {
				status := "PASS"
				switch {
				case r.Fault != nil:
					status = "FAULT"
				case !r.Finished:
					status = "LIMIT"
				}
				if !r.Passed() {
					failed++
				}
				fmt.Printf("%-5s %s (%d steps)\n", status, r.Program, r.Steps)
				if verbose && r.Output != "" {
					fmt.Printf("%s\n", r.Output)
				}
				if r.Fault != nil {
					fmt.Printf("      %s at %04X: %s\n", r.Fault.Mnemonic, r.Fault.PC, r.Fault.Snapshot)
				}
			}

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := result.WriteJSON(f, reports); err != nil {
					return err
				}
				fmt.Printf("Written to %s\n", output)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d programs did not finish cleanly", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "Instruction limit per program (0 = default)")
	cmd.Flags().StringVar(&output, "output", "", "Output JSON report path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	return cmd
}

// inspect command
func newInspectCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "inspect [checkpoint]",
		Short: "Show the registers of a checkpoint and the code at its PC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ckpt, err := result.LoadCheckpoint(args[0])
			if err != nil {
				return err
			}
			s := &ckpt.State
			fmt.Printf("Program: %s\nSteps:   %d\n%s\n\n", ckpt.Program, ckpt.Steps, s.Snapshot())

			addr := s.PC
			for i := 0; i < count; i++ {
				in := inst.Decode(s.Memory[:], addr)
				marker := "  "
				if !inst.Supported(in.Op) {
					marker = "! "
				}
				fmt.Printf("%s%04X  %s\n", marker, addr, inst.Disassemble(in))
				addr += uint16(inst.Size(in.Op))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 8, "Number of instructions to disassemble")
	return cmd
}
