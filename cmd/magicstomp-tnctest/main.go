// Command magicstomp-tnctest exercises a DeviceLink end to end against a
// real or loopback-wired Magicstomp: send a handful of tweaks, then
// request a full patch dump back and report whether it decoded cleanly.
// Adapted from the teacher's cmd/tnctest, which tested connected-mode
// AX.25 between two TNCs over a serial/TCP link; this keeps that
// "exercise the real wire, report pass/fail" shape but points it at
// DeviceLink's SysEx protocol instead of AX.25 frames.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/devicelink"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("magicstomp-tnctest", pflag.ContinueOnError)
	port := fs.StringP("midi-port", "m", "", "MIDI/serial port to exercise.")
	baud := fs.IntP("baud", "b", 31250, "Baud rate, if applicable to the transport.")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "--midi-port is required")
		return 1
	}

	transport, err := devicelink.OpenSerial(*port, *baud)
	if err != nil {
		return reportAndExit(err)
	}

	link, err := devicelink.Open(transport)
	if err != nil {
		return reportAndExit(err)
	}
	defer link.Close()

	fmt.Println("sending test tweaks...")
	for offset := 0; offset < 4; offset++ {
		if err := link.SendTweak(offset, byte(offset*10)); err != nil {
			return reportAndExit(err)
		}
	}
	time.Sleep(50 * time.Millisecond)

	fmt.Println("requesting patch dump...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	common, effect, err := link.RequestPatch(ctx)
	if err != nil {
		return reportAndExit(err)
	}

	fmt.Printf("received patch: effect_type=0x%02X effect_bytes=%d\n", common[0], len(effect))
	fmt.Println("PASS")
	return 0
}

func reportAndExit(err error) int {
	apperr.Report(err)
	return apperr.ExitCode(err)
}
