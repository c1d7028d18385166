// Command magicstomp is the single entry point for every Magicstomp
// tone-match verb: list-devices, calibrate, send-patch, and optimize
// (spec.md §6), dispatched the way the teacher's cmd/direwolf/main.go
// dispatches its own single flat flag set, generalized to a verb-first
// argument.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/applog"
	"github.com/wboxxx/magicstomp-autotune/internal/audioengine"
	"github.com/wboxxx/magicstomp-autotune/internal/codec"
	"github.com/wboxxx/magicstomp-autotune/internal/conductor"
	"github.com/wboxxx/magicstomp-autotune/internal/config"
	"github.com/wboxxx/magicstomp-autotune/internal/devicelink"
	"github.com/wboxxx/magicstomp-autotune/internal/optimizer"
	"github.com/wboxxx/magicstomp-autotune/internal/patch"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: magicstomp <list-devices|calibrate|send-patch|optimize> [flags]")
		return 1
	}
	verb, rest := args[0], args[1:]

	flags, err := config.Parse(rest)
	if err != nil {
		return reportAndExit(err)
	}
	applog.Configure(levelFromString(flags.LogLevel), os.Stderr)
	if flags.Help {
		fmt.Fprintln(os.Stderr, "See --help on any verb for its flags.")
		return 0
	}

	switch verb {
	case "list-devices":
		return cmdListDevices(flags)
	case "calibrate":
		return cmdCalibrate(flags)
	case "send-patch":
		return cmdSendPatch(flags)
	case "optimize":
		return cmdOptimize(flags)
	default:
		fmt.Fprintf(os.Stderr, "unknown verb %q\n", verb)
		return 1
	}
}

func cmdListDevices(flags config.Flags) int {
	if err := portaudio.Initialize(); err != nil {
		return reportAndExit(apperr.Newf(apperr.KindConfigureFailed, "cmd.list-devices", "portaudio init: %v", err))
	}
	defer portaudio.Terminate()

	devices, err := audioengine.ListDevices(flags.Via)
	if err != nil {
		return reportAndExit(err)
	}
	for _, d := range devices {
		fmt.Printf("[%d] %-32s in=%d out=%d rate=%.0f via=%s\n", d.Index, d.Name, d.MaxInputs, d.MaxOutputs, d.DefaultSampleRate, d.Via)
	}
	return 0
}

func cmdCalibrate(flags config.Flags) int {
	if err := portaudio.Initialize(); err != nil {
		return reportAndExit(apperr.Newf(apperr.KindConfigureFailed, "cmd.calibrate", "portaudio init: %v", err))
	}
	defer portaudio.Terminate()

	engine := audioengine.New(flags.SampleRate, flags.Channels)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := engine.Calibrate(ctx)
	if err != nil {
		return reportAndExit(err)
	}

	existing, err := config.LoadProfile(flags.ProfilePath)
	if err != nil {
		return reportAndExit(err)
	}
	existing.Interfaces[flags.MIDIPort] = profile
	if err := config.SaveProfile(flags.ProfilePath, existing); err != nil {
		return reportAndExit(err)
	}

	fmt.Printf("calibrated: latency=%d samples gain=%.3f\n", profile.LatencySamples, profile.GainCompensation)
	return 0
}

func cmdSendPatch(flags config.Flags) int {
	if flags.PatchFile == "" {
		return reportAndExitSendPatch(apperr.Newf(apperr.KindConfigureFailed, "cmd.send-patch", "--patch-file is required"))
	}
	link, err := openDeviceLink(flags)
	if err != nil {
		return reportAndExitSendPatch(err)
	}
	defer link.Close()

	data, err := os.ReadFile(flags.PatchFile)
	if err != nil {
		return reportAndExitSendPatch(apperr.Newf(apperr.KindConfigureFailed, "cmd.send-patch", "read %s: %v", flags.PatchFile, err))
	}

	blocks, err := splitSyxBlocks(data)
	if err != nil {
		return reportAndExitSendPatch(err)
	}
	if err := link.SendPatch(blocks); err != nil {
		return reportAndExitSendPatch(err)
	}
	fmt.Println("patch sent")
	return 0
}

// reportAndExitSendPatch reports err and maps it to send-patch's own exit
// code scheme (spec.md §6: 0 ok, 4 bad patch, 5 device), which differs
// from apperr.ExitCode's general-purpose table used by the other verbs.
func reportAndExitSendPatch(err error) int {
	apperr.Report(err)
	if err == nil {
		return 0
	}
	kind, ok := apperr.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case apperr.KindChecksumMismatch, apperr.KindBadHeader, apperr.KindTruncatedBlock,
		apperr.KindShortMessage, apperr.KindUnknownCommand:
		return 4
	case apperr.KindPortOpen, apperr.KindRequestTimeout, apperr.KindBusy,
		apperr.KindConfigureFailed, apperr.KindAudioTimeout:
		return 5
	default:
		return apperr.ExitCode(err)
	}
}

func cmdOptimize(flags config.Flags) int {
	if flags.PatchFile == "" || flags.TargetAudioFile == "" || flags.DIAudioFile == "" {
		return reportAndExit(apperr.Newf(apperr.KindConfigureFailed, "cmd.optimize", "--patch-file, --target-audio, and --di-audio are all required"))
	}

	if err := portaudio.Initialize(); err != nil {
		return reportAndExit(apperr.Newf(apperr.KindConfigureFailed, "cmd.optimize", "portaudio init: %v", err))
	}
	defer portaudio.Terminate()

	link, err := openDeviceLink(flags)
	if err != nil {
		return reportAndExit(err)
	}
	defer link.Close()

	engine := audioengine.New(flags.SampleRate, flags.Channels)

	p, err := loadPatchFile(flags.PatchFile)
	if err != nil {
		return reportAndExit(err)
	}

	target, targetRate, err := audioengine.LoadWAV(flags.TargetAudioFile)
	if err != nil {
		return reportAndExit(err)
	}
	di, _, err := audioengine.LoadWAV(flags.DIAudioFile)
	if err != nil {
		return reportAndExit(err)
	}

	session := conductor.New()
	if err := session.ConfigureDevices(link, engine); err != nil {
		return reportAndExit(err)
	}

	profiles, err := config.LoadProfile(flags.ProfilePath)
	if err != nil {
		return reportAndExit(err)
	}
	var calib audioengine.CalibrationProfile
	if saved, ok := profiles.Interfaces[flags.MIDIPort]; ok {
		calib = saved
		if err := session.AdoptCalibration(calib); err != nil {
			return reportAndExit(err)
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		calib, err = session.Calibrate(ctx)
		cancel()
		if err != nil {
			return reportAndExit(err)
		}
	}

	if err := session.LoadAudio(target, di, float64(targetRate)); err != nil {
		return reportAndExit(err)
	}
	if err := session.LoadPatch(p, parameterBounds(p)); err != nil {
		return reportAndExit(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(flags.MaxIterations)*10*time.Second)
	defer cancel()
	report, err := session.Optimize(ctx, flags.MaxIterations, flags.MinImprovement)
	if err != nil {
		return reportAndExit(err)
	}

	now := time.Now()
	sessionReport := conductor.SessionReport{
		CreatedAt:  now.UTC().Format(time.RFC3339),
		EffectType: p.EffectTypeName(),
		FinalState: session.State().String(),
		Calibration: struct {
			LatencySamples   int     `json:"latency_samples"`
			GainCompensation float64 `json:"gain_compensation"`
		}{calib.LatencySamples, calib.GainCompensation},
		Optimization: &report,
	}
	path, err := conductor.WriteSessionReport(flags.ReportDir, now, sessionReport)
	if err != nil {
		return reportAndExit(err)
	}

	fmt.Printf("optimize complete: iterations=%d final_loss=%.6f report=%s\n", report.Iterations, report.FinalLoss, path)
	return 0
}

func loadPatchFile(path string) (*patch.Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "cmd.loadPatchFile", "read %s: %v", path, err)
	}
	blocks, err := splitSyxBlocks(data)
	if err != nil {
		return nil, err
	}
	common, effect, err := codec.DecodePatch(blocks)
	if err != nil {
		return nil, err
	}
	return patch.FromBytes(common, effect), nil
}

// parameterBounds builds an optimizer.Space seed from every schema
// parameter the patch's effect type declares, using the schema's own
// Min/Max/Step as the search bounds (spec.md §4.6).
func parameterBounds(p *patch.Patch) map[string]optimizer.Bounds {
	bounds := map[string]optimizer.Bounds{}
	for _, key := range p.ParameterKeys() {
		param, ok := p.ParameterDescriptor(key)
		if !ok {
			continue
		}
		current, _ := p.Get(key)
		bounds[key] = optimizer.Bounds{Min: param.Min, Max: param.Max, Step: param.Step, Current: current}
	}
	return bounds
}

func openDeviceLink(flags config.Flags) (*devicelink.DeviceLink, error) {
	if flags.MIDIPort == "" {
		return nil, apperr.Newf(apperr.KindPortOpen, "cmd.openDeviceLink", "no MIDI port specified (--midi-port or MAGICSTOMP_MIDI_PORT)")
	}
	t, err := devicelink.OpenSerial(flags.MIDIPort, 31250)
	if err != nil {
		return nil, err
	}
	return devicelink.Open(t)
}

func reportAndExit(err error) int {
	apperr.Report(err)
	return apperr.ExitCode(err)
}

func levelFromString(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// splitSyxBlocks splits a raw .syx dump file into individual SysEx
// messages for SendPatch.
func splitSyxBlocks(data []byte) ([][]byte, error) {
	blocks, remainder := codec.SplitMessages(data)
	if len(blocks) == 0 || len(remainder) > 0 {
		return nil, apperr.Newf(apperr.KindShortMessage, "cmd.splitSyxBlocks", "file does not contain only complete SysEx messages")
	}
	return blocks, nil
}
