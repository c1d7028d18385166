package devicelink

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/codec"
)

// openLoopback opens a pty pair: link is the DeviceLink's end of the
// wire, device is the other end, used by tests to stand in for the
// physical Magicstomp without any hardware.
func openLoopback(t *testing.T) (link ReplyTransport, device *os.File) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = master.Close(); _ = slave.Close() })
	return master, slave
}

func readWithTimeout(t *testing.T, f *os.File, buf []byte, timeout time.Duration) int {
	t.Helper()
	require.NoError(t, f.SetReadDeadline(time.Now().Add(timeout)))
	n, err := f.Read(buf)
	require.NoError(t, err, "expected to read a reply within %s", timeout)
	return n
}

func assertNoMoreData(t *testing.T, f *os.File, timeout time.Duration) {
	t.Helper()
	buf := make([]byte, 32)
	require.NoError(t, f.SetReadDeadline(time.Now().Add(timeout)))
	_, err := f.Read(buf)
	assert.Error(t, err, "expected no further data within %s", timeout)
}

// readPatchReply reads at least blockCount SysEx messages off device
// and decodes them as a bulk-dump reply.
func readPatchReply(t *testing.T, device *os.File, blockCount int) (common [codec.PatchCommonLength]byte, effect []byte, err error) {
	t.Helper()
	var blocks [][]byte
	buf := make([]byte, 256)
	for len(blocks) < blockCount {
		n := readWithTimeout(t, device, buf, time.Second)
		msgs, _ := codec.SplitMessages(buf[:n])
		blocks = append(blocks, msgs...)
	}
	return codec.DecodePatch(blocks)
}

func TestSendTweak_WritesWellFormedMessage(t *testing.T) {
	link, device := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	require.NoError(t, dl.SendTweak(9, 64))

	buf := make([]byte, 32)
	n := readWithTimeout(t, device, buf, time.Second)
	got := buf[:n]
	want, _ := codec.Tweak(9, 64)
	assert.Equal(t, want, got)
}

func TestSendTweak_CoalescesBurstsWithinWindow(t *testing.T) {
	link, device := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	// First write goes straight through (rate limiter starts idle).
	require.NoError(t, dl.SendTweak(9, 1))
	buf := make([]byte, 32)
	_ = readWithTimeout(t, device, buf, time.Second)

	// A burst to the same offset within the coalesce window should
	// collapse to a single flush carrying only the final value.
	for v := byte(2); v <= 10; v++ {
		require.NoError(t, dl.SendTweak(9, v))
	}

	n := readWithTimeout(t, device, buf, 200*time.Millisecond)
	got := buf[:n]
	want, _ := codec.Tweak(9, 10)
	assert.Equal(t, want, got)

	// No further coalesced flush should arrive afterward.
	assertNoMoreData(t, device, 30*time.Millisecond)
}

func TestSendPatch_WritesAllBlocks(t *testing.T) {
	link, device := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	var common [codec.PatchCommonLength]byte
	common[0] = 0x00
	blocks, err := codec.EncodePatch(common, nil)
	require.NoError(t, err)

	require.NoError(t, dl.SendPatch(blocks))

	gotCommon, gotEffect, err := readPatchReply(t, device, len(blocks))
	require.NoError(t, err)
	assert.Equal(t, common, gotCommon)
	assert.NotNil(t, gotEffect)
}

func TestRequestPatch_RoundTripsThroughDevice(t *testing.T) {
	link, device := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	var common [codec.PatchCommonLength]byte
	common[0] = 0x05
	common[16] = 'H'
	blocks, err := codec.EncodePatch(common, nil)
	require.NoError(t, err)

	go func() {
		// Emulate the device: drain the dump-request, then reply with
		// the patch's blocks.
		buf := make([]byte, 64)
		_ = readWithTimeout(t, device, buf, time.Second)
		for _, b := range blocks {
			_, _ = device.Write(b)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	gotCommon, _, err := dl.RequestPatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, common, gotCommon)
}

func TestRequestPatch_TimesOutWithoutReply(t *testing.T) {
	link, _ := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = dl.RequestPatch(ctx)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRequestTimeout, kind)
}

func TestSetOutputPortName_SwapsTransport(t *testing.T) {
	link, _ := openLoopback(t)
	dl, err := Open(link)
	require.NoError(t, err)
	defer dl.Close()

	link2, device2 := openLoopback(t)
	require.NoError(t, dl.SetOutputPortName(link2))

	require.NoError(t, dl.SendTweak(0, 5))
	buf := make([]byte, 32)
	n := readWithTimeout(t, device2, buf, time.Second)
	want, _ := codec.Tweak(0, 5)
	assert.Equal(t, want, buf[:n])
}
