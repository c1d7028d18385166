// Package codec implements byte-for-byte interoperability with the Yamaha
// Magicstomp SysEx dialect: message framing, the Yamaha 7-bit checksum,
// single-parameter live-tweak encoding, and bulk patch dump encode/decode.
//
// Wire format (spec.md §4.1/§6):
//
//	F0 43 7D 40 55 42 20 <section> <section_offset> <value> <chk> F7
//	chk = (-sum(bytes after F0, up to and including value)) & 0x7F
package codec

import (
	"fmt"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// Header is the fixed six-byte Magicstomp SysEx manufacturer/model prefix.
var Header = [6]byte{0xF0, 0x43, 0x7D, 0x40, 0x55, 0x42}

const (
	// ParamSendCmd frames a single-parameter live-tweak message.
	ParamSendCmd = 0x20
	// BulkDumpReplyCmd frames a block of a bulk patch dump sent by the
	// device in response to a DumpRequestCmd.
	BulkDumpReplyCmd = 0x30
	// DumpRequestCmd requests a bulk patch dump from the device. Per
	// spec.md's Open Question, the exact opcode the hardware expects has
	// not been directly observed in the retained reference material;
	// this is the value the host sends, and an implementer integrating
	// against real hardware should probe for the opcode the device
	// actually replies to with BulkDumpReplyCmd-framed blocks.
	DumpRequestCmd = 0x31

	// Footer terminates every SysEx message.
	Footer = 0xF7

	// PatchCommonLength is the fixed size of a patch's common section.
	PatchCommonLength = 32
	// PatchEffectMaxLength is the maximum size of a patch's effect section.
	PatchEffectMaxLength = 96
	// PatchTotalLength is the fixed total patch size (common + effect).
	PatchTotalLength = PatchCommonLength + PatchEffectMaxLength

	// blockPayloadLength is the device's native bulk-dump block size. The
	// exact framing was not directly observed (see DumpRequestCmd); 32
	// bytes keeps one block per patch "row" (matching the common
	// section's own length) and is small enough to be safely within any
	// real SysEx buffer limit.
	blockPayloadLength = 32

	nameOffset = 16
	nameLength = 12
)

// Checksum computes the Yamaha 7-bit checksum over the given bytes: the
// two's-complement negation of their sum, masked to 7 bits. The checksum
// byte is always itself included when verifying: summing every byte from
// after F0 through the checksum (but excluding F7) must be 0 mod 128.
func Checksum(bytes []byte) byte {
	var sum int
	for _, b := range bytes {
		sum += int(b)
	}
	return byte((-sum) & 0x7F)
}

// Tweak builds a single-parameter live-tweak SysEx message for the given
// absolute patch-byte offset (0..127) and 7-bit value.
func Tweak(offset int, value byte) ([]byte, error) {
	if offset < 0 || offset >= PatchTotalLength {
		return nil, apperr.Newf(apperr.KindShortMessage, "codec.Tweak", "offset %d out of range 0..%d", offset, PatchTotalLength-1)
	}
	section := 0
	sectionOffset := offset
	if offset >= PatchCommonLength {
		section = 1
		sectionOffset = offset - PatchCommonLength
	}
	v := value & 0x7F

	body := []byte{ParamSendCmd, byte(section), byte(sectionOffset), v}
	msg := make([]byte, 0, len(Header)+len(body)+2)
	msg = append(msg, Header[:]...)
	msg = append(msg, body...)
	chk := Checksum(msg[1:]) // every byte after the leading F0
	msg = append(msg, chk, Footer)
	return msg, nil
}

// BuildDumpRequest builds the outbound "send me a bulk dump" message. Per
// spec.md's Open Question on the exact opcode, this emits DumpRequestCmd;
// an implementer wiring up real hardware should confirm the device
// replies to it with BulkDumpReplyCmd-framed blocks and adjust here if not.
func BuildDumpRequest() []byte {
	msg := make([]byte, 0, len(Header)+2)
	msg = append(msg, Header[:]...)
	msg = append(msg, DumpRequestCmd)
	chk := Checksum(msg[1:])
	msg = append(msg, chk, Footer)
	return msg
}

// SplitMessages scans buf for complete F0..F7-delimited SysEx messages and
// returns them along with any trailing unterminated bytes (to be
// prepended to the next read). Used by DeviceLink's reply reader, which
// cannot assume reads are message-aligned.
func SplitMessages(buf []byte) (messages [][]byte, remainder []byte) {
	start := -1
	for i, b := range buf {
		switch b {
		case 0xF0:
			start = i
		case Footer:
			if start >= 0 {
				msg := make([]byte, i-start+1)
				copy(msg, buf[start:i+1])
				messages = append(messages, msg)
				start = -1
			}
		}
	}
	if start >= 0 {
		remainder = append([]byte(nil), buf[start:]...)
	}
	return messages, remainder
}

// DecodeTweak is the inverse of Tweak: it parses a single-parameter
// live-tweak message and returns the absolute patch offset and value.
func DecodeTweak(msg []byte) (offset int, value byte, err error) {
	const minLen = 6 + 4 + 2 // header + body + chk + footer
	if len(msg) < minLen {
		return 0, 0, apperr.Newf(apperr.KindShortMessage, "codec.DecodeTweak", "message length %d shorter than %d", len(msg), minLen)
	}
	if [6]byte(msg[0:6]) != Header {
		return 0, 0, apperr.Newf(apperr.KindBadHeader, "codec.DecodeTweak", "header mismatch: % X", msg[0:6])
	}
	if msg[6] != ParamSendCmd {
		return 0, 0, apperr.Newf(apperr.KindUnknownCommand, "codec.DecodeTweak", "command 0x%02X is not PARAM_SEND", msg[6])
	}
	if msg[len(msg)-1] != Footer {
		return 0, 0, apperr.Newf(apperr.KindBadHeader, "codec.DecodeTweak", "missing F7 footer")
	}
	body := msg[1 : len(msg)-2]
	want := Checksum(body)
	got := msg[len(msg)-2]
	if want != got {
		return 0, 0, apperr.Newf(apperr.KindChecksumMismatch, "codec.DecodeTweak", "checksum 0x%02X want 0x%02X", got, want)
	}
	section := int(msg[7])
	sectionOffset := int(msg[8])
	value = msg[9] & 0x7F
	offset = sectionOffset
	if section == 1 {
		offset += PatchCommonLength
	}
	return offset, value, nil
}

// EncodePatch frames a 128-byte patch (common ++ effect) as a sequence of
// bulk-dump blocks, each independently checksummed and footed, mirroring
// the device's native dump framing (spec.md §4.1/§6). Round-tripping the
// result through DecodePatch reproduces the original bytes exactly.
func EncodePatch(common [PatchCommonLength]byte, effect []byte) ([][]byte, error) {
	if len(effect) > PatchEffectMaxLength {
		return nil, apperr.Newf(apperr.KindTruncatedBlock, "codec.EncodePatch", "effect section length %d exceeds max %d", len(effect), PatchEffectMaxLength)
	}
	payload := make([]byte, 0, PatchTotalLength)
	payload = append(payload, common[:]...)
	payload = append(payload, effect...)
	for len(payload) < PatchTotalLength {
		payload = append(payload, 0)
	}

	var blocks [][]byte
	for off := 0; off < len(payload); off += blockPayloadLength {
		end := off + blockPayloadLength
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]

		msg := make([]byte, 0, len(Header)+2+len(chunk)+2)
		msg = append(msg, Header[:]...)
		msg = append(msg, BulkDumpReplyCmd, byte(off/blockPayloadLength))
		msg = append(msg, chunk...)
		chk := Checksum(msg[1:])
		msg = append(msg, chk, Footer)
		blocks = append(blocks, msg)
	}
	return blocks, nil
}

// DecodePatch is the inverse of EncodePatch: it validates and reassembles
// a sequence of bulk-dump blocks into the 128-byte patch payload, split
// back into its common and effect sections. Any block whose computed
// checksum mismatches the transmitted one is rejected with
// apperr.KindChecksumMismatch; a block too short to contain a full frame
// is rejected with apperr.KindTruncatedBlock.
func DecodePatch(blocks [][]byte) (common [PatchCommonLength]byte, effect []byte, err error) {
	const frameOverhead = 6 + 2 + 2 // header + cmd/index + chk/footer
	payload := make([]byte, 0, PatchTotalLength)

	for i, msg := range blocks {
		if len(msg) < frameOverhead {
			return common, nil, apperr.Newf(apperr.KindTruncatedBlock, "codec.DecodePatch", "block %d length %d shorter than %d", i, len(msg), frameOverhead)
		}
		if [6]byte(msg[0:6]) != Header {
			return common, nil, apperr.Newf(apperr.KindBadHeader, "codec.DecodePatch", "block %d header mismatch", i)
		}
		if msg[6] != BulkDumpReplyCmd {
			return common, nil, apperr.Newf(apperr.KindUnknownCommand, "codec.DecodePatch", "block %d command 0x%02X is not BULK_DUMP_REPLY", i, msg[6])
		}
		if msg[len(msg)-1] != Footer {
			return common, nil, apperr.Newf(apperr.KindBadHeader, "codec.DecodePatch", "block %d missing F7 footer", i)
		}
		body := msg[1 : len(msg)-2]
		want := Checksum(body)
		got := msg[len(msg)-2]
		if want != got {
			return common, nil, apperr.Newf(apperr.KindChecksumMismatch, "codec.DecodePatch", "block %d checksum 0x%02X want 0x%02X", i, got, want)
		}
		chunk := msg[8 : len(msg)-2]
		payload = append(payload, chunk...)
	}

	if len(payload) < PatchTotalLength {
		return common, nil, apperr.Newf(apperr.KindTruncatedBlock, "codec.DecodePatch", "reassembled payload length %d shorter than %d", len(payload), PatchTotalLength)
	}
	copy(common[:], payload[:PatchCommonLength])
	effect = append([]byte(nil), payload[PatchCommonLength:PatchTotalLength]...)
	return common, effect, nil
}

// ExtractName reads the 12-byte ASCII patch name at common[16:28],
// stripping anything outside 0x20..0x7E and trailing whitespace/NULs. An
// empty result yields the fallback "Magicstomp Patch" name.
func ExtractName(common []byte) (string, error) {
	if len(common) < nameOffset+nameLength {
		return "", apperr.Newf(apperr.KindShortMessage, "codec.ExtractName", "common section length %d shorter than %d", len(common), nameOffset+nameLength)
	}
	raw := common[nameOffset : nameOffset+nameLength]
	buf := make([]byte, 0, nameLength)
	for _, b := range raw {
		if b >= 0x20 && b <= 0x7E {
			buf = append(buf, b)
		}
	}
	name := string(buf)
	// Trim trailing whitespace (the padding convention) but keep
	// interior spaces.
	for len(name) > 0 && name[len(name)-1] == ' ' {
		name = name[:len(name)-1]
	}
	if name == "" {
		return "Magicstomp Patch", nil
	}
	return name, nil
}

// EncodeName writes name into a 12-byte common-section name field,
// truncating to nameLength ASCII bytes and right-padding with 0x20, the
// inverse of ExtractName.
func EncodeName(name string) [nameLength]byte {
	var out [nameLength]byte
	for i := range out {
		out[i] = 0x20
	}
	n := 0
	for i := 0; i < len(name) && n < nameLength; i++ {
		b := name[i]
		if b < 0x20 || b > 0x7E {
			continue
		}
		out[n] = b
		n++
	}
	return out
}

// VerifyChecksum is a convenience used by property tests: it recomputes
// the checksum over msg's body (everything after F0, excluding the
// trailing checksum byte and F7) and reports whether it matches.
func VerifyChecksum(msg []byte) error {
	if len(msg) < 3 {
		return apperr.Newf(apperr.KindShortMessage, "codec.VerifyChecksum", "message too short: %d bytes", len(msg))
	}
	body := msg[1 : len(msg)-2]
	want := Checksum(body)
	got := msg[len(msg)-2]
	if want != got {
		return apperr.Newf(apperr.KindChecksumMismatch, "codec.VerifyChecksum", "checksum 0x%02X want 0x%02X", got, want)
	}
	return nil
}

func init() {
	// Sanity constant relationship asserted at package load: a bulk dump
	// of a full-length patch must divide evenly enough that DecodePatch's
	// reassembly never needs partial trailing blocks beyond padding.
	if PatchTotalLength%blockPayloadLength != 0 {
		panic(fmt.Sprintf("codec: PatchTotalLength %d not a multiple of blockPayloadLength %d", PatchTotalLength, blockPayloadLength))
	}
}
