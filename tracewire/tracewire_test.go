package tracewire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWritePacketFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePacket(&buf, PanicPacket{Message: "hi"}); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}

	b := buf.Bytes()
	want := []byte{SyncByte, byte(TypePanicPacket), 2, 0, 'h', 'i'}
	if !bytes.Equal(b[:len(want)], want) {
		t.Errorf("frame header = % x, want % x", b[:len(want)], want)
	}
	if len(b) != len(want)+4 {
		t.Errorf("frame is %d bytes, want %d", len(b), len(want)+4)
	}
}

func TestReadPacket(t *testing.T) {
	tests := []struct {
		name    string
		prefix  []byte
		message string
	}{
		{"plain", nil, "panicked at index out of range"},
		{"empty", nil, ""},
		{"noise", []byte{0x00, 0xFF, 0x13, 0x37}, "clock fault"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write(test.prefix)
			if err := WritePacket(&buf, PanicPacket{Message: test.message}); err != nil {
				t.Fatalf("WritePacket failed: %v", err)
			}

			p, err := ReadPacket(bufio.NewReader(&buf))
			if err != nil {
				t.Fatalf("ReadPacket failed: %v", err)
			}

			pp, ok := p.(PanicPacket)
			if !ok {
				t.Fatalf("got %T, want PanicPacket", p)
			}
			if pp.Message != test.message {
				t.Errorf("message = %q, want %q", pp.Message, test.message)
			}
		})
	}
}

func panicFrame(t *testing.T, msg string) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := WritePacket(&buf, PanicPacket{Message: msg}); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}
	return buf.Bytes()
}

func TestReadPacketResync(t *testing.T) {
	tests := []struct {
		name  string
		noise []byte
	}{
		{"stray sync", []byte{SyncByte}},
		{"stray sync after noise", []byte{0x00, 0x42, SyncByte}},
		{"two stray syncs", []byte{SyncByte, SyncByte}},
		{"unknown type", []byte{SyncByte, 0x7F, 0x02, 0x00}},
		{"oversized length", []byte{SyncByte, byte(TypePanicPacket), 0x01, 0x09}},
		{"short bogus length", []byte{SyncByte, byte(TypePanicPacket), 0x05, 0x00}},
		{"long bogus length", []byte{SyncByte, byte(TypePanicPacket), 0xC8, 0x00}},
		{"truncated frame", panicFrame(t, "lost")[:6]},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stream := append(append([]byte{}, test.noise...), panicFrame(t, "bad clock")...)

			p, err := ReadPacket(bufio.NewReader(bytes.NewReader(stream)))
			if err != nil {
				t.Fatalf("ReadPacket failed: %v", err)
			}
			if msg := p.(PanicPacket).Message; msg != "bad clock" {
				t.Errorf("message = %q, want %q", msg, "bad clock")
			}
		})
	}
}

func TestReadPacketCorrupt(t *testing.T) {
	frame := panicFrame(t, "boom")
	frame[5] ^= 0x01 // flip a bit in the message

	_, err := ReadPacket(bufio.NewReader(bytes.NewReader(frame)))
	if !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket error = %v, want io.EOF", err)
	}
}

func TestReadPacketPartial(t *testing.T) {
	frame := panicFrame(t, "slow line")

	var stream bytes.Buffer
	stream.Write(frame[:7])
	r := bufio.NewReader(&stream)

	if _, err := ReadPacket(r); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadPacket on a partial frame: error = %v, want io.EOF", err)
	}

	stream.Write(frame[7:])

	p, err := ReadPacket(r)
	if err != nil {
		t.Fatalf("ReadPacket after the rest arrived failed: %v", err)
	}
	if msg := p.(PanicPacket).Message; msg != "slow line" {
		t.Errorf("message = %q, want %q", msg, "slow line")
	}
}

func TestWritePacketTruncates(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("a", MaxMessageLen+10)
	if err := (PacketTracer{W: &buf}).Trace(long); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	p, err := ReadPacket(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if got := len(p.(PanicPacket).Message); got != MaxMessageLen {
		t.Errorf("message length = %d, want %d", got, MaxMessageLen)
	}
}

func TestWritePacketTruncatesOnRune(t *testing.T) {
	var buf bytes.Buffer
	long := "x" + strings.Repeat("é", MaxMessageLen)
	if err := WritePacket(&buf, PanicPacket{Message: long}); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}

	p, err := ReadPacket(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}

	msg := p.(PanicPacket).Message
	if !utf8.ValidString(msg) {
		t.Errorf("message is not valid UTF-8: %q", msg)
	}
	if len(msg) != MaxMessageLen-1 {
		t.Errorf("message length = %d, want %d", len(msg), MaxMessageLen-1)
	}
}

func TestPacketTypeString(t *testing.T) {
	if s := TypePanicPacket.String(); s != "panic" {
		t.Errorf("TypePanicPacket.String() = %q", s)
	}
	if s := PacketType(9).String(); s != "PacketType(9)" {
		t.Errorf("PacketType(9).String() = %q", s)
	}
}
