// Package tracewire implements the trace channel protocol spoken by the
// firmware's fault path.
//
// Each packet is framed as:
//
//	sync (0xA5) | type u8 | length u16 | message | crc32 u32
//
// The checksum is the IEEE CRC-32 over the type, length and message.
package tracewire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// SyncByte starts every packet.
const SyncByte = 0xA5

// MaxMessageLen is the maximum message length carried by a packet. Longer
// messages are truncated when written and rejected when read.
const MaxMessageLen = 256

// ErrUnknownType is returned when writing a packet of an unknown type.
var ErrUnknownType = errors.New("tracewire: unknown packet type")

// PacketType is a type of packet.
type PacketType uint8

const (
	TypePanicPacket PacketType = iota + 1
)

// String returns a string representation of the packet type.
func (t PacketType) String() string {
	switch t {
	case TypePanicPacket:
		return "panic"
	default:
		return fmt.Sprintf("PacketType(%d)", t)
	}
}

func (t PacketType) known() bool {
	return t == TypePanicPacket
}

// Packet is a packet sent over the trace channel.
type Packet interface {
	// Type returns the type of packet.
	Type() PacketType
}

// PanicPacket is written once when the firmware halts.
type PanicPacket struct {
	Message string
}

func (p PanicPacket) Type() PacketType { return TypePanicPacket }

const (
	// headerLen is the size of the sync, type and length fields.
	headerLen = 1 + 1 + 2
	// trailerLen is the size of the checksum.
	trailerLen = 4
)

// ReadPacket reads the next packet from r, discarding any bytes that do not
// form a valid frame. A sync byte only counts once the frame behind it
// checks out. Otherwise only the sync byte is dropped and scanning resumes
// right after it, so line noise cannot swallow the start of a real frame.
//
// If r returns an error while a frame is still incomplete, ReadPacket
// returns that error and keeps the partial frame buffered for the next call.
// An incomplete candidate followed by another sync byte is dropped instead:
// the firmware writes a frame in one burst, so a real frame does not stall
// halfway.
func ReadPacket(r *bufio.Reader) (Packet, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return nil, err
		}
		if b[0] != SyncByte {
			r.Discard(1)
			continue
		}

		header, err := r.Peek(headerLen)
		if err != nil {
			if resync(r, header) {
				continue
			}
			return nil, err
		}

		ptype := PacketType(header[1])
		length := int(Endianness.Uint16(header[2:]))
		if !ptype.known() || length > MaxMessageLen {
			r.Discard(1)
			continue
		}

		frame, err := r.Peek(headerLen + length + trailerLen)
		if err != nil {
			if resync(r, frame) {
				continue
			}
			return nil, err
		}

		body := frame[1 : headerLen+length]
		checksum := Endianness.Uint32(frame[headerLen+length:])
		if checksum != crc32.ChecksumIEEE(body) {
			r.Discard(1)
			continue
		}

		msg := string(frame[headerLen : headerLen+length])
		r.Discard(len(frame))

		switch ptype {
		case TypePanicPacket:
			return PanicPacket{Message: msg}, nil
		}
	}
}

// resync drops the partial frame's sync byte if another sync byte follows it
// in buf. It reports whether it did.
func resync(r *bufio.Reader, buf []byte) bool {
	if len(buf) < 2 || bytes.IndexByte(buf[1:], SyncByte) < 0 {
		return false
	}
	r.Discard(1)
	return true
}

// WritePacket writes a packet to w.
func WritePacket(w io.Writer, p Packet) error {
	var msg string
	switch p := p.(type) {
	case PanicPacket:
		msg = p.Message
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, p)
	}

	msg = truncate(msg, MaxMessageLen)

	// Build the whole frame first so it goes out in a single write.
	frame := make([]byte, 0, 1+1+2+len(msg)+4)
	frame = append(frame, SyncByte, byte(p.Type()))
	frame = Endianness.AppendUint16(frame, uint16(len(msg)))
	frame = append(frame, msg...)
	frame = Endianness.AppendUint32(frame, crc32.ChecksumIEEE(frame[1:]))

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}

	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// PacketTracer writes fault messages as panic packets. It implements
// fault.Tracer.
type PacketTracer struct {
	W io.Writer
}

// Trace writes msg as a PanicPacket.
func (t PacketTracer) Trace(msg string) error {
	return WritePacket(t.W, PanicPacket{Message: msg})
}
