package pwmbus

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Serial packet: sync (0xA5 0x5A), frame id little endian (2 bytes), payload
// length, payload, XOR of every preceding byte.
const (
	serialSync0 = 0xA5
	serialSync1 = 0x5A
)

// SerialSink sends the encoded duty frame to a UART PWM bridge.
type SerialSink struct {
	fmap  *FrameMap
	frame string
	port  io.WriteCloser
	buf   [14]byte
}

// NewSerialSink opens device (e.g. /dev/ttyUSB0) at baud.
func NewSerialSink(device string, baud int, fmap *FrameMap, frameName string) (*SerialSink, error) {
	if _, err := fmap.FrameByName(frameName); err != nil {
		return nil, err
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return &SerialSink{fmap: fmap, frame: frameName, port: port}, nil
}

// NewSerialSinkWith writes packets to an already open port.
func NewSerialSinkWith(port io.WriteCloser, fmap *FrameMap, frameName string) (*SerialSink, error) {
	if _, err := fmap.FrameByName(frameName); err != nil {
		return nil, err
	}
	return &SerialSink{fmap: fmap, frame: frameName, port: port}, nil
}

func (s *SerialSink) WriteDuty(ctx context.Context, sample Sample) error {
	if s.port == nil {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, id, err := s.fmap.Encode(s.frame, DutyValues(sample))
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.frame, err)
	}
	pkt := EncodeSerialPacket(s.buf[:0], id, payload)
	if _, err := s.port.Write(pkt); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

func (s *SerialSink) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// EncodeSerialPacket appends one framed packet to dst.
func EncodeSerialPacket(dst []byte, id uint32, payload []byte) []byte {
	start := len(dst)
	dst = append(dst, serialSync0, serialSync1, byte(id), byte(id>>8), byte(len(payload)))
	dst = append(dst, payload...)
	var x byte
	for _, b := range dst[start:] {
		x ^= b
	}
	return append(dst, x)
}

// DecodeSerialPacket parses one packet from the start of buf and returns the
// number of bytes consumed.
func DecodeSerialPacket(buf []byte) (id uint32, payload []byte, n int, err error) {
	if len(buf) < 6 {
		return 0, nil, 0, io.ErrUnexpectedEOF
	}
	if buf[0] != serialSync0 || buf[1] != serialSync1 {
		return 0, nil, 0, fmt.Errorf("serial packet: bad sync % X", buf[:2])
	}
	size := int(buf[4])
	n = 5 + size + 1
	if len(buf) < n {
		return 0, nil, 0, io.ErrUnexpectedEOF
	}
	var x byte
	for _, b := range buf[:n-1] {
		x ^= b
	}
	if x != buf[n-1] {
		return 0, nil, 0, fmt.Errorf("serial packet: checksum 0x%02X, want 0x%02X", buf[n-1], x)
	}
	id = uint32(buf[2]) | uint32(buf[3])<<8
	return id, buf[5 : 5+size], n, nil
}
