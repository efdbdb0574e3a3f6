package pwmbus

import (
	"context"
	"fmt"
	"io"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// FrameTransmitter is the send half of a CAN bus; *socketcan.Transmitter
// satisfies it.
type FrameTransmitter interface {
	TransmitFrame(ctx context.Context, frame can.Frame) error
}

// CANSink encodes each sample into the duty frame and transmits it.
type CANSink struct {
	fmap  *FrameMap
	frame string
	tx    FrameTransmitter
	conn  io.Closer
}

// NewCANSink dials a SocketCAN interface (vcan0, can0, ...).
func NewCANSink(ctx context.Context, iface string, fmap *FrameMap, frameName string) (*CANSink, error) {
	if _, err := fmap.FrameByName(frameName); err != nil {
		return nil, err
	}
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &CANSink{
		fmap:  fmap,
		frame: frameName,
		tx:    socketcan.NewTransmitter(conn),
		conn:  conn,
	}, nil
}

// NewCANSinkWith uses an existing transmitter; the caller keeps ownership of
// the underlying connection.
func NewCANSinkWith(tx FrameTransmitter, fmap *FrameMap, frameName string) (*CANSink, error) {
	if _, err := fmap.FrameByName(frameName); err != nil {
		return nil, err
	}
	return &CANSink{fmap: fmap, frame: frameName, tx: tx}, nil
}

func (s *CANSink) WriteDuty(ctx context.Context, sample Sample) error {
	if s.tx == nil {
		return ErrSinkClosed
	}
	f, err := s.fmap.EncodeCAN(s.frame, DutyValues(sample))
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.frame, err)
	}
	if err := s.tx.TransmitFrame(ctx, f); err != nil {
		return fmt.Errorf("transmit 0x%X: %w", f.ID, err)
	}
	return nil
}

func (s *CANSink) Close() error {
	s.tx = nil
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
