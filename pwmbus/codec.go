package pwmbus

import (
	"fmt"
	"math"

	"go.einride.tech/can"

	"foc-svm/control"
)

// Encode packs physical signal values into the frame payload. Missing
// signals take their default; values are clamped to [min,max] before scaling
// and the raw value to the signal width.
func (m *FrameMap) Encode(frameName string, values map[string]float64) ([]byte, uint32, error) {
	fd, err := m.FrameByName(frameName)
	if err != nil {
		return nil, 0, err
	}
	if fd.DLC <= 0 || fd.DLC > 8 {
		return nil, 0, fmt.Errorf("frame %s has invalid DLC %d", fd.Name, fd.DLC)
	}

	var payload uint64
	for _, s := range fd.Signals {
		v, ok := values[s.Name]
		if !ok || math.IsNaN(v) {
			v = s.Default
		}
		v = control.Saturate(v, s.Min, s.Max)

		raw := int64(math.Round((v - s.Offset) / s.Factor))
		raw = clampRaw(raw, s.BitLength, s.Signed)
		payload = setBits(payload, s.StartBit, s.BitLength, uint64(raw))
	}

	out := make([]byte, fd.DLC)
	for i := range out {
		out[i] = byte(payload >> (8 * i))
	}
	return out, fd.ID, nil
}

// EncodeCAN produces an einride can.Frame ready to transmit.
func (m *FrameMap) EncodeCAN(frameName string, values map[string]float64) (can.Frame, error) {
	payload, id, err := m.Encode(frameName, values)
	if err != nil {
		return can.Frame{}, err
	}

	f := can.Frame{ID: id, Length: uint8(len(payload))}
	copy(f.Data[:], payload)
	if err := f.Validate(); err != nil {
		return can.Frame{}, fmt.Errorf("frame %s: %w", frameName, err)
	}
	return f, nil
}

// Decode unpacks a payload into physical values keyed by signal name.
func (m *FrameMap) Decode(frameID uint32, data []byte) (map[string]float64, error) {
	fd, err := m.FrameByID(frameID)
	if err != nil {
		return nil, err
	}
	if len(data) < fd.DLC {
		return nil, fmt.Errorf("frame 0x%X expects DLC %d, got %d", frameID, fd.DLC, len(data))
	}

	var payload uint64
	for i := 0; i < fd.DLC; i++ {
		payload |= uint64(data[i]) << (8 * i)
	}

	out := make(map[string]float64, len(fd.Signals))
	for _, s := range fd.Signals {
		raw := signExtend(getBits(payload, s.StartBit, s.BitLength), s.BitLength, s.Signed)
		out[s.Name] = float64(raw)*s.Factor + s.Offset
	}
	return out, nil
}

// DecodeCAN is Decode for a received einride frame.
func (m *FrameMap) DecodeCAN(f can.Frame) (map[string]float64, error) {
	return m.Decode(f.ID, f.Data[:f.Length])
}
