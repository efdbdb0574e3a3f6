package pwmbus

import (
	"math"
	"testing"

	"foc-svm/svm"
)

func TestEncodeDecode_DutyFrame(t *testing.T) {
	m := loadTestMap(t)
	s := Sample{
		Sector: 11,
		Mode:   svm.ThirdHarmonicInjectionPWM,
		Duty:   svm.Duty[float64]{0.9330, 0.0670, 0.5},
	}

	f, err := m.EncodeCAN(DefaultDutyFrame, DutyValues(s))
	if err != nil {
		t.Fatalf("EncodeCAN: %v", err)
	}
	if f.ID != 0x210 || f.Length != 8 {
		t.Fatalf("frame id=0x%X len=%d", f.ID, f.Length)
	}

	got, err := m.DecodeCAN(f)
	if err != nil {
		t.Fatalf("DecodeCAN: %v", err)
	}
	for name, want := range map[string]float64{SignalDutyA: 0.9330, SignalDutyB: 0.0670, SignalDutyC: 0.5} {
		if math.Abs(got[name]-want) > 1e-5 {
			t.Errorf("%s = %v, want %v", name, got[name], want)
		}
	}
	if got[SignalSector] != 11 || got[SignalMode] != 1 {
		t.Errorf("sector=%v mode=%v", got[SignalSector], got[SignalMode])
	}
}

func TestEncode_RawLayout(t *testing.T) {
	m := loadTestMap(t)
	payload, id, err := m.Encode(DefaultDutyFrame, map[string]float64{
		SignalDutyA:  1,
		SignalDutyB:  0,
		SignalDutyC:  0.5,
		SignalSector: 5,
		SignalMode:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x210 {
		t.Errorf("id = 0x%X", id)
	}
	// duty_a raw 50000 = 0xC350, duty_c raw 25000 = 0x61A8, sector 5 | mode<<4 = 0x15
	want := []byte{0x50, 0xC3, 0x00, 0x00, 0xA8, 0x61, 0x15, 0x00}
	for i := range want {
		if payload[i] != want[i] {
			t.Fatalf("payload = % X, want % X", payload, want)
		}
	}
}

func TestEncode_ClampsAndDefaults(t *testing.T) {
	m := loadTestMap(t)
	f, err := m.EncodeCAN(DefaultDutyFrame, map[string]float64{
		SignalDutyA: 1.7,
		SignalDutyB: -0.2,
		SignalDutyC: math.NaN(),
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := m.DecodeCAN(f)
	if math.Abs(got[SignalDutyA]-1) > 1e-9 || got[SignalDutyB] != 0 {
		t.Errorf("clamped duties: a=%v b=%v", got[SignalDutyA], got[SignalDutyB])
	}
	if math.Abs(got[SignalDutyC]-0.5) > 1e-9 {
		t.Errorf("NaN duty_c should fall back to default 0.5, got %v", got[SignalDutyC])
	}
}

func TestEncodeDecode_SignedVoltageFrame(t *testing.T) {
	m := loadTestMap(t)
	payload, id, err := m.Encode("PWM_VOLTAGE_CMD", DutyValues(Sample{Alpha: -1.5, Beta: 0.25}))
	if err != nil {
		t.Fatal(err)
	}
	if len(payload) != 4 {
		t.Fatalf("len = %d, want 4", len(payload))
	}
	got, err := m.Decode(id, payload)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[SignalAlpha]+1.5) > 1e-9 || math.Abs(got[SignalBeta]-0.25) > 1e-9 {
		t.Errorf("decoded %v", got)
	}
}

func TestDecode_ShortPayload(t *testing.T) {
	m := loadTestMap(t)
	if _, err := m.Decode(0x210, []byte{1, 2, 3}); err == nil {
		t.Error("expected error for 3-byte payload")
	}
}

func TestBits(t *testing.T) {
	if got := signExtend(0xFF, 8, true); got != -1 {
		t.Errorf("signExtend(0xFF,8) = %d", got)
	}
	if got := signExtend(0x7F, 8, true); got != 127 {
		t.Errorf("signExtend(0x7F,8) = %d", got)
	}
	if got := signExtend(0xFF, 8, false); got != 255 {
		t.Errorf("unsigned 0xFF = %d", got)
	}
	if got := clampRaw(300, 8, false); got != 255 {
		t.Errorf("clampRaw(300,8,u) = %d", got)
	}
	if got := clampRaw(-300, 8, true); got != -128 {
		t.Errorf("clampRaw(-300,8,s) = %d", got)
	}
	p := setBits(0, 60, 4, 0xF)
	if getBits(p, 60, 4) != 0xF || p != 0xF000000000000000 {
		t.Errorf("setBits top nibble = %X", p)
	}
	if getBits(math.MaxUint64, 0, 64) != math.MaxUint64 {
		t.Error("full-width getBits")
	}
}
