package pwmbus

import (
	"reflect"
	"strings"
	"testing"
)

const mapHeader = "direction,frame_id,frame_name,cycle_ms,dlc,signal_name,start_bit,bit_length,endianness,signed,factor,offset,min,max,default,unit,comment\n"

func loadTestMap(t *testing.T) *FrameMap {
	t.Helper()
	m, err := LoadFrameMap("../config/can/duty_map.csv")
	if err != nil {
		t.Fatalf("LoadFrameMap: %v", err)
	}
	return m
}

func TestLoadFrameMap_DutyMap(t *testing.T) {
	m := loadTestMap(t)

	if got := m.FrameNames(); !reflect.DeepEqual(got, []string{"PWM_DUTY_CMD", "PWM_VOLTAGE_CMD"}) {
		t.Errorf("FrameNames() = %v", got)
	}

	fd, err := m.FrameByName(DefaultDutyFrame)
	if err != nil {
		t.Fatalf("FrameByName: %v", err)
	}
	if fd.ID != 0x210 || fd.DLC != 8 || fd.CycleMS != 1 || fd.Direction != "tx" {
		t.Errorf("duty frame = %+v", fd)
	}
	var names []string
	for _, s := range fd.Signals {
		names = append(names, s.Name)
	}
	want := []string{SignalDutyA, SignalDutyB, SignalDutyC, SignalSector, SignalMode}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("signals = %v, want %v", names, want)
	}

	byID, err := m.FrameByID(0x211)
	if err != nil || byID.Name != "PWM_VOLTAGE_CMD" || !byID.Signals[0].Signed {
		t.Errorf("FrameByID(0x211) = %+v, %v", byID, err)
	}
}

func TestParseFrameMap_SortsSignalsByStartBit(t *testing.T) {
	in := mapHeader +
		"tx,16,F,10,2,hi,8,8,little,false,1,0,0,255,0,,\n" +
		"tx,16,F,10,2,lo,0,8,,false,1,0,0,255,0,,\n"
	m, err := ParseFrameMap(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseFrameMap: %v", err)
	}
	fd := m.ByID[16]
	if fd == nil || fd.Signals[0].Name != "lo" || fd.Signals[1].Name != "hi" {
		t.Errorf("frame = %+v", fd)
	}
}

func TestParseFrameMap_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"missing column", "frame_id,frame_name\n0x1,A\n", "missing required column"},
		{"bad id", mapHeader + "tx,zz,F,10,8,s,0,8,little,false,1,0,0,1,0,,\n", "invalid frame_id"},
		{"bad number", mapHeader + "tx,1,F,10,8,s,0,8,little,false,abc,0,0,1,0,,\n", "column factor"},
		{"big endian", mapHeader + "tx,1,F,10,8,s,0,8,big,false,1,0,0,1,0,,\n", "unsupported endianness"},
		{"overflowing bits", mapHeader + "tx,1,F,10,8,s,60,8,little,false,1,0,0,1,0,,\n", "outside the 64-bit payload"},
		{"zero factor", mapHeader + "tx,1,F,10,8,s,0,8,little,false,0,0,0,1,0,,\n", "zero factor"},
		{"bad dlc", mapHeader + "tx,1,F,10,9,s,0,8,little,false,1,0,0,1,0,,\n", "invalid dlc"},
		{"inconsistent dlc", mapHeader +
			"tx,1,F,10,8,a,0,8,little,false,1,0,0,1,0,,\n" +
			"tx,1,F,10,4,b,8,8,little,false,1,0,0,1,0,,\n", "inconsistent DLC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFrameMap(strings.NewReader(tc.in))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestFrameMap_UnknownFrame(t *testing.T) {
	m := loadTestMap(t)
	if _, err := m.FrameByName("NOPE"); err == nil || !strings.Contains(err.Error(), "PWM_DUTY_CMD") {
		t.Errorf("err = %v, want the available frames listed", err)
	}
	if _, err := m.FrameByID(0x7FF); err == nil {
		t.Error("FrameByID(0x7FF): expected error")
	}
}
