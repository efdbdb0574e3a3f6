package pwmbus

import "math"

func bitMask(bitLen int) uint64 {
	if bitLen >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << bitLen) - 1
}

func getBits(payload uint64, startBit, bitLen int) uint64 {
	if bitLen <= 0 || bitLen > 64 {
		return 0
	}
	return (payload >> startBit) & bitMask(bitLen)
}

func setBits(payload uint64, startBit, bitLen int, value uint64) uint64 {
	if bitLen <= 0 || bitLen > 64 {
		return payload
	}
	mask := bitMask(bitLen)
	payload &^= mask << startBit
	payload |= (value & mask) << startBit
	return payload
}

// signExtend interprets the low bitLen bits of u as two's complement when signed.
func signExtend(u uint64, bitLen int, signed bool) int64 {
	if !signed || bitLen >= 64 {
		return int64(u)
	}
	if u&(uint64(1)<<(bitLen-1)) == 0 {
		return int64(u)
	}
	return int64(u | ^bitMask(bitLen))
}

// rawLimits returns the representable raw range of a signal.
func rawLimits(bitLen int, signed bool) (lo, hi int64) {
	if signed {
		if bitLen >= 64 {
			return math.MinInt64, math.MaxInt64
		}
		return -int64(1) << (bitLen - 1), int64(1)<<(bitLen-1) - 1
	}
	if bitLen >= 63 {
		return 0, math.MaxInt64
	}
	return 0, int64(1)<<bitLen - 1
}

func clampRaw(raw int64, bitLen int, signed bool) int64 {
	lo, hi := rawLimits(bitLen, signed)
	if raw < lo {
		return lo
	}
	if raw > hi {
		return hi
	}
	return raw
}
