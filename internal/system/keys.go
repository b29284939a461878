package system

import "encoding/binary"

const evKey = 0x01

// Key codes from linux input-event-codes.h.
const (
	KeyF4    uint16 = 62
	KeyF11   uint16 = 87
	KeyLeft  uint16 = 105
	KeyRight uint16 = 106
)

// keyPressValue is the evdev value of a key-down event; 0 is release and 2
// is autorepeat.
const keyPressValue = 1

// inputEventSize is the size of struct input_event: a timeval followed by
// u16 type, u16 code and s32 value.
func inputEventSize(timevalSize int) int {
	return timevalSize + 2 + 2 + 4
}

// parseKeyPresses extracts the codes of key-down events from raw evdev
// records. Trailing partial records are ignored.
func parseKeyPresses(buf []byte, timevalSize int) []uint16 {
	size := inputEventSize(timevalSize)
	var codes []uint16
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[timevalSize : timevalSize+2])
		code := binary.LittleEndian.Uint16(rec[timevalSize+2 : timevalSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[timevalSize+4 : timevalSize+8]))
		if typ == evKey && value == keyPressValue {
			codes = append(codes, code)
		}
	}
	return codes
}
