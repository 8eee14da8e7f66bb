package fsm

import "fmt"

// Int reads a decoded value as an int. nil, meaning "not reported yet",
// reads as zero.
func Int(v any) int {
	switch v := v.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Bool reads a decoded value as a bool. nil reads as false.
func Bool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case nil:
		return false
	case string:
		return v != ""
	default:
		return Int(v) != 0
	}
}

// String reads a decoded value as a string. nil reads as "".
func String(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Reported tells whether the bridge had reported a value before.
func Reported(v any) bool {
	return v != nil
}
