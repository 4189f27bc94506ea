package operations

// Raw parameter maps arrive from decoded JSON or YAML payloads, so numeric
// values may surface as int, int64, float32 or float64 depending on the
// decoder. The helpers below coerce them and fall back to the operation
// default for anything else.

func floatParam(raw map[string]interface{}, key string, def float64) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func intParam(raw map[string]interface{}, key string, def int) int {
	switch v := raw[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return def
}

func stringParam(raw map[string]interface{}, key string, def string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return def
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// forceOdd rounds v up to the nearest odd value and enforces a minimum.
func forceOdd(v, min int) int {
	v |= 1
	if v < min {
		return min
	}
	return v
}
