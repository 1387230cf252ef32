package util

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func DerefFloat(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
