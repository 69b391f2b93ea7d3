package repository

import (
	"os"
	"strconv"
	"time"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalFloatToString(v float64) string {
	if v == 0 {
		return ""
	}
	return floatToString(v)
}

func optionalTimeToString(t *time.Time) string {
	return optionalTimeToStringLayout(t, time.RFC3339Nano)
}

func optionalTimeToStringLayout(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(layout)
}

func stringToOptionalTime(s string) *time.Time {
	return stringToOptionalTimeLayout(s, time.RFC3339Nano)
}

func stringToOptionalTimeLayout(s, layout string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return &t
}
