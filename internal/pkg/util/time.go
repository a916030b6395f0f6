package util

import "time"

// GetMidnight 返回 t 所在日的零点，日榜计数按此归档
func GetMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PtrTime 用于将 time.Time 转换为 *time.Time
func PtrTime(t time.Time) *time.Time {
	return &t
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}
