package eod

import (
	"path/filepath"
	"time"

	"pred-trading-bot/internal/tradelog"
)

func eodCSVPath(t time.Time) string {
	return filepath.Join(tradelog.LogDir(), "eod", t.UTC().Format("2006-01-02")+".csv")
}

func previousDay(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
