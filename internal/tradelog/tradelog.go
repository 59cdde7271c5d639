package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry is one order accepted by the exchange. Decimal values are kept as
// strings so the journal never loses precision.
type Entry struct {
	Time          string `json:"time"`
	CycleID       string `json:"cycle_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Status        string `json:"status"`
	Quantity      string `json:"quantity"`
	RefPrice      string `json:"ref_price"`
	Price         string `json:"price,omitempty"`
	StopPrice     string `json:"stop_price,omitempty"`
}

type DecisionEntry struct {
	Time       string `json:"time"`
	CycleID    string `json:"cycle_id"`
	Symbol     string `json:"symbol"`
	Action     string `json:"action"`
	Prediction string `json:"prediction"`
	Price      string `json:"price"`
}

const timeLayout = "2006-01-02 15:04:05"

func LogDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

// DailyFilepath is the order journal for the UTC day of t.
func DailyFilepath(t time.Time) string {
	return filepath.Join(LogDir(), t.UTC().Format("2006-01-02")+".txt")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(LogDir(), "decisions", t.UTC().Format("2006-01-02")+".txt")
}

func Append(e Entry) error {
	now := time.Now().UTC()
	e.Time = now.Format(timeLayout)
	return appendLine(DailyFilepath(now), e)
}

func AppendDecision(e DecisionEntry) error {
	now := time.Now().UTC()
	e.Time = now.Format(timeLayout)
	return appendLine(decisionsFilepath(now), e)
}

func appendLine(p string, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays ago.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(LogDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// already compressed on an earlier run
		if gzipComplete(gz) {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err == nil {
			_ = os.Remove(p)
		}
		return nil
	})
}

// gzipFile writes src compressed to dst. dst is removed on any failure so a
// partial archive is never mistaken for a complete one.
func gzipFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	gw := gzip.NewWriter(out)
	if _, err = io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err = gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// gzipComplete reports whether p is a gzip stream that decodes to its end.
func gzipComplete(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return false
	}
	if _, err := io.Copy(io.Discard, gr); err != nil {
		return false
	}
	return gr.Close() == nil
}
