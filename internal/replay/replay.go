// Package replay records inbound EventBridge messages to a zstd-compressed
// JSONL file and plays them back into a headless engine.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Record is one line of a session file.
type Record struct {
	OffsetMS int64           `json:"offset_ms"`
	Msg      json.RawMessage `json:"msg"`
}

// Recorder appends inbound messages with their offset from the first one.
// It is safe for concurrent use.
type Recorder struct {
	now func() time.Time

	mu    sync.Mutex
	start time.Time
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
	n     int
}

// Create opens a new session file at path, creating parent directories.
func Create(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("replay: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: create: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: zstd writer: %w", err)
	}
	return &Recorder{now: time.Now, f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Record appends one raw message. raw must be a JSON document.
func (r *Recorder) Record(raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return errors.New("replay: recorder closed")
	}

	now := r.now()
	if r.n == 0 {
		r.start = now
	}
	b, err := json.Marshal(Record{OffsetMS: now.Sub(r.start).Milliseconds(), Msg: json.RawMessage(raw)})
	if err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	if _, err := r.w.Write(b); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	r.n++
	return nil
}

// Len returns the number of records written.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	var errs []error
	errs = append(errs, r.w.Flush(), r.enc.Close(), r.f.Close())
	r.w, r.enc, r.f = nil, nil, nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("replay: close: %w", err)
	}
	return nil
}

// Reader iterates the records of a session file.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
	rec Record
	err error
}

// Open opens a session file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: zstd reader: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next advances to the next record. It returns false at the end of the file
// or on error; check Err.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			r.err = fmt.Errorf("replay: decode record: %w", err)
			return false
		}
		r.rec = rec
		return true
	}
	if err := r.sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		r.err = fmt.Errorf("replay: read: %w", err)
	}
	return false
}

// Record returns the current record.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the first error met by Next.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadAll loads every record of a session file.
func ReadAll(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []Record
	for r.Next() {
		out = append(out, r.Record())
	}
	return out, r.Err()
}
