package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/archive"
)

const (
	readBufferSize = 64 * 1024
	maxLineSize    = 10 * 1024 * 1024 // 10MB
)

// SkipReason says why a line produced no record.
type SkipReason int

const (
	SkipNone    SkipReason = iota
	SkipBlank              // empty or whitespace-only line
	SkipDecode             // line is not valid JSON for a record
	SkipTooLong            // line exceeds maxLineSize; its bytes were discarded
)

func (s SkipReason) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipBlank:
		return "blank"
	case SkipDecode:
		return "decode"
	case SkipTooLong:
		return "too long"
	}
	return fmt.Sprintf("SkipReason(%d)", int(s))
}

// Result is the outcome of reading one line. Record is only meaningful when
// Skip is SkipNone.
type Result struct {
	Line   int
	Record Record
	Skip   SkipReason
	Err    error // cause behind SkipDecode or SkipTooLong
}

// Reader yields one Result per input line, in order. It is forward-only;
// use it like bufio.Scanner:
//
//	for rd.Next() {
//		res := rd.Result()
//		...
//	}
//	if err := rd.Err(); err != nil { ... }
type Reader struct {
	br      *bufio.Reader
	buf     []byte
	lineNum int
	cur     Result
	err     error
	done    bool
}

// NewReader returns a Reader over JSONL input.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readBufferSize)}
}

// Next advances to the next line. It returns false at end of input or on a
// read error, which Err then reports. An oversized line is not a read error:
// it is drained and reported as SkipTooLong.
func (rd *Reader) Next() bool {
	if rd.done {
		return false
	}

	raw, tooLong, err := rd.readLine()
	switch {
	case err == io.EOF:
		rd.done = true
		if len(raw) == 0 && !tooLong {
			return false
		}
	case err != nil:
		rd.done = true
		rd.err = err
		return false
	}

	rd.lineNum++
	if tooLong {
		rd.cur = Result{
			Line: rd.lineNum,
			Skip: SkipTooLong,
			Err:  fmt.Errorf("line exceeds %d bytes", maxLineSize),
		}
		return true
	}
	rd.cur = decodeLine(rd.lineNum, raw)
	return true
}

// readLine returns the next line without its terminator. Once a line grows
// past maxLineSize the rest of it is read and dropped, and tooLong is set.
func (rd *Reader) readLine() ([]byte, bool, error) {
	rd.buf = rd.buf[:0]
	tooLong := false
	for {
		chunk, err := rd.br.ReadSlice('\n')
		if !tooLong {
			if len(rd.buf)+len(chunk) > maxLineSize+1 {
				tooLong = true
				rd.buf = rd.buf[:0]
			} else {
				rd.buf = append(rd.buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimRight(rd.buf, "\r\n"), tooLong, err
	}
}

// Result returns the outcome for the current line.
func (rd *Reader) Result() Result {
	return rd.cur
}

// Err returns the first read error, if any. Per-line problems are not read
// errors; they surface as skip results.
func (rd *Reader) Err() error {
	if rd.err != nil {
		return fmt.Errorf("read transcript: %w", rd.err)
	}
	return nil
}

func decodeLine(n int, raw []byte) Result {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Result{Line: n, Skip: SkipBlank}
	}

	var l line
	if err := json.Unmarshal(raw, &l); err != nil {
		return Result{Line: n, Skip: SkipDecode, Err: err}
	}

	return Result{Line: n, Record: l.record()}
}

func (l line) record() Record {
	rec := Record{
		Type:       l.Type,
		Role:       l.Type,
		Timestamp:  parseTimestamp(l.Timestamp),
		SessionID:  l.SessionID,
		Slug:       l.Slug,
		Summary:    l.Summary,
		IsMeta:     l.IsMeta,
		ToolResult: hasPayload(l.ToolUseResult) || l.SourceToolAssistantUUID != "",
	}

	if l.Message != nil {
		if l.Message.Role != "" {
			rec.Role = l.Message.Role
		}
		rec.Model = l.Message.Model
		rec.Content = decodeContent(l.Message.Content)
	}

	if l.Type == TypeFileHistorySnapshot {
		rec.Content = []Block{SnapshotBlock{Kind: TypeFileHistorySnapshot}}
	}

	return rec
}

func hasPayload(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// File is a Reader over a log on disk.
type File struct {
	*Reader
	Path string
	rc   io.ReadCloser
}

// Open opens a JSONL log for reading. Logs ending in .zst are decompressed
// on the fly. A missing file yields an error wrapping fs.ErrNotExist.
func Open(path string) (*File, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &File{Reader: NewReader(rc), Path: path, rc: rc}, nil
}

// Close releases the underlying file.
func (f *File) Close() error {
	return f.rc.Close()
}
