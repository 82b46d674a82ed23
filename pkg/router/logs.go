package router

import (
	"context"
	"io"
	stdlog "log"
	"os"

	"github.com/grovetools/companion/errors"
	"github.com/hpcloud/tail"
)

// TailOptions controls how much of the log is printed.
type TailOptions struct {
	// Follow keeps printing new lines until ctx is cancelled.
	Follow bool
	// Lines limits the initial output to the last N lines; 0 prints all.
	Lines int
}

// TailLog copies the router log at path to w.
func TailLog(ctx context.Context, path string, w io.Writer, opts TailOptions) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && !opts.Follow {
			return errors.NotFound("log file", path)
		}
		if !os.IsNotExist(err) {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to open router log").WithDetail("path", path)
		}
	}

	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	if info != nil && opts.Lines > 0 {
		offset, err := lastLinesOffset(path, opts.Lines)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to read router log").WithDetail("path", path)
		}
		location = &tail.SeekInfo{Offset: offset, Whence: io.SeekStart}
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    opts.Follow,
		ReOpen:    opts.Follow,
		MustExist: !opts.Follow,
		Location:  location,
		Logger:    stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to tail router log").WithDetail("path", path)
	}
	defer t.Cleanup()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return errors.Wrap(line.Err, errors.ErrCodeInternal, "failed to read router log")
			}
			if _, err := io.WriteString(w, line.Text+"\n"); err != nil {
				return err
			}
		case <-ctx.Done():
			t.Stop()
			return nil
		}
	}
}

// lastLinesOffset returns the byte offset where the last n lines start.
func lastLinesOffset(path string, n int) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if size == 0 {
		return 0, nil
	}

	const chunk = 4096
	buf := make([]byte, chunk)
	newlines := 0
	pos := size
	// A trailing newline terminates the last line rather than starting a new one.
	skipTrailing := true
	for pos > 0 {
		readSize := int64(chunk)
		if pos < readSize {
			readSize = pos
		}
		pos -= readSize
		if _, err := f.ReadAt(buf[:readSize], pos); err != nil && err != io.EOF {
			return 0, err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				skipTrailing = false
				continue
			}
			if skipTrailing {
				skipTrailing = false
				continue
			}
			newlines++
			if newlines == n {
				return pos + i + 1, nil
			}
		}
	}
	return 0, nil
}
