package compare

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/remotecomparer/pkg/storage"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds the memory used for a single line
const maxLineSize = 256 * 1024 * 1024

// TextComparator compares files as UTF-8 text, line by line.
// CRLF, LF and CR are equivalent line terminators, so files differing only in
// line-ending style are equal. A missing final terminator is not a difference.
// Invalid UTF-8 sequences decode to U+FFFD on both sides.
type TextComparator struct {
	bufferSize int
}

// NewTextComparator creates a new line-ending-insensitive comparator
func NewTextComparator(bufferSize int) *TextComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &TextComparator{bufferSize: bufferSize}
}

// Compare compares both files line by line
func (c *TextComparator) Compare(ctx context.Context, files storage.Reader, localPath, remotePath string) (*Comparison, error) {
	localReader, err := files.Read(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer localReader.Close()

	remoteReader, err := files.Read(ctx, remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open fetched file: %w", err)
	}
	defer remoteReader.Close()

	local := c.newLineScanner(transform.NewReader(localReader, unicode.UTF8.NewDecoder()))
	remote := c.newLineScanner(transform.NewReader(remoteReader, unicode.UTF8.NewDecoder()))

	result := &Comparison{LocalPath: localPath, RemotePath: remotePath}

	line := 0
	for {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		localOK := local.Scan()
		remoteOK := remote.Scan()

		if err := local.Err(); err != nil {
			return nil, fmt.Errorf("failed to read local file: %w", err)
		}
		if err := remote.Err(); err != nil {
			return nil, fmt.Errorf("failed to read fetched file: %w", err)
		}

		if !localOK && !remoteOK {
			break
		}

		line++

		if localOK != remoteOK {
			result.Result = Different
			if localOK {
				result.Reason = fmt.Sprintf("remote file ends after line %d but local file continues", line-1)
			} else {
				result.Reason = fmt.Sprintf("local file ends after line %d but remote file continues", line-1)
			}
			return result, nil
		}

		if !bytes.Equal(local.Bytes(), remote.Bytes()) {
			result.Result = Different
			result.Reason = fmt.Sprintf("content differs at line %d", line)
			return result, nil
		}
	}

	result.Result = Same
	result.Reason = fmt.Sprintf("text content matches (%d lines)", line)
	return result, nil
}

// Name returns the comparator name
func (c *TextComparator) Name() string {
	return "text"
}

func (c *TextComparator) newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, c.bufferSize), maxLineSize)
	scanner.Split(scanLines)
	return scanner
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r\n" and a lone "\r" as
// line terminators. The terminator is not part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': look ahead for '\n'
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Need more data to tell "\r" from "\r\n"
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
