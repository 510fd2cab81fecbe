package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/remotecomparer/pkg/storage"
)

// BinaryComparator compares files byte-by-byte.
// Line endings are significant; reports the offset of the first difference.
type BinaryComparator struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare compares two files byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, files storage.Reader, localPath, remotePath string) (*Comparison, error) {
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

	localBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(localBufPtr)
	localBuf := *localBufPtr

	remoteBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(remoteBufPtr)
	remoteBuf := *remoteBufPtr

	result := &Comparison{LocalPath: localPath, RemotePath: remotePath}
	var offset int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// ReadFull keeps both sides aligned on short reads
		localN, localErr := io.ReadFull(localReader, localBuf)
		remoteN, remoteErr := io.ReadFull(remoteReader, remoteBuf)

		localDone, err := endOfStream(localErr)
		if err != nil {
			return nil, fmt.Errorf("failed to read local file: %w", err)
		}
		remoteDone, err := endOfStream(remoteErr)
		if err != nil {
			return nil, fmt.Errorf("failed to read fetched file: %w", err)
		}

		n := min(localN, remoteN)
		if !bytes.Equal(localBuf[:n], remoteBuf[:n]) {
			for i := 0; i < n; i++ {
				if localBuf[i] != remoteBuf[i] {
					result.Result = Different
					result.Reason = fmt.Sprintf("binary content differs at byte offset %d", offset+int64(i))
					return result, nil
				}
			}
		}
		offset += int64(n)

		if localN != remoteN {
			result.Result = Different
			if localN < remoteN {
				result.Reason = fmt.Sprintf("local file ended at %d but remote file continues", offset)
			} else {
				result.Reason = fmt.Sprintf("remote file ended at %d but local file continues", offset)
			}
			return result, nil
		}

		// Equal counts imply both full buffers or both at end of stream
		if localDone && remoteDone {
			break
		}
	}

	result.Result = Same
	result.Reason = fmt.Sprintf("binary content matches (%d bytes)", offset)
	return result, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

// endOfStream maps io.ReadFull errors: EOF variants end the stream, anything else fails
func endOfStream(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true, nil
	}
	return false, err
}
