package wire

import (
	"encoding/binary"
	"unsafe"
)

// bufSize is the fixed capacity of a message buffer in bytes. Outbound
// messages that would exceed this fail the request with KindOutOfMemory;
// the cap is never raised dynamically.
const bufSize = 4096

const wordSize = 4

// maxFds bounds the ancillary fd queue attached to a buffer.
const maxFds = 28

// Dispatcher is invoked once per complete frame extracted from a read
// buffer. args is the payload words (header already stripped). It must
// not retain send or fds beyond the call.
type Dispatcher func(objectID uint32, opcode uint16, args []uint32, fds *FdQueue, send *WriteBuf) error

// FdQueue holds ancillary file descriptors received with, or staged for,
// a message buffer. Its contents are owned by whichever side holds the
// buffer: received fds belong to the reader until a handler pops them
// (taking responsibility for closing or repurposing), staged fds belong
// to the kernel as soon as sendmsg succeeds.
type FdQueue struct {
	fds []int
}

// Push stages one fd, failing with KindOutOfMemory past 28 queued fds.
func (q *FdQueue) Push(fd int) error {
	if len(q.fds) >= maxFds {
		return newf(KindOutOfMemory, "fd queue full (%d fds)", maxFds)
	}
	q.fds = append(q.fds, fd)
	return nil
}

// Pop removes and returns the oldest queued fd.
func (q *FdQueue) Pop() (int, bool) {
	if len(q.fds) == 0 {
		return 0, false
	}
	fd := q.fds[0]
	q.fds = q.fds[1:]
	return fd, true
}

// Len reports the number of queued fds.
func (q *FdQueue) Len() int { return len(q.fds) }

// Fds returns the queue's backing slice without removing anything.
func (q *FdQueue) Fds() []int { return q.fds }

// Clear empties the queue without closing anything; used once the kernel
// has taken ownership of the fds after a successful sendmsg.
func (q *FdQueue) Clear() { q.fds = q.fds[:0] }

// closeAll closes every queued fd; used when a stream is torn down with
// fds still pending (neither popped by a handler nor sent).
func (q *FdQueue) closeAll() {
	for _, fd := range q.fds {
		_ = closeFd(fd)
	}
	q.fds = nil
}

// ReadBuf accumulates bytes received from a client stream and extracts
// complete frames from it, handing each one's payload words to a
// Dispatcher. It never grows past bufSize; a message that would not fit
// in the remaining capacity fails deterministically.
type ReadBuf struct {
	buf [bufSize]byte
	len int
	fds FdQueue
}

// IsFull reports whether the buffer holds a full bufSize bytes, i.e. no
// more data can be appended without first consuming a message.
func (b *ReadBuf) IsFull() bool { return b.len == bufSize }

// Tail returns the writable remainder of the buffer for a recvmsg-style
// read to fill.
func (b *ReadBuf) Tail() []byte { return b.buf[b.len:] }

// Grow records that n additional bytes were written into Tail().
func (b *ReadBuf) Grow(n int) { b.len += n }

// PushFds appends fds received alongside the most recent read.
func (b *ReadBuf) PushFds(fds []int) { b.fds.fds = append(b.fds.fds, fds...) }

// Close releases any fds still queued on this buffer (e.g. on stream
// teardown with unconsumed ancillary data).
func (b *ReadBuf) Close() { b.fds.closeAll() }

// DeserializeMessages repeatedly extracts one frame at a time from the
// buffer while it holds at least a complete header, invoking dispatcher
// for each, and compacts any trailing partial frame to offset 0 before
// returning. It returns the number of frames dispatched, or the first
// error the dispatcher returns (propagated verbatim, without consuming
// further frames).
func (b *ReadBuf) DeserializeMessages(dispatcher Dispatcher, send *WriteBuf) (int, error) {
	idx := 0
	count := 0

	for b.len-idx >= 8 {
		objectID := binary.LittleEndian.Uint32(b.buf[idx:])
		header := binary.LittleEndian.Uint32(b.buf[idx+4:])
		msgSize := int(header >> 16)
		opcode := uint16(header)

		if objectID == 0 {
			return count, ErrInvalidObject
		}
		if msgSize < 8 || msgSize%4 != 0 {
			return count, newf(KindBadFormat, "message size %d is not a multiple of 4 bytes >= 8", msgSize)
		}

		if b.len-idx < msgSize {
			// Partial message: wait for more bytes.
			break
		}

		payload := bytesToWords(b.buf[idx+8 : idx+msgSize])
		if err := dispatcher(objectID, opcode, payload, &b.fds, send); err != nil {
			// Still compact what we've consumed so far before returning;
			// the caller treats any error here as fatal for the client
			// anyway, but leaving the buffer consistent costs nothing.
			b.compact(idx + msgSize)
			return count, err
		}
		count++
		idx += msgSize
	}

	b.compact(idx)
	return count, nil
}

// compact shifts any bytes at [consumed, len) down to offset 0.
func (b *ReadBuf) compact(consumed int) {
	if consumed == 0 {
		return
	}
	remaining := b.len - consumed
	if remaining > 0 {
		copy(b.buf[:remaining], b.buf[consumed:b.len])
	}
	b.len = remaining
}

// WriteBuf stages outbound words and fds for one client stream before a
// flush hands them to sendmsg.
type WriteBuf struct {
	buf [bufSize]byte
	len int
	fds FdQueue
}

// Len reports the number of staged bytes.
func (b *WriteBuf) Len() int { return b.len }

// Bytes returns the staged byte range starting at offset.
func (b *WriteBuf) Bytes(offset int) []byte { return b.buf[offset:b.len] }

// Fds returns the staged fd queue.
func (b *WriteBuf) Fds() *FdQueue { return &b.fds }

// Allocate reserves wordCount words of scratch space at the end of the
// buffer and returns it for the caller to fill in, or fails with
// KindOutOfMemory if the 4096-byte cap would be exceeded.
func (b *WriteBuf) Allocate(wordCount int) ([]uint32, error) {
	newLen := b.len + wordCount*wordSize
	if newLen > bufSize {
		return nil, newf(KindOutOfMemory, "send buffer full (%d/%d bytes)", newLen, bufSize)
	}
	words := bytesToWords(b.buf[b.len:newLen])
	b.len = newLen
	return words, nil
}

// PushFd stages one fd to accompany the next flush, failing with
// KindOutOfMemory past 28 queued fds. Per §4.6, fds are staged after the
// word payload of an event has been written.
func (b *WriteBuf) PushFd(fd int) error { return b.fds.Push(fd) }

// shrink drops the first n consumed bytes, compacting the remainder to
// offset 0.
func (b *WriteBuf) shrink(n int) {
	if n < b.len {
		copy(b.buf[:b.len-n], b.buf[n:b.len])
	}
	b.len -= n
}

// bytesToWords reinterprets a byte slice that is a multiple of 4 bytes as
// native-endian 32-bit words, matching the wire's "native byte order on
// supported platforms" rule from §4.1. This mirrors the cast the
// reference implementation performs between byte and u32 views of the
// same fixed buffer.
func bytesToWords(b []byte) []uint32 {
	if len(b)%wordSize != 0 {
		panic("wire: byte slice length not a multiple of word size")
	}
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/wordSize)
}
