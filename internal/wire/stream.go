package wire

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// closeFd is a small indirection so tests can stub it without touching a
// real fd.
var closeFd = unix.Close

// MessageStream owns one client's socket fd and the read/write buffers
// framing the Wayland wire protocol on it. It mirrors the
// receive/deserialize_messages/flush split described in §4.1: receive
// drains as much of the socket as is currently available and dispatches
// every complete frame it finds; flush drains the write buffer back out.
type MessageStream struct {
	fd   int
	read ReadBuf
	send WriteBuf
}

// NewMessageStream takes ownership of fd; only Close closes it.
func NewMessageStream(fd int) *MessageStream {
	return &MessageStream{fd: fd}
}

// Fd returns the underlying socket fd, e.g. for epoll registration.
func (s *MessageStream) Fd() int { return s.fd }

// SendBuf exposes the outbound buffer so a dispatcher can allocate event
// words directly into it without an intermediate copy.
func (s *MessageStream) SendBuf() *WriteBuf { return &s.send }

// Close closes the stream's fd and releases any fds still queued on
// either buffer.
func (s *MessageStream) Close() error {
	s.read.Close()
	s.send.fds.closeAll()
	return closeFd(s.fd)
}

// Receive drains the socket with one or more nonblocking recvmsg calls,
// feeding accumulated bytes to dispatcher one frame at a time, per the
// termination rules in §4.1:
//   - a zero-byte read means the peer closed the stream; Receive returns
//     (0, nil) and discards any undispatchable partial tail, since no
//     more data will ever arrive to complete it.
//   - EWOULDBLOCK/EAGAIN with the buffer exactly full and nothing
//     dispatched is ErrOutOfMemory (the message could not possibly fit);
//     otherwise it is reported via ErrWouldBlock.
//   - EINTR is retried transparently.
func (s *MessageStream) Receive(dispatcher Dispatcher) (int, error) {
	total := 0
	for {
		n, fds, err := recvmsgNonblocking(s.fd, s.read.Tail())
		switch {
		case err == nil:
			if n == 0 {
				return 0, nil
			}
			s.read.Grow(n)
			s.read.PushFds(fds)
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			// Fall through to drain whatever is already buffered.
		default:
			return total, err
		}

		wasFull := s.read.IsFull()
		count, derr := s.read.DeserializeMessages(dispatcher, &s.send)
		total += count
		if derr != nil {
			return total, derr
		}

		if count == 0 && errors.Is(err, unix.EAGAIN) {
			if wasFull {
				return total, ErrOutOfMemory
			}
			return total, ErrWouldBlock
		}
		if errors.Is(err, unix.EAGAIN) {
			return total, nil
		}
		if wasFull {
			continue
		}
		return total, nil
	}
}

// Flush writes as much of the pending send buffer as the socket accepts
// without blocking, attaching any queued fds as one SCM_RIGHTS control
// message on the first send. EWOULDBLOCK with nothing flushed this call
// is ErrWouldBlock; EINTR is retried.
func (s *MessageStream) Flush() (int, error) {
	total := 0
	for total != s.send.Len() {
		n, err := sendmsgNonblocking(s.fd, s.send.Bytes(total), s.send.fds.Fds())
		switch {
		case err == nil:
			total += n
			s.send.fds.Clear()
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			s.send.shrink(total)
			if total == 0 {
				return 0, ErrWouldBlock
			}
			return total, nil
		default:
			s.send.shrink(total)
			return total, err
		}
	}
	s.send.shrink(total)
	return total, nil
}

// ErrWouldBlock is returned by Receive/Flush when the socket has no more
// data/capacity right now; the gateway's readiness loop treats it as "try
// again on the next edge-triggered wakeup", not as a client error.
var ErrWouldBlock = io.ErrNoProgress

func recvmsgNonblocking(fd int, buf []byte) (int, []int, error) {
	if len(buf) == 0 {
		// A full buffer has no room to read into; report EAGAIN rather
		// than a zero-byte read, which Receive takes as the peer closing.
		return 0, nil, unix.EAGAIN
	}
	oob := make([]byte, unix.CmsgSpace(maxFds*4))
	n, oobn, _, _, err := unix.Recvmsg(fd, buf, oob, unix.MSG_DONTWAIT)
	if err != nil {
		return 0, nil, err
	}
	var fds []int
	if oobn > 0 {
		cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
		if err == nil {
			for _, cmsg := range cmsgs {
				rights, err := unix.ParseUnixRights(&cmsg)
				if err == nil {
					fds = append(fds, rights...)
				}
			}
		}
	}
	return n, fds, nil
}

func sendmsgNonblocking(fd int, buf []byte, fds []int) (int, error) {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	return unix.SendmsgN(fd, buf, oob, nil, unix.MSG_DONTWAIT|unix.MSG_NOSIGNAL)
}
