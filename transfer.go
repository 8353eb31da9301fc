package tcpio

import (
	"errors"
	"io"
)

// WriteAll writes the entire sequence to the connected socket, issuing
// repeated write attempts against the remaining unwritten tail until every
// byte has been accepted. It returns the number of bytes written.
//
// On failure the returned count reports the partial progress; bytes already
// written are on the wire and are not rolled back. A write attempt that
// transfers zero bytes without reporting an error fails the transfer with
// ErrStalledTransfer so the loop always terminates.
func WriteAll(s *Socket, data Sequence) (int, error) {
	total := data.Len()

	var written int
	for written < total {
		n, err := s.writeSome(data.chunk(written))
		written += n

		if err != nil {
			return written, &TransferError{Op: "write", N: written, Err: err}
		}
		if n == 0 {
			return written, &TransferError{Op: "write", N: written, Err: ErrStalledTransfer}
		}
	}

	return written, nil
}

// ReadAll reads from the connected socket into the sequence, filling its
// segments in order until the sequence's total length is satisfied. It
// returns the number of bytes read.
//
// If the peer closes the connection before the sequence is full, ReadAll
// fails with ErrConnectionClosed and reports the bytes received so far. A
// read attempt that transfers zero bytes without reporting an error fails
// the transfer with ErrStalledTransfer.
func ReadAll(s *Socket, into Sequence) (int, error) {
	total := into.Len()

	var read int
	for read < total {
		n, err := s.readSome(into.chunk(read))
		read += n

		if err != nil {
			if errors.Is(err, io.EOF) {
				if read == total {
					break
				}
				err = ErrConnectionClosed
			}

			return read, &TransferError{Op: "read", N: read, Err: err}
		}
		if n == 0 {
			return read, &TransferError{Op: "read", N: read, Err: ErrStalledTransfer}
		}
	}

	return read, nil
}
