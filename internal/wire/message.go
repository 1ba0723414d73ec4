// Package wire converts frames to and from the three-segment multipart message
// carried between producers and the collector.
//
//	segment[0] = UTF-8 peer name
//	segment[1] = decimal ASCII sequence index
//	segment[2] = payload bytes
package wire

import (
	"fmt"
	"strconv"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// SegmentCount is the number of segments in every message.
const SegmentCount = 3

// Encode builds the wire message for f. The payload segment aliases f.Payload.
func Encode(f domain.Frame) ([][]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return [][]byte{
		[]byte(f.Peer),
		strconv.AppendUint(nil, f.Index, 10),
		f.Payload,
	}, nil
}

// Decode parses a wire message. Any deviation from the format is an
// ErrProtocol.
func Decode(segments [][]byte) (domain.Frame, error) {
	if len(segments) != SegmentCount {
		return domain.Frame{}, fmt.Errorf("%w: got %d segments, want %d", domain.ErrProtocol, len(segments), SegmentCount)
	}

	peer := string(segments[0])
	if err := domain.ValidatePeer(peer); err != nil {
		return domain.Frame{}, fmt.Errorf("%w: %v", domain.ErrProtocol, err)
	}

	index, err := parseIndex(segments[1])
	if err != nil {
		return domain.Frame{}, err
	}

	return domain.Frame{Peer: peer, Index: index, Payload: segments[2]}, nil
}

// parseIndex accepts plain decimal digits only; signs and spaces are rejected.
func parseIndex(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty index segment", domain.ErrProtocol)
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: invalid index %q", domain.ErrProtocol, b)
		}
	}
	idx, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid index %q: %v", domain.ErrProtocol, b, err)
	}
	return idx, nil
}
