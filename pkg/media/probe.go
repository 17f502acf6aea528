package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownDuration is returned when the file carries no parseable
// movie header.
var ErrUnknownDuration = errors.New("could not determine media duration")

// ProbeDuration reads the MP4 movie header (moov/mvhd) and reports the
// duration in whole seconds. The reader is rewound to the start before
// returning so it can be uploaded afterwards.
func ProbeDuration(r io.ReadSeeker) (int, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	defer r.Seek(0, io.SeekStart)

	moovStart, moovEnd, err := findBox(r, 0, end, "moov")
	if err != nil {
		return 0, ErrUnknownDuration
	}

	mvhdStart, mvhdEnd, err := findBox(r, moovStart, moovEnd, "mvhd")
	if err != nil {
		return 0, ErrUnknownDuration
	}

	return parseMovieHeader(r, mvhdStart, mvhdEnd)
}

// findBox scans the box sequence in [start, end) for the named box and
// returns the bounds of its payload.
func findBox(r io.ReadSeeker, start, end int64, name string) (int64, int64, error) {
	offset := start
	for offset+8 <= end {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, 0, err
		}

		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return 0, 0, err
		}

		size := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])
		headerLen := int64(8)

		switch size {
		case 0:
			// Box extends to the end of the enclosing scope.
			size = end - offset
		case 1:
			var largeSize [8]byte
			if _, err := io.ReadFull(r, largeSize[:]); err != nil {
				return 0, 0, err
			}
			size = int64(binary.BigEndian.Uint64(largeSize[:]))
			headerLen = 16
		}

		if size < headerLen {
			return 0, 0, fmt.Errorf("malformed box %q at offset %d", boxType, offset)
		}

		if boxType == name {
			return offset + headerLen, offset + size, nil
		}

		offset += size
	}

	return 0, 0, fmt.Errorf("box %q not found", name)
}

func parseMovieHeader(r io.ReadSeeker, start, end int64) (int, error) {
	length := end - start
	if length < 20 {
		return 0, ErrUnknownDuration
	}
	if length > 120 {
		length = 120
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, err
	}

	var timescale, duration uint64
	switch payload[0] {
	case 0:
		timescale = uint64(binary.BigEndian.Uint32(payload[12:16]))
		duration = uint64(binary.BigEndian.Uint32(payload[16:20]))
	case 1:
		if len(payload) < 32 {
			return 0, ErrUnknownDuration
		}
		timescale = uint64(binary.BigEndian.Uint32(payload[20:24]))
		duration = binary.BigEndian.Uint64(payload[24:32])
	default:
		return 0, ErrUnknownDuration
	}

	if timescale == 0 {
		return 0, ErrUnknownDuration
	}

	// Round to the nearest whole second.
	return int((duration + timescale/2) / timescale), nil
}
