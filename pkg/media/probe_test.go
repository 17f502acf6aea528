package media

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(name string, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(buf[:4], uint32(8+len(payload)))
	copy(buf[4:8], name)
	copy(buf[8:], payload)
	return buf
}

func mvhdV0(timescale, duration uint32) []byte {
	payload := make([]byte, 20)
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	return box("mvhd", payload)
}

func mvhdV1(timescale uint32, duration uint64) []byte {
	payload := make([]byte, 32)
	payload[0] = 1
	binary.BigEndian.PutUint32(payload[20:24], timescale)
	binary.BigEndian.PutUint64(payload[24:32], duration)
	return box("mvhd", payload)
}

func mp4(boxes ...[]byte) *bytes.Reader {
	file := box("ftyp", []byte("isom\x00\x00\x02\x00"))
	for _, b := range boxes {
		file = append(file, b...)
	}
	return bytes.NewReader(file)
}

func TestProbeDurationVersion0(t *testing.T) {
	// 95.4 seconds at a millisecond timescale rounds down.
	r := mp4(box("moov", mvhdV0(1000, 95400)))

	seconds, err := ProbeDuration(r)
	require.NoError(t, err)
	assert.Equal(t, 95, seconds)
}

func TestProbeDurationRoundsUp(t *testing.T) {
	r := mp4(box("moov", mvhdV0(1000, 95600)))

	seconds, err := ProbeDuration(r)
	require.NoError(t, err)
	assert.Equal(t, 96, seconds)
}

func TestProbeDurationVersion1(t *testing.T) {
	r := mp4(box("moov", mvhdV1(90000, 90000*3600)))

	seconds, err := ProbeDuration(r)
	require.NoError(t, err)
	assert.Equal(t, 3600, seconds)
}

func TestProbeDurationSkipsLeadingBoxes(t *testing.T) {
	// moov sits after mdat, as it does in non-faststart files.
	r := mp4(box("mdat", make([]byte, 256)), box("moov", mvhdV0(600, 600*42)))

	seconds, err := ProbeDuration(r)
	require.NoError(t, err)
	assert.Equal(t, 42, seconds)
}

func TestProbeDurationRewindsReader(t *testing.T) {
	r := mp4(box("moov", mvhdV0(1000, 1000)))

	_, err := ProbeDuration(r)
	require.NoError(t, err)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos, "reader must be reusable for the upload")
}

func TestProbeDurationNoMovieHeader(t *testing.T) {
	_, err := ProbeDuration(mp4(box("mdat", make([]byte, 64))))
	assert.ErrorIs(t, err, ErrUnknownDuration)

	_, err = ProbeDuration(bytes.NewReader([]byte("not an mp4 at all")))
	assert.ErrorIs(t, err, ErrUnknownDuration)
}

func TestProbeDurationZeroTimescale(t *testing.T) {
	_, err := ProbeDuration(mp4(box("moov", mvhdV0(0, 1000))))
	assert.ErrorIs(t, err, ErrUnknownDuration)
}
