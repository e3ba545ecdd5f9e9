package stream

import (
	"bufio"
	"io"
)

const maxFrameSize = 4 << 20

// FrameFunc receives decoded frames. Returning an error stops reading
type FrameFunc func(*Frame) error

// Read decodes frames from r until EOF, a malformed line or fn fails
func Read(r io.Reader, fn FrameFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		f, err := ParseFrame(line)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Collect reads a whole stream, returning its decoded frames
func Collect(r io.Reader) ([]*Frame, error) {
	var res []*Frame
	err := Read(r, func(f *Frame) error {
		res = append(res, f)
		return nil
	})
	return res, err
}
