package util

import (
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// SniffImage reads the head of r, detects its type and returns a reader that
// replays the sniffed bytes followed by the rest of r.
func SniffImage(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	return mt, io.MultiReader(bytes.NewReader(head), r), nil
}

// IsAllowedImage reports whether mt is, or descends from, an allowed image type.
func IsAllowedImage(mt *mimetype.MIME) bool {
	if mt == nil {
		return false
	}
	return mimetype.EqualsAny(mt.String(), AllowedImageTypes...) ||
		isAllowedParent(mt.Parent())
}

func isAllowedParent(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mimetype.EqualsAny(mt.String(), AllowedImageTypes...) {
			return true
		}
	}
	return false
}
