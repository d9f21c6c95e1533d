package file

import "bytes"

// binarySample is how much of the content is scanned for NUL bytes, as git does.
const binarySample = 8000

// textBOMs are byte order marks of encodings that legitimately contain NUL bytes.
var textBOMs = [][]byte{
	{0xFF, 0xFE, 0x00, 0x00}, // UTF-32 LE
	{0x00, 0x00, 0xFE, 0xFF}, // UTF-32 BE
	{0xFF, 0xFE},             // UTF-16 LE
	{0xFE, 0xFF},             // UTF-16 BE
}

// isBinary reports whether content looks like binary data.
func isBinary(content []byte) bool {
	for _, bom := range textBOMs {
		if bytes.HasPrefix(content, bom) {
			return false
		}
	}
	sample := content[:min(len(content), binarySample)]
	return bytes.IndexByte(sample, 0) >= 0
}
