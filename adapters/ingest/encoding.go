package ingest

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeToUTF8 converts raw file bytes of unknown encoding into UTF-8 text.
// BOMs win outright; otherwise valid UTF-8 passes through and anything else
// falls back to Latin-1, which never fails and keeps byte offsets stable.
func decodeToUTF8(raw []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), "utf-8-sig", nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", "", err
		}
		return string(decoded), "utf-16le", nil
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", "", err
		}
		return string(decoded), "utf-16be", nil
	case utf8.Valid(raw):
		return string(raw), "utf-8", nil
	default:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", "", err
		}
		return string(decoded), "latin-1", nil
	}
}
