package glossary

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingResult describes the detected encoding of an external file
type EncodingResult struct {
	Encoding string
	HasBOM   bool
}

type encodingCandidate struct {
	name     string
	encoding encoding.Encoding
}

// Tried in order; ties go to the earlier candidate. Tabular glossaries from
// Japanese tooling are usually Shift_JIS.
var legacyCandidates = []encodingCandidate{
	{name: "shift-jis", encoding: japanese.ShiftJIS},
	{name: "euc-jp", encoding: japanese.EUCJP},
	{name: "windows-1252", encoding: charmap.Windows1252},
}

// DetectEncoding guesses the encoding of data
func DetectEncoding(data []byte) EncodingResult {
	if result, ok := detectBOM(data); ok {
		return result
	}

	if utf8.Valid(data) {
		return EncodingResult{Encoding: "utf-8"}
	}

	best := ""
	bestErrors := -1
	for _, cand := range legacyCandidates {
		decoded, _, err := transform.Bytes(cand.encoding.NewDecoder(), data)
		if err != nil {
			continue
		}
		errs := strings.Count(string(decoded), string(utf8.RuneError))
		if bestErrors < 0 || errs < bestErrors {
			best, bestErrors = cand.name, errs
		}
	}

	if best == "" {
		return EncodingResult{Encoding: "utf-8"}
	}
	return EncodingResult{Encoding: best}
}

func detectBOM(data []byte) (EncodingResult, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingResult{Encoding: "utf-8", HasBOM: true}, true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return EncodingResult{Encoding: "utf-16le", HasBOM: true}, true
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return EncodingResult{Encoding: "utf-16be", HasBOM: true}, true
	}
	return EncodingResult{}, false
}

// DecodeToUTF8 converts data in any detected encoding to UTF-8 without BOM
func DecodeToUTF8(data []byte) ([]byte, EncodingResult, error) {
	result := DetectEncoding(data)

	var enc encoding.Encoding
	switch result.Encoding {
	case "utf-8":
		if result.HasBOM {
			return data[3:], result, nil
		}
		return data, result, nil
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		for _, cand := range legacyCandidates {
			if cand.name == result.Encoding {
				enc = cand.encoding
				break
			}
		}
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, result, err
	}
	return decoded, result, nil
}
