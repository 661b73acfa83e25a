package quickbase

import (
	"bytes"
	"io"
	"mime"
	"regexp"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

var (
	utf8BOM     = []byte("\xef\xbb\xbf")
	replacement = []byte(string(utf8.RuneError))
	xmlDeclEnc  = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
)

// NormalizeCharset re-encodes a response body as UTF-8 and returns the name
// of the charset it was detected as.
//
// The service does not reliably honor the requested encoding, so bodies that
// are not valid UTF-8 are sniffed: a byte order mark, the Content-Type
// header, the XML declaration, and finally a windows-1252 fallback. A hint
// claiming UTF-8 for invalid UTF-8 is ignored. Undecodable sequences become
// U+FFFD so that the document still reaches the errcode check.
func NormalizeCharset(raw []byte, contentType string) ([]byte, string) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, "utf-8"
	}

	if !hasCharset(contentType) {
		if m := xmlDeclEnc.FindSubmatch(raw); m != nil {
			contentType = "application/xml; charset=" + string(m[1])
		}
	}

	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" {
		enc, name, _ = charset.DetermineEncoding(raw, "")
	}
	if name == "utf-8" {
		return bytes.ToValidUTF8(raw, replacement), name
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return bytes.ToValidUTF8(raw, replacement), name
	}
	return bytes.TrimPrefix(out, utf8BOM), name
}

func hasCharset(contentType string) bool {
	if contentType == "" {
		return false
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := params["charset"]
	return ok
}

// passthroughCharset lets the XML parser accept any declared encoding once
// NormalizeCharset has already converted the bytes to UTF-8.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
