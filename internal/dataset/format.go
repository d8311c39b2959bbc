package dataset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character set of a dataset file.
type Encoding string

// Supported encodings.
const (
	EncodingUTF8   Encoding = "utf8"
	EncodingLatin1 Encoding = "latin1"
)

// Format describes how the three tables are laid out on disk.
type Format struct {
	Name      string
	Extension string
	// Delimiter may be longer than one character (MovieLens uses "::").
	Delimiter string
	// HasHeader selects columns by header name instead of position.
	HasHeader bool
	Encoding  Encoding
}

var (
	// FormatDat is the MovieLens 1M layout: ratings.dat, movies.dat and
	// users.dat, "::" separated, no header, ISO-8859-1 text.
	FormatDat = Format{Name: "dat", Extension: ".dat", Delimiter: "::", Encoding: EncodingLatin1}
	// FormatCSV is comma separated with a header row and UTF-8 text.
	FormatCSV = Format{Name: "csv", Extension: ".csv", Delimiter: ",", HasHeader: true, Encoding: EncodingUTF8}
)

// ParseFormat resolves a format name and an optional encoding override.
func ParseFormat(name, encoding string) (Format, error) {
	var f Format
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dat", "":
		f = FormatDat
	case "csv":
		f = FormatCSV
	default:
		return Format{}, fmt.Errorf("dataset: unknown format %q", name)
	}

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "":
	case "utf8", "utf-8":
		f.Encoding = EncodingUTF8
	case "latin1", "iso-8859-1":
		f.Encoding = EncodingLatin1
	default:
		return Format{}, fmt.Errorf("dataset: unknown encoding %q", encoding)
	}
	return f, nil
}

// FileName returns the file holding table in this format.
func (f Format) FileName(table string) string {
	return table + f.Extension
}

func (f Format) decode(r io.Reader) io.Reader {
	if f.Encoding == EncodingLatin1 {
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	return r
}
