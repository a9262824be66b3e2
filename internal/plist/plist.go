// Package plist converts between text replacement records and the
// property-list XML format used by macOS keyboard settings exports. Each
// record is a dict with string-valued "phrase", "shortcut", and optionally
// repeated "tags" keys inside a top-level array.
package plist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/snipbook/snipbook/internal/entry"
)

// ExportFileName is the fixed name for exported files.
const ExportFileName = "TextReplacement_export.xml"

const (
	header = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE plist PUBLIC \"-//Apple//DTD PLIST 1.0//EN\" \"http://www.apple.com/DTDs/PropertyList-1.0.dtd\">\n<plist version=\"1.0\">\n"
	footer = "</plist>\n"
)

// ErrParse indicates the input was not a well-formed plist document.
var ErrParse = errors.New("plist: XML parsing error")

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Parse reads a plist document and returns its records in document order.
// Dicts whose shortcut and phrase are both empty after trimming are
// dropped. A malformed document returns an error wrapping ErrParse; the
// caller's state is never touched.
func Parse(r io.Reader) ([]entry.Record, error) {
	decoder := xml.NewDecoder(r)

	var (
		records []entry.Record
		path    []string
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "dict" && isArrayPath(path) {
				record, err := parseDict(decoder)
				if err != nil {
					return nil, err
				}
				if record.Shortcut != "" || record.Phrase != "" {
					records = append(records, record)
				}
				continue
			}
			path = append(path, tok.Name.Local)
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}

	return records, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string) ([]entry.Record, error) {
	return Parse(strings.NewReader(doc))
}

func isArrayPath(path []string) bool {
	return len(path) == 2 && path[0] == "plist" && path[1] == "array"
}

// parseDict consumes tokens until the dict closes, pairing each <key> with
// the <string> that follows it. Unknown keys and unpaired elements are
// skipped.
func parseDict(decoder *xml.Decoder) (entry.Record, error) {
	var (
		record  entry.Record
		pending string
		haveKey bool
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			return entry.Record{}, fmt.Errorf("%w: %v", ErrParse, err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "key":
				var name string
				if err := decoder.DecodeElement(&name, &tok); err != nil {
					return entry.Record{}, fmt.Errorf("%w: %v", ErrParse, err)
				}
				pending = strings.TrimSpace(name)
				haveKey = true
			case "string":
				var value string
				if err := decoder.DecodeElement(&value, &tok); err != nil {
					return entry.Record{}, fmt.Errorf("%w: %v", ErrParse, err)
				}
				if !haveKey {
					continue
				}
				switch pending {
				case "phrase":
					record.Phrase = value
				case "shortcut":
					record.Shortcut = value
				case "tags":
					if tag := strings.TrimSpace(value); tag != "" {
						record.Tags = append(record.Tags, tag)
					}
				}
				haveKey = false
			default:
				if err := decoder.Skip(); err != nil {
					return entry.Record{}, fmt.Errorf("%w: %v", ErrParse, err)
				}
				haveKey = false
			}
		case xml.EndElement:
			if tok.Name.Local == "dict" {
				record.Shortcut = strings.TrimSpace(record.Shortcut)
				record.Phrase = strings.TrimSpace(record.Phrase)
				return record, nil
			}
		}
	}
}

// Serialize renders records as a plist document in the given order.
func Serialize(records []entry.Record) string {
	var body strings.Builder
	for _, record := range records {
		body.WriteString("\t<dict>\n")
		body.WriteString("\t\t<key>phrase</key>\n")
		fmt.Fprintf(&body, "\t\t<string>%s</string>\n", escaper.Replace(record.Phrase))
		body.WriteString("\t\t<key>shortcut</key>\n")
		fmt.Fprintf(&body, "\t\t<string>%s</string>\n", escaper.Replace(record.Shortcut))
		for _, tag := range record.Tags {
			body.WriteString("\t\t<key>tags</key>\n")
			fmt.Fprintf(&body, "\t\t<string>%s</string>\n", escaper.Replace(tag))
		}
		body.WriteString("\t</dict>\n")
	}

	return header + "<array>\n" + body.String() + "</array>\n" + footer
}
