package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrPartTooLarge indicates a zip part that inflates beyond the size limit.
var ErrPartTooLarge = errors.New("zip part exceeds size limit")

// sheetStates reads the state attribute ("hidden", "veryHidden") of every
// <sheet> element in xl/workbook.xml, keyed by sheet name. Sheets without a
// state attribute are absent from the result. A positive limit caps the
// inflated size of the part.
func sheetStates(data []byte, limit int64) (map[string]string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	workbookXML, err := readZipFile(r, "xl/workbook.xml", limit)
	if err != nil {
		return nil, err
	}
	return parseWorkbookSheetStates(workbookXML), nil
}

func readZipFile(r *zip.Reader, name string, limit int64) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		if limit <= 0 {
			return io.ReadAll(rc)
		}
		data, err := io.ReadAll(io.LimitReader(rc, limit+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > limit {
			return nil, fmt.Errorf("%s: %w", name, ErrPartTooLarge)
		}
		return data, nil
	}
	return nil, nil
}

func parseWorkbookSheetStates(data []byte) map[string]string {
	result := make(map[string]string) // sheet name -> state
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, state string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "state":
					state = attr.Value
				}
			}
			if name != "" && state != "" {
				result[name] = state
			}
		}
	}

	return result
}
