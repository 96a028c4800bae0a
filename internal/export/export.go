// Package export encodes table export payloads into files.
//
// Each encoder has the signature of table.ExportBlobFunc, so it can be set
// directly as Options.ExportFileBlob. [ByType] picks the encoder from the
// payload's file type:
//
//	opts.ExportFileBlob = export.ByType
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// Content types of the encoded files.
const (
	ContentTypeCSV     = "text/csv; charset=utf-8"
	ContentTypeJSON    = "application/json"
	ContentTypeParquet = "application/vnd.apache.parquet"
)

// ErrUnsupportedFormat is returned by ByType for an unknown file type.
var ErrUnsupportedFormat = errors.New("unsupported export format")

var encoders = map[string]table.ExportBlobFunc{
	"csv":     CSV,
	"json":    JSON,
	"parquet": Parquet,
}

// Formats returns the file types ByType understands, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for k := range encoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether ByType can encode fileType.
func Supported(fileType string) bool {
	_, ok := encoders[strings.ToLower(fileType)]
	return ok
}

// ByType encodes p with the encoder registered for p.FileType.
func ByType(p table.ExportPayload) (*table.ExportFile, error) {
	enc, ok := encoders[strings.ToLower(p.FileType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, p.FileType)
	}
	return enc(p)
}

// CSV writes a header row followed by one record per row.
func CSV(p table.ExportPayload) (*table.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(p.Headers) > 0 {
		if err := w.Write(p.Headers); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}

	record := make([]string, len(p.Headers))
	for i, row := range p.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = FormatValue(row[j])
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return &table.ExportFile{
		Name:        p.FileName + ".csv",
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

// JSON writes an array with one object per row, keyed by column id.
func JSON(p table.ExportPayload) (*table.ExportFile, error) {
	records := make([]map[string]any, 0, len(p.Rows))
	for _, row := range p.Rows {
		rec := make(map[string]any, len(p.ColumnIDs))
		for j, id := range p.ColumnIDs {
			if j < len(row) {
				rec[id] = row[j]
			} else {
				rec[id] = nil
			}
		}
		records = append(records, rec)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return &table.ExportFile{
		Name:        p.FileName + ".json",
		ContentType: ContentTypeJSON,
		Data:        buf.Bytes(),
	}, nil
}

// FormatValue renders a cell value as text. Nil becomes the empty string and
// times use RFC 3339.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
