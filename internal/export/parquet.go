package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// headerKey is the field metadata key holding a column's export header.
const headerKey = "header"

type valueKind int

const (
	kindNone valueKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindTime
)

// Parquet writes the rows as a single Snappy-compressed row group. Field
// names are column ids; each field's metadata carries its header. Column
// types are inferred from the non-nil values: integers, floats, booleans
// and times keep their type, mixed numbers widen to float64 and anything
// else is written as text.
func Parquet(p table.ExportPayload) (*table.ExportFile, error) {
	if len(p.ColumnIDs) == 0 {
		return nil, fmt.Errorf("parquet export needs at least one column")
	}

	kinds := make([]valueKind, len(p.ColumnIDs))
	fields := make([]arrow.Field, len(p.ColumnIDs))
	for j, id := range p.ColumnIDs {
		kinds[j] = columnKind(p.Rows, j)
		header := id
		if j < len(p.Headers) {
			header = p.Headers[j]
		}
		fields[j] = arrow.Field{
			Name:     id,
			Type:     arrowType(kinds[j]),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{headerKey}, []string{header}),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for j, k := range kinds {
		appendColumn(b.Field(j), k, p.Rows, j)
	}
	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(schema, &buf, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}

	return &table.ExportFile{
		Name:        p.FileName + ".parquet",
		ContentType: ContentTypeParquet,
		Data:        buf.Bytes(),
	}, nil
}

func arrowType(k valueKind) arrow.DataType {
	switch k {
	case kindInt:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	case kindTime:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

func kindOf(v any) valueKind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt
	case float32, float64:
		return kindFloat
	case bool:
		return kindBool
	case time.Time:
		return kindTime
	default:
		return kindString
	}
}

// columnKind unifies the kinds of every non-nil value in column j.
func columnKind(rows [][]any, j int) valueKind {
	k := kindNone
	for _, row := range rows {
		if j >= len(row) || row[j] == nil {
			continue
		}
		vk := kindOf(row[j])
		switch {
		case k == kindNone || k == vk:
			k = vk
		case (k == kindInt && vk == kindFloat) || (k == kindFloat && vk == kindInt):
			k = kindFloat
		default:
			return kindString
		}
	}
	if k == kindNone {
		return kindString
	}
	return k
}

func appendColumn(fb array.Builder, k valueKind, rows [][]any, j int) {
	for _, row := range rows {
		if j >= len(row) || row[j] == nil {
			fb.AppendNull()
			continue
		}
		v := row[j]
		switch k {
		case kindInt:
			fb.(*array.Int64Builder).Append(toInt64(v))
		case kindFloat:
			fb.(*array.Float64Builder).Append(toFloat64(v))
		case kindBool:
			fb.(*array.BooleanBuilder).Append(v.(bool))
		case kindTime:
			fb.(*array.TimestampBuilder).Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
		default:
			fb.(*array.StringBuilder).Append(FormatValue(v))
		}
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return 0
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return float64(toInt64(v))
}
