package table

import (
	"fmt"
)

// ExportRequest selects what ExportData writes.
type ExportRequest struct {
	// All exports every core row and every exportable column. Otherwise the
	// filtered, sorted, expanded rows and the visible columns are used.
	All bool
	// FileType is passed to the blob provider. Empty means "csv".
	FileType string
}

// ExportPayload is the tabular snapshot handed to Options.ExportFileBlob.
type ExportPayload struct {
	FileType  string
	FileName  string
	All       bool
	ColumnIDs []string
	Headers   []string
	Rows      [][]any
}

// ExportFile is an encoded export.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportBlobFunc encodes a payload into a file.
type ExportBlobFunc func(p ExportPayload) (*ExportFile, error)

const defaultExportFileType = "csv"

type exportFeature[T any] struct{}

// ExportFeature snapshots rows and columns into files through
// Options.ExportFileBlob.
func ExportFeature[T any]() Feature[T] { return exportFeature[T]{} }

func (exportFeature[T]) Name() string     { return FeatureExport }
func (exportFeature[T]) bit() featureBit { return bitExport }

func (exportFeature[T]) DefaultOptions(_ *Table[T], o *Options[T]) {
	if o.ExportFileName == nil {
		o.ExportFileName = defaultExportFileName
	}
}

func defaultExportFileName(_ string, all bool) string {
	if all {
		return "all-data"
	}
	return "data"
}

// GetCanExport reports whether the column contributes to exports.
func (c *Column[T]) GetCanExport() bool {
	if !c.table.has(bitExport) || c.table.options.DisableExport || c.Def.DisableExport {
		return false
	}
	return c.HasAccessor() || c.Def.ExportValue != nil
}

// ExportHeader returns the column's export header: ExportHeader, else the
// header text, else the id.
func (c *Column[T]) ExportHeader() string {
	if c.Def.ExportHeader != "" {
		return c.Def.ExportHeader
	}
	return c.HeaderText()
}

// ExportData snapshots the table and encodes it through
// Options.ExportFileBlob.
func (t *Table[T]) ExportData(req ExportRequest) (*ExportFile, error) {
	const op = "table.ExportData"
	if !t.has(bitExport) {
		return nil, configError(op, "the %s feature is not registered", FeatureExport)
	}
	if t.options.ExportFileBlob == nil {
		return nil, configError(op, "no export blob provider configured")
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = defaultExportFileType
	}

	source := t.GetAllLeafColumns()
	if !req.All {
		source = t.GetVisibleLeafColumns()
	}
	var cols []*Column[T]
	for _, c := range source {
		if c.GetCanExport() {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		t.warn("export has no exportable columns", "all", req.All, "fileType", fileType)
	}

	rows := t.GetPrePaginationRowModel().Rows
	if req.All {
		rows = t.GetCoreRowModel().Rows
	}

	p := ExportPayload{
		FileType:  fileType,
		FileName:  t.options.ExportFileName(fileType, req.All),
		All:       req.All,
		ColumnIDs: make([]string, len(cols)),
		Headers:   make([]string, len(cols)),
		Rows:      make([][]any, 0, len(rows)),
	}
	for i, c := range cols {
		p.ColumnIDs[i] = c.ID
		p.Headers[i] = c.ExportHeader()
	}
	for _, r := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			if c.Def.ExportValue != nil {
				values[i] = c.Def.ExportValue(r, c)
			} else {
				values[i] = r.GetValue(c.ID)
			}
		}
		p.Rows = append(p.Rows, values)
	}

	f, err := t.options.ExportFileBlob(p)
	if err != nil {
		return nil, fmt.Errorf("%s: encode %s: %w", op, fileType, err)
	}
	if f == nil {
		return nil, invariantError(op, "export blob provider returned no file")
	}
	return f, nil
}
