package vesper

import (
	"fmt"
	"reflect"

	stgpsr "github.com/yuin/stagparser"
)

// csvColumn is one resolved column of an ImuRow-shaped struct: its
// name for the header row, the struct field index to pull the value
// from, and which formatter to run it through.
type csvColumn struct {
	Name      string
	FieldIdx  int
	Formatter string
}

// csvSchema walks an ImuRow (or any struct tagged the same way) with
// stagparser and returns its columns in declaration order. This
// replaces the teacher's schemaAttrs (schema.go), which walks the
// same kind of struct tag to build TileDB attribute definitions
// instead of CSV columns.
func csvSchema(row any) ([]csvColumn, error) {
	values := reflect.ValueOf(row)
	if values.Kind() == reflect.Ptr {
		values = values.Elem()
	}
	types := values.Type()

	defs, err := stgpsr.ParseStruct(row, "csv")
	if err != nil {
		return nil, fmt.Errorf("vesper: parsing csv struct tags: %w", err)
	}

	cols := make([]csvColumn, 0, types.NumField())
	for i := 0; i < types.NumField(); i++ {
		name := types.Field(i).Name
		fieldDefs := make(map[string]stgpsr.Definition)
		for _, d := range defs[name] {
			fieldDefs[d.Name()] = d
		}

		colDef, ok := fieldDefs["col"]
		if !ok {
			return nil, fmt.Errorf("vesper: field %s missing csv col tag", name)
		}
		colName, _ := colDef.Attribute("col")

		fmtName := "string"
		if fmtDef, ok := fieldDefs["fmt"]; ok {
			if v, ok := fmtDef.Attribute("fmt"); ok {
				fmtName = v
			}
		}

		cols = append(cols, csvColumn{Name: colName, FieldIdx: i, Formatter: fmtName})
	}

	return cols, nil
}
