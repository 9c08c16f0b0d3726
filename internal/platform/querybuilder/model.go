package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// fieldIndexes caches the db-tagged field positions of each model type.
var fieldIndexes sync.Map // map[reflect.Type]modelColumns

type modelColumns struct {
	names   []string
	indexes []int
}

// InsertModel builds an insert from the exported db-tagged fields of model. Fields tagged
// db:"-" or without a tag are skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	cols := columnsOf(value.Type())
	if len(cols.names) == 0 {
		return "", nil, fmt.Errorf("model %s has no db columns", value.Type())
	}
	values := make([]any, len(cols.indexes))
	for i, idx := range cols.indexes {
		values[i] = value.Field(idx).Interface()
	}

	return InsertInto(table).Columns(cols.names...).Values(values...).Suffix(suffix).ToSQL()
}

func columnsOf(typ reflect.Type) modelColumns {
	if cached, ok := fieldIndexes.Load(typ); ok {
		return cached.(modelColumns)
	}

	var out modelColumns
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		out.names = append(out.names, name)
		out.indexes = append(out.indexes, i)
	}

	fieldIndexes.Store(typ, out)
	return out
}
