package sanitize

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// CoerceValue converts an arbitrary record value into a cell value.
// Scalars pass through, sequences are joined with ", ", maps and structs are
// serialized to compact JSON, and anything else is stringified.
func CoerceValue(v interface{}) models.Value {
	switch x := v.(type) {
	case nil:
		return models.Null()
	case models.Value:
		return x
	case *models.Value:
		if x == nil {
			return models.Null()
		}
		return *x
	case string:
		return models.Text(x)
	case bool:
		return models.Bool(x)
	case int:
		return models.Number(float64(x))
	case int8:
		return models.Number(float64(x))
	case int16:
		return models.Number(float64(x))
	case int32:
		return models.Number(float64(x))
	case int64:
		return models.Number(float64(x))
	case uint:
		return models.Number(float64(x))
	case uint8:
		return models.Number(float64(x))
	case uint16:
		return models.Number(float64(x))
	case uint32:
		return models.Number(float64(x))
	case uint64:
		return models.Number(float64(x))
	case float32:
		return models.Number(float64(x))
	case float64:
		return models.Number(x)
	case json.Number:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return models.Number(f)
		}
		return models.Text(string(x))
	case time.Time:
		return models.Timestamp(x)
	case *time.Time:
		if x == nil {
			return models.Null()
		}
		return models.Timestamp(*x)
	case []byte:
		return models.Text(string(x))
	case []string:
		return models.Text(strings.Join(x, ", "))
	case fmt.Stringer:
		return models.Text(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return models.Null()
		}
		return CoerceValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, CoerceValue(rv.Index(i).Interface()).String())
		}
		return models.Text(strings.Join(parts, ", "))
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return models.Text(fmt.Sprint(v))
		}
		return models.Text(string(b))
	}
	return models.Text(fmt.Sprint(v))
}

// IsMissing reports whether a raw record value counts as absent.
func IsMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case models.Value:
		return x.IsNull()
	case *models.Value:
		return x == nil || x.IsNull()
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
