package db

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseScheme splits a connection string into its scheme and the rest,
// "sqlite:///tmp/x.db" -> ("sqlite", "/tmp/x.db")
func ParseScheme(s string) (scheme string, uri string, err error) {
	const schemeSeparator = "://"
	parts := strings.SplitN(s, schemeSeparator, 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("'%s' is invalid scheme separator", schemeSeparator)
	}

	return parts[0], parts[1], nil
}

// DumpValue returns a compact, log friendly representation of a statement
// argument or a scanned column value
func DumpValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(val)
	case []byte:
		if isPrintable(val) {
			return "'" + string(val) + "'"
		}
		return fmt.Sprintf("X'%x'", val)
	case *interface{}:
		if val == nil {
			return "nil"
		}
		return DumpValue(*val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return DumpValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		var items = make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, DumpValue(rv.Index(i).Interface()))
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DumpValues joins DumpValue of every given value
func DumpValues(values ...interface{}) string {
	var items = make([]string, 0, len(values))
	for _, v := range values {
		items = append(items, DumpValue(v))
	}

	return strings.Join(items, ", ")
}

func isPrintable(bs []byte) bool {
	for _, c := range bs {
		if c < 32 || c > 126 {
			return false
		}
	}

	return true
}
