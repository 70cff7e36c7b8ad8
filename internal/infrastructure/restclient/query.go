package restclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// Params are query parameters. Nil values are skipped; slices and arrays
// repeat the key once per non-nil element; everything else is formatted
// with its default string form.
type Params map[string]any

// Encode serializes p into a query string with keys in sorted order.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for key, val := range p {
		v, ok := deref(reflect.ValueOf(val))
		if !ok {
			continue
		}
		if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < v.Len(); i++ {
				if e, ok := deref(v.Index(i)); ok {
					values.Add(key, fmt.Sprint(e.Interface()))
				}
			}
			continue
		}
		values.Set(key, fmt.Sprint(v.Interface()))
	}
	return values.Encode()
}

// deref follows pointers and interfaces, reporting false for nil.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}
