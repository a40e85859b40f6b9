package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// feedPlayFieldMap caches JSON tag -> struct field index mappings
var (
	feedPlayFieldMap     map[string]int
	feedPlayFieldMapOnce sync.Once
)

func getFeedPlayFieldMap() map[string]int {
	feedPlayFieldMapOnce.Do(func() {
		t := reflect.TypeOf(FeedPlay{})
		feedPlayFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			feedPlayFieldMap[name] = i
		}
	})
	return feedPlayFieldMap
}

// UnmarshalJSON accepts both string-encoded and native JSON values. Feed
// exports quote coordinates and ids ("x":"-69") and sometimes send the
// elapsed clock as a bare number of seconds.
func (p *FeedPlay) UnmarshalJSON(data []byte) error {
	type Alias FeedPlay
	a := (*Alias)(p)

	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	*p = FeedPlay{}
	fieldMap := getFeedPlayFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		s := string(rawVal)
		if len(rawVal) > 1 && rawVal[0] == '"' {
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "null" {
			continue
		}
		coerceStringToField(fv, s)
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type and
// reports whether it succeeded. Pointer fields are allocated only on success.
func coerceStringToField(fv reflect.Value, s string) bool {
	if fv.Kind() == reflect.Ptr {
		ptr := reflect.New(fv.Type().Elem())
		if !coerceStringToField(ptr.Elem(), s) {
			return false
		}
		fv.Set(ptr)
		return true
	}

	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		fv.SetFloat(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "28.0" → truncate to int
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		fv.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		fv.SetBool(b)
	case reflect.String:
		fv.SetString(s)
	default:
		return false
	}
	return true
}
