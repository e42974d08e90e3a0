package catalog

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Association says which local identifier belongs to which upstream record.
// Callers hand it over in one of three shapes: an ordered sequence of local
// ids aligned with the records, a mapping of record key to local id, or a
// mapping whose keys are the local ids. The zero value is empty.
type Association struct {
	keys    []any
	values  []any
	mapping bool
}

// Pair is one entry of an ordered mapping.
type Pair struct {
	Key   any
	Value any
}

// Sequence builds a positional association.
func Sequence[T any](ids ...T) Association {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return Association{values: values}
}

// Mapping builds an association from ordered key/value pairs.
func Mapping(pairs ...Pair) Association {
	a := Association{
		keys:    make([]any, len(pairs)),
		values:  make([]any, len(pairs)),
		mapping: true,
	}
	for i, p := range pairs {
		a.keys[i] = p.Key
		a.values[i] = p.Value
	}
	return a
}

// AssociationFrom accepts the loosely typed shapes callers pass around:
// slices and arrays become sequences, maps become mappings and raw JSON is
// decoded with DecodeAssociation. Go maps have no order, so their entries are
// sorted by key. Anything else yields an empty association.
func AssociationFrom(v any) Association {
	switch x := v.(type) {
	case nil:
		return Association{}
	case Association:
		return x
	case *Association:
		if x == nil {
			return Association{}
		}
		return *x
	case []Pair:
		return Mapping(x...)
	case json.RawMessage:
		return DecodeAssociation(x)
	case []byte:
		return DecodeAssociation(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return Association{values: values}
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return compareKeys(a.Interface(), b.Interface())
		})
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
		}
		return Mapping(pairs...)
	}
	return Association{}
}

// DecodeAssociation reads a JSON array or object, keeping object keys in
// document order. Object keys that are plain decimal integers are treated as
// integers. Malformed input yields an empty association.
func DecodeAssociation(data []byte) Association {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Association{}
	}

	switch tok {
	case json.Delim('['):
		var values []any
		for dec.More() {
			var v any
			if err := dec.Decode(&v); err != nil {
				return Association{}
			}
			values = append(values, v)
		}
		return Association{values: values}
	case json.Delim('{'):
		var pairs []Pair
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return Association{}
			}
			key, ok := kt.(string)
			if !ok {
				return Association{}
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return Association{}
			}
			pairs = append(pairs, Pair{Key: objectKey(key), Value: v})
		}
		return Mapping(pairs...)
	}
	return Association{}
}

// Len reports the number of entries.
func (a Association) Len() int {
	return len(a.values)
}

// IsMapping reports whether the association was given as a mapping.
func (a Association) IsMapping() bool {
	return a.mapping
}

// LocalIDs resolves the association to the sequence of local ids to apply
// positionally. For mappings the values win unless they are a plain index
// run (0..n-1 or 1..n); then the keys, unless they are one too; then
// whichever side holds anything, values first.
//
// Real ids that happen to form 0,1,2 are indistinguishable from an index run.
// The precedence above is kept as is.
func (a Association) LocalIDs() []*int64 {
	return toLocalIDs(a.chosen())
}

func (a Association) chosen() []any {
	if !a.mapping {
		return a.values
	}
	switch {
	case present(a.values) && !isIndexSequence(a.values):
		return a.values
	case present(a.keys) && !isIndexSequence(a.keys):
		return a.keys
	case present(a.values):
		return a.values
	}
	return a.keys
}

func toLocalIDs(seq []any) []*int64 {
	ids := make([]*int64, len(seq))
	for i, v := range seq {
		if id, ok := LocalID(v); ok {
			ids[i] = &id
		}
	}
	return ids
}

// present reports whether seq holds at least one non-null entry.
func present(seq []any) bool {
	for _, v := range seq {
		if !isNull(v) {
			return true
		}
	}
	return false
}

// isIndexSequence reports whether seq is exactly 0..n-1 or 1..n, in order,
// made only of integers.
func isIndexSequence(seq []any) bool {
	if len(seq) == 0 {
		return false
	}
	first, ok := integer(seq[0])
	if !ok || (first != 0 && first != 1) {
		return false
	}
	for i, v := range seq {
		n, ok := integer(v)
		if !ok || n != first+int64(i) {
			return false
		}
	}
	return true
}

// integer accepts only values that are integers by type; strings and floats
// are not index counters.
func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return cast.ToInt64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	}
	return 0, false
}

// LocalID coerces an association entry to a local id. Integers, integral
// floats, JSON numbers and decimal strings are accepted; ids must be
// positive. Anything else is treated as "no id".
func LocalID(v any) (int64, bool) {
	if isNull(v) {
		return 0, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		return LocalID(rv.Elem().Interface())
	}

	var id int64
	switch x := v.(type) {
	case bool:
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		id = n
	case float32:
		return LocalID(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) || math.Abs(x) > math.MaxInt64 {
			return 0, false
		}
		id = int64(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			id = n
		} else if f, err := x.Float64(); err == nil {
			return LocalID(f)
		} else {
			return 0, false
		}
	default:
		n, ok := integer(v)
		if !ok {
			return 0, false
		}
		id = n
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func objectKey(key string) any {
	if n, err := strconv.ParseInt(key, 10, 64); err == nil && strconv.FormatInt(n, 10) == key {
		return json.Number(key)
	}
	return key
}

// compareKeys orders integer keys numerically ahead of everything else,
// which is ordered by its printed form.
func compareKeys(a, b any) int {
	ai, aok := integer(a)
	bi, bok := integer(b)
	switch {
	case aok && bok:
		return cmp.Compare(ai, bi)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
