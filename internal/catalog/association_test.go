package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenny/internal/openlibrary"
)

func docs(n int) []openlibrary.Doc {
	out := make([]openlibrary.Doc, n)
	for i := range out {
		out[i] = openlibrary.Doc{Key: "/works/OL" + string(rune('1'+i)) + "W"}
	}
	return out
}

func ids(assigned []Assigned[openlibrary.Doc]) []any {
	out := make([]any, len(assigned))
	for i, a := range assigned {
		if a.LocalID != nil {
			out[i] = *a.LocalID
		}
	}
	return out
}

var fixtureIDs = []int64{37044497, 37044487, 51733522, 37044778, 37044726}

func TestReconcile_Positional(t *testing.T) {
	for n := 0; n <= len(fixtureIDs); n++ {
		got := Reconcile(docs(n), Sequence(fixtureIDs[:n]...))
		require.Len(t, got, n)
		for i, a := range got {
			require.NotNil(t, a.LocalID)
			assert.Equal(t, fixtureIDs[i], *a.LocalID)
			assert.Equal(t, docs(n)[i].Key, a.Source.Key)
		}
	}
}

func TestReconcile_ShortSequenceLeavesTrailingRecordsEmpty(t *testing.T) {
	got := Reconcile(docs(3), Sequence(int64(7)))
	assert.Equal(t, []any{int64(7), nil, nil}, ids(got))
}

func TestReconcile_LongSequenceIsTruncated(t *testing.T) {
	got := Reconcile(docs(2), Sequence(fixtureIDs...))
	assert.Equal(t, []any{int64(37044497), int64(37044487)}, ids(got))
}

func TestReconcile_NonPositiveIDsAreAbsent(t *testing.T) {
	got := Reconcile(docs(3), Sequence(int64(0), int64(4), int64(-2)))
	assert.Equal(t, []any{nil, int64(4), nil}, ids(got))
}

func TestReconcile_EmptyAssociation(t *testing.T) {
	for name, assoc := range map[string]Association{
		"zero":     {},
		"nil":      AssociationFrom(nil),
		"sequence": Sequence[int64](),
		"mapping":  Mapping(),
	} {
		t.Run(name, func(t *testing.T) {
			got := Reconcile(docs(2), assoc)
			assert.Equal(t, []any{nil, nil}, ids(got))
		})
	}
}

func TestReconcile_OrderedIndexMapping(t *testing.T) {
	pairs := make([]Pair, len(fixtureIDs))
	for i, id := range fixtureIDs {
		pairs[i] = Pair{Key: i, Value: id}
	}

	got := Reconcile(docs(5), Mapping(pairs...))

	assert.Equal(t, []any{
		int64(37044497), int64(37044487), int64(51733522), int64(37044778), int64(37044726),
	}, ids(got))
}

func TestReconcile_KeyToLocalIDMapping(t *testing.T) {
	assoc := Mapping(
		Pair{Key: "/works/OL1W", Value: 42},
		Pair{Key: "/works/OL2W", Value: 17},
	)

	got := Reconcile(docs(2), assoc)

	assert.Equal(t, []any{int64(42), int64(17)}, ids(got))
}

func TestReconcile_IndexValuesFallBackToKeys(t *testing.T) {
	t.Run("zero based", func(t *testing.T) {
		assoc := Mapping(Pair{Key: 37044497, Value: 0}, Pair{Key: 37044487, Value: 1})
		assert.Equal(t, []any{int64(37044497), int64(37044487)}, ids(Reconcile(docs(2), assoc)))
	})
	t.Run("one based", func(t *testing.T) {
		assoc := Mapping(Pair{Key: 37044497, Value: 1}, Pair{Key: 37044487, Value: 2})
		assert.Equal(t, []any{int64(37044497), int64(37044487)}, ids(Reconcile(docs(2), assoc)))
	})
}

func TestReconcile_KeysViewWithNullValues(t *testing.T) {
	assoc := Mapping(
		Pair{Key: 37044497, Value: nil},
		Pair{Key: 37044487, Value: nil},
		Pair{Key: 51733522, Value: nil},
	)

	got := Reconcile(docs(3), assoc)

	assert.Equal(t, []any{int64(37044497), int64(37044487), int64(51733522)}, ids(got))
}

func TestReconcile_BothSidesIndexPrefersValues(t *testing.T) {
	assoc := Mapping(Pair{Key: 0, Value: 1}, Pair{Key: 1, Value: 2})
	assert.Equal(t, []any{int64(1), int64(2)}, ids(Reconcile(docs(2), assoc)))
}

func TestReconcile_OutOfOrderRunIsNotAnIndex(t *testing.T) {
	assoc := Mapping(Pair{Key: 37044497, Value: 2}, Pair{Key: 37044487, Value: 1})
	assert.Equal(t, []any{int64(2), int64(1)}, ids(Reconcile(docs(2), assoc)))
}

func TestReconcile_Idempotent(t *testing.T) {
	assoc := AssociationFrom(map[int64]int64{3: 30, 1: 10, 2: 20})
	records := docs(3)

	first := Reconcile(records, assoc)
	second := Reconcile(records, assoc)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, []any{int64(10), int64(20), int64(30)}, ids(first))
}

func TestAssociationFrom_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
	}{
		{name: "int slice", in: []int{5, 6}, want: []any{int64(5), int64(6)}},
		{name: "any slice with gap", in: []any{nil, "7"}, want: []any{nil, int64(7)}},
		{name: "array", in: [2]int64{8, 9}, want: []any{int64(8), int64(9)}},
		{name: "string keyed map", in: map[string]int{"/works/OL2W": 20, "/works/OL1W": 10}, want: []any{int64(10), int64(20)}},
		{name: "keys view", in: map[int64]any{51733522: nil, 37044487: nil}, want: []any{int64(37044487), int64(51733522)}},
		{name: "unsupported scalar", in: 42, want: []any{nil, nil}},
		{name: "unsupported struct", in: struct{ ID int }{ID: 1}, want: []any{nil, nil}},
		{name: "raw json", in: json.RawMessage(`[11, 12]`), want: []any{int64(11), int64(12)}},
		{name: "pairs", in: []Pair{{Key: 0, Value: 3}, {Key: 1, Value: 4}}, want: []any{int64(3), int64(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Reconcile(docs(2), AssociationFrom(tt.in))))
		})
	}
}

func TestDecodeAssociation_PreservesObjectOrder(t *testing.T) {
	assoc := DecodeAssociation([]byte(`{"51733522": null, "37044497": null, "37044487": null}`))

	require.True(t, assoc.IsMapping())
	assert.Equal(t, 3, assoc.Len())
	assert.Equal(t, []any{int64(51733522), int64(37044497), int64(37044487)}, ids(Reconcile(docs(3), assoc)))
}

func TestDecodeAssociation_IndexKeys(t *testing.T) {
	assoc := DecodeAssociation([]byte(`{"0": 37044497, "1": 37044487}`))
	assert.Equal(t, []any{int64(37044497), int64(37044487)}, ids(Reconcile(docs(2), assoc)))
}

func TestDecodeAssociation_Malformed(t *testing.T) {
	for _, in := range []string{``, `"x"`, `{"a": }`, `{1: 2}`, `7`} {
		assoc := DecodeAssociation([]byte(in))
		assert.Equal(t, 0, assoc.Len(), "input %q", in)
	}
}

func TestLocalID(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{in: 5, want: 5, wantOK: true},
		{in: int64(37044497), want: 37044497, wantOK: true},
		{in: uint8(3), want: 3, wantOK: true},
		{in: 12.0, want: 12, wantOK: true},
		{in: json.Number("99"), want: 99, wantOK: true},
		{in: " 41 ", want: 41, wantOK: true},
		{in: 0, wantOK: false},
		{in: -3, wantOK: false},
		{in: 1.5, wantOK: false},
		{in: "OL1M", wantOK: false},
		{in: true, wantOK: false},
		{in: nil, wantOK: false},
		{in: []int{1}, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := LocalID(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %#v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "input %#v", tt.in)
		}
	}

	n := int64(8)
	got, ok := LocalID(&n)
	assert.True(t, ok)
	assert.Equal(t, int64(8), got)
}
