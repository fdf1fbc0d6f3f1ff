package sheetjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestColToName(t *testing.T) {
	assert.Equal(t, "A", ColToName(0))
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
	assert.Equal(t, "AZ", ColToName(51))
	assert.Equal(t, "ZZ", ColToName(701))
	assert.Equal(t, "AAA", ColToName(702))
}

func TestResolveKeys_A1Headerless28Columns(t *testing.T) {
	keys := ResolveKeys(nil, 28, OptionSet{})
	want := []string{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z", "AA", "AB",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveKeys_Numbered(t *testing.T) {
	opts := OptionSet{KeyStyle: KeyStyleNumbered}
	assert.Equal(t, []string{"C00", "C01", "C02"}, ResolveKeys(nil, 3, opts))
	keys := ResolveKeys(nil, 150, opts)
	assert.Equal(t, "C000", keys[0])
	assert.Equal(t, "C149", keys[149])
}

func TestResolveKeys_Priority(t *testing.T) {
	header := []RawCell{TextCell("  First   name "), TextCell("Age"), BlankCell(), TextCell("City"), NumberCell(2024)}
	opts := OptionSet{
		Headers: []string{"", "years"},
		Columns: map[int]ColumnSpec{
			1: {Key: "ignored"},
			3: {Key: "town"},
		},
	}
	keys := ResolveKeys(header, 5, opts)
	assert.Equal(t, []string{"First name", "years", "C", "town", "2024"}, keys)
}

func TestResolveKeys_HeadersExtendColumns(t *testing.T) {
	keys := ResolveKeys(nil, 1, OptionSet{Headers: []string{"a", "b", "c"}})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestResolveKeys_Collisions(t *testing.T) {
	header := []RawCell{TextCell("name"), TextCell("name"), TextCell(" name "), TextCell("name_2")}
	keys := ResolveKeys(header, 4, OptionSet{})
	assert.Equal(t, []string{"name", "name_2", "name_3", "name_2_2"}, keys)
}

func TestResolveKeys_RenameByKey(t *testing.T) {
	header := []RawCell{TextCell("name"), TextCell("grade"), TextCell("score")}
	opts := NewOptionSet("", WithColumnKey("grade", ColumnSpec{Key: "score"}))
	assert.Equal(t, []string{"name", "score", "score_2"}, ResolveKeys(header, 3, opts))
	assert.Equal(t, []string{"name", "score"}, ResolveKeys(header[:2], 2, opts))

	opts = NewOptionSet("", WithColumn(1, ColumnSpec{Key: "pos"}), WithColumnKey("grade", ColumnSpec{Key: "score"}))
	assert.Equal(t, []string{"name", "pos"}, ResolveKeys(header[:2], 2, opts), "positional spec wins")
}
