package ids

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		wire string
	}{
		{name: "zero", id: 0, wire: `"0"`},
		{name: "negative", id: -42, wire: `"-42"`},
		{name: "beyond float53", id: ID(1<<53 + 1), wire: `"9007199254740993"`},
		{name: "max int64", id: ID(math.MaxInt64), wire: `"9223372036854775807"`},
		{name: "min int64", id: ID(math.MinInt64), wire: `"-9223372036854775808"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, string(b))

			var got ID
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.id, got)
		})
	}
}

func TestID_UnmarshalRejectsBareNumber(t *testing.T) {
	var id ID
	err := json.Unmarshal([]byte(`9007199254740993`), &id)
	require.ErrorIs(t, err, ErrAmbiguousNumber)
	assert.Equal(t, ID(0), id)
}

func TestID_UnmarshalRejectsGarbage(t *testing.T) {
	var id ID
	err := json.Unmarshal([]byte(`"12a"`), &id)
	require.ErrorIs(t, err, ErrMalformedID)
}

func TestParse(t *testing.T) {
	id, err := Parse("-7")
	require.NoError(t, err)
	assert.Equal(t, ID(-7), id)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrMalformedID)

	_, err = Parse("9223372036854775808")
	require.ErrorIs(t, err, ErrMalformedID)

	require.Panics(t, func() { MustParse("x") })
}

func TestNullID_JSON(t *testing.T) {
	type folderRef struct {
		FolderID NullID `json:"folderId"`
	}

	b, err := json.Marshal(folderRef{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"folderId":null}`, string(b))

	b, err = json.Marshal(folderRef{FolderID: Some(15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"folderId":"15"}`, string(b))

	var got folderRef
	require.NoError(t, json.Unmarshal([]byte(`{"folderId":"-1"}`), &got))
	assert.Equal(t, Some(-1), got.FolderID)
	require.NotNil(t, got.FolderID.Ptr())
	assert.Equal(t, ID(-1), *got.FolderID.Ptr())

	got = folderRef{FolderID: Some(3)}
	require.NoError(t, json.Unmarshal([]byte(`{"folderId":null}`), &got))
	assert.False(t, got.FolderID.Valid)
	assert.Nil(t, got.FolderID.Ptr())
}

func TestFromPtr(t *testing.T) {
	assert.Equal(t, NullID{}, FromPtr(nil))
	id := ID(9)
	assert.Equal(t, Some(9), FromPtr(&id))
	assert.Equal(t, "null", NullID{}.String())
	assert.Equal(t, "9", Some(9).String())
}

func TestEncode_ReplacesIdentifiersOnly(t *testing.T) {
	folder := ID(-3)
	in := map[string]any{
		"id":        ID(math.MaxInt64),
		"folderId":  &folder,
		"parentId":  NullID{},
		"title":     "123",
		"wordCount": 3,
		"ratio":     0.5,
		"favorite":  true,
		"nothing":   nil,
		"tags":      []string{"a", "b"},
		"entries": []any{
			map[string]any{"id": ID(0), "deep": []any{[]any{ID(1 << 60)}}},
		},
		"byID": map[ID]bool{ID(7): true},
	}

	out := Encode(in)

	want := map[string]any{
		"id":        "9223372036854775807",
		"folderId":  "-3",
		"parentId":  nil,
		"title":     "123",
		"wordCount": 3,
		"ratio":     0.5,
		"favorite":  true,
		"nothing":   nil,
		"tags":      []any{"a", "b"},
		"entries": []any{
			map[string]any{"id": "0", "deep": []any{[]any{"1152921504606846976"}}},
		},
		"byID": map[string]any{"7": true},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_DoesNotMutateInput(t *testing.T) {
	inner := []any{ID(1), ID(2)}
	in := map[string]any{"ids": inner}

	_ = Encode(in)

	assert.Equal(t, ID(1), inner[0])
	assert.Equal(t, ID(2), inner[1])
	assert.Equal(t, []any{ID(1), ID(2)}, in["ids"])
}

func TestEncode_PlainNumbersAreNotCoerced(t *testing.T) {
	assert.Equal(t, int64(42), Encode(int64(42)))
	assert.Equal(t, 42, Encode(42))
	assert.Equal(t, "42", Encode(ID(42)))
}

func TestEncode_DeepNesting(t *testing.T) {
	const depth = 10000
	var v any = ID(5)
	for i := 0; i < depth; i++ {
		v = []any{v}
	}

	out := Encode(v)
	for i := 0; i < depth; i++ {
		s, ok := out.([]any)
		require.True(t, ok)
		out = s[0]
	}
	assert.Equal(t, "5", out)
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	values := []any{
		map[string]any{
			"id":       ID(math.MaxInt64),
			"folderId": ID(0),
			"title":    "9007199254740993",
			"count":    float64(3),
			"entries": []any{
				map[string]any{"id": ID(-1), "uuid": "abc"},
				map[string]any{"id": ID(1<<53 + 1), "uuid": "def"},
			},
		},
		[]any{map[string]any{"id": ID(10)}, map[string]any{"id": ID(11)}},
		ID(12),
	}
	hint := Fields("", "id", "folderId", "entries.*.id", "*.id")

	for _, v := range values {
		decoded, err := Decode(Encode(v), hint)
		require.NoError(t, err)
		if diff := cmp.Diff(v, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecode_NumericStringOutsideHintStaysString(t *testing.T) {
	out, err := Decode(map[string]any{"id": "5", "title": "5"}, Fields("id"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": ID(5), "title": "5"}, out)
}

func TestDecode_MalformedIdentifierField(t *testing.T) {
	_, err := Decode(map[string]any{"entries": []any{map[string]any{"id": "x"}}}, Fields("entries.*.id"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedID))
	assert.Contains(t, err.Error(), "entries.0.id")
}
