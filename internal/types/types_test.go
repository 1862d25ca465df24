package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want StringList
	}{
		{"array", `["garlic","pasta"]`, StringList{"garlic", "pasta"}},
		{"comma string", `"garlic, pasta"`, StringList{"garlic", "pasta"}},
		{"array with embedded commas", `["garlic, onion"," pasta "]`, StringList{"garlic", "onion", "pasta"}},
		{"whitespace and empties", `" a,, b ,"`, StringList{"a", "b"}},
		{"empty string", `""`, nil},
		{"empty array", `[]`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStringListUnmarshalRejectsOtherShapes(t *testing.T) {
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &got))
}

func TestStringListInStruct(t *testing.T) {
	var payload struct {
		Ingredients StringList `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ingredients":"flour, water"}`), &payload))
	assert.Equal(t, StringList{"flour", "water"}, payload.Ingredients)
}
