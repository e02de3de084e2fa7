package client

import (
	"net/url"
	"reflect"
	"testing"
	"time"
)

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

// TestParamsValues validates flattening of caller parameters
func TestParamsValues(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   url.Values
	}{
		{
			name:   "nil params",
			params: nil,
			want:   nil,
		},
		{
			name:   "empty params",
			params: Params{},
			want:   nil,
		},
		{
			name:   "scalars",
			params: Params{"s": "x", "i": 7, "i64": int64(1400000000), "f": 12.5, "b": true},
			want: url.Values{
				"s":   {"x"},
				"i":   {"7"},
				"i64": {"1400000000"},
				"f":   {"12.5"},
				"b":   {"true"},
			},
		},
		{
			name:   "nil values skipped",
			params: Params{"a": "1", "b": nil},
			want:   url.Values{"a": {"1"}},
		},
		{
			name:   "slices repeat the key",
			params: Params{"tag": []string{"go", "oauth"}, "n": []int{1, 2}, "mixed": []any{"x", 3, false}},
			want: url.Values{
				"tag":   {"go", "oauth"},
				"n":     {"1", "2"},
				"mixed": {"x", "3", "false"},
			},
		},
		{
			name:   "stringer and fallback",
			params: Params{"st": stringer{"from-stringer"}, "d": 90 * time.Second, "u": uint8(4)},
			want: url.Values{
				"st": {"from-stringer"},
				"d":  {"1m30s"},
				"u":  {"4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.Values()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values() = %v, want %v", got, tt.want)
			}
		})
	}
}
