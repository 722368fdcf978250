package agent

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Hello world", []string{"Hello world"}},
		{"Hi. How are you? Great!", []string{"Hi.", "How are you?", "Great!"}},
		{"Pi is 3.14 today.", []string{"Pi is 3.14 today."}},
		{"Line one\nLine two.", []string{"Line one", "Line two."}},
		{"Wait...  what?", []string{"Wait...", "what?"}},
	}
	for _, tc := range cases {
		if got := SplitSentences(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitSentences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
