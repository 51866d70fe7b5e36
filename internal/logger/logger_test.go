package logger

import "testing"

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is a longer string", 7, "this is..."},
		{"  padded  ", 10, "padded"},
		{"anything", 0, ""},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tc := range cases {
		if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
			t.Errorf("TruncateForLog(%q, %d): expected %q, got %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		logger, err := New(json, true)
		if err != nil {
			t.Fatalf("New(json=%v): %v", json, err)
		}
		if logger == nil {
			t.Fatal("expected a logger")
		}
	}
}
