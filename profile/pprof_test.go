//go:build pprof

package profile

import "testing"

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		path  string
		quiet bool
		want  int
		ok    bool
	}{
		{name: "unknown", mode: "bogus"},
		{name: "quiet is not a mode", mode: "quiet"},
		{name: "mode only", mode: "cpu", want: 2, ok: true},
		{name: "with path", mode: "heap", path: "/tmp/prof", want: 3, ok: true},
		{name: "with path and quiet", mode: "trace", path: "/tmp/prof", quiet: true, want: 4, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, ok := options(tt.mode, tt.path, tt.quiet)
			if ok != tt.ok || len(opts) != tt.want {
				t.Errorf("options(%q, %q, %v) = %d options, %v; want %d, %v",
					tt.mode, tt.path, tt.quiet, len(opts), ok, tt.want, tt.ok)
			}
		})
	}
}

func TestModes_Complete(t *testing.T) {
	for _, m := range Modes() {
		if _, ok := options(m, "", false); !ok {
			t.Errorf("Modes() lists %q but options rejects it", m)
		}
	}
}
