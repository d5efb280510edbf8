package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", LevelDebug + 2},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelTrace + 1, "trace+1"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("info")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}

	if l != LevelInfo {
		t.Errorf("level = %v, want info", l)
	}

	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("expected error for unknown level")
	}

	if l != LevelInfo {
		t.Errorf("level changed on error: %v", l)
	}
}

func TestLevels(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"JSON", FormatJSON},
		{" json ", FormatJSON},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithOutput(nil),
	)

	if c.level != LevelDebug {
		t.Errorf("level = %v, want debug", c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("format = %v, want json", c.format)
	}

	if !c.caller {
		t.Error("caller not enabled")
	}

	if c.pretty {
		t.Error("pretty not disabled")
	}

	if c.output == nil {
		t.Error("nil output not replaced")
	}

	if c.mutex == nil {
		t.Error("mutex not initialized")
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("level, format = %v, %v", c.level, c.format)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("caller, pretty = %v, %v", c.caller, c.pretty)
	}
}

func TestConfig_Clone(t *testing.T) {
	c := makeConfig(nil, WithLevel(LevelInfo))
	d := c.clone(WithLevel(LevelError))

	if c.mutex == d.mutex {
		t.Error("clone shares mutex")
	}

	if c.level != LevelInfo || d.level != LevelError {
		t.Errorf("levels = %v, %v", c.level, d.level)
	}
}

func TestConfig_FormatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"separators ignored", "rfc-3339", "2023-10-15T14:30:45Z"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"kitchen", "kitchen", "2:30PM"},
		{"ms alias", "ms", "Oct 15 14:30:45.123"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkConfig_FormatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
