package log

import (
	"slices"
	"strings"
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
		{"Info", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
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
	if got := LevelTrace.String(); got != "trace" {
		t.Errorf("LevelTrace.String() = %q, want trace", got)
	}

	if got := Level(2).String(); got != "info+2" {
		t.Errorf("Level(2).String() = %q, want info+2", got)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" Text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_Options_SetFields(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelWarn {
		t.Errorf("level = %v, want warn", c.level)
	}

	if c.format != FormatText {
		t.Errorf("format = %v, want text", c.format)
	}

	if !c.caller {
		t.Error("caller = false, want true")
	}

	if c.pretty {
		t.Error("pretty = true, want false")
	}
}

func TestConfig_WithDefaults_NilWriterDiscards(t *testing.T) {
	c := makeConfig(nil)
	if c.output == nil {
		t.Fatal("expected non-nil output for nil writer")
	}

	if c.level != DefaultLevel || c.format != DefaultFormat || c.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc3339nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"custom", "2006-01-02", "2023-10-15"},
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

func TestConfig_Handler_DropsTimeWhenDisabled(t *testing.T) {
	var sb strings.Builder

	l := Make(&sb, WithTimeLayout("none"), WithPretty(false))
	l.Info("no time")

	if strings.Contains(sb.String(), `"time"`) {
		t.Errorf("expected no time field, got: %s", sb.String())
	}
}
