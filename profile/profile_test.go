package profile

import "testing"

func TestConfig_Options_ComposeValues(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/prof" || !quiet {
		t.Errorf("got (%q, %q, %v), want (cpu, /tmp/prof, true)", mode, path, quiet)
	}

	// Later options override earlier ones without touching other fields.
	mode, path, quiet = WithMode("heap")(c)()
	if mode != "heap" || path != "/tmp/prof" || !quiet {
		t.Errorf("got (%q, %q, %v), want (heap, /tmp/prof, true)", mode, path, quiet)
	}
}

func TestConfig_Start_EmptyModeIsNoop(t *testing.T) {
	if _, ok := Make().Start().(ignore); !ok {
		t.Error("expected no-op stopper for empty mode")
	}

	var nilConfig Config
	nilConfig.Start().Stop()
}
