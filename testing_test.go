package rigor

import (
	"errors"
	"testing"
)

func TestTestRenderString_Success(t *testing.T) {
	result, err := TestRenderString(Node{stateful, Props{"count": 7}})
	if err != nil {
		t.Fatalf("TestRenderString() error = %v", err)
	}
	if result == nil {
		t.Fatal("TestRenderString() returned nil result")
	}
	if !result.HTMLContains("Click Me! (7,42)") {
		t.Errorf("HTML = %s", result.HTML)
	}
	if result.Container != nil || result.Document != nil {
		t.Error("string render should not expose a host tree")
	}
}

func TestTestRenderString_Options(t *testing.T) {
	result, err := TestRenderString(Node{"p", "<b>"}, WithEscaping())
	if err != nil {
		t.Fatalf("TestRenderString() error = %v", err)
	}
	if result.HTML != "<p>&lt;b&gt;</p>" {
		t.Errorf("HTML = %q", result.HTML)
	}
}

func TestTestRenderString_Error(t *testing.T) {
	result, err := TestRenderString(Node{Component(func(Props, *Capabilities) RenderFunc { return nil })})
	if !errors.Is(err, ErrInvalidComponent) {
		t.Fatalf("TestRenderString() error = %v, want ErrInvalidComponent", err)
	}
	if result != nil {
		t.Error("expected nil result on error")
	}
}

func TestTestMount_Click(t *testing.T) {
	f := &counterFixture{}
	result, err := TestMount(Node{f.component}, WithClearOnUpdate())
	if err != nil {
		t.Fatalf("TestMount() error = %v", err)
	}
	if result.HTML != "<button>count=0</button>" {
		t.Fatalf("HTML = %q", result.HTML)
	}

	if err := result.Click("button"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if result.HTML != "<button>count=1</button>" {
		t.Errorf("HTML after click = %q", result.HTML)
	}

	if err := result.Click("select"); err == nil {
		t.Error("Click on a missing element should fail")
	}
}

func TestTestMount_Error(t *testing.T) {
	result, err := TestMount("text")
	if !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("TestMount() error = %v, want ErrInvalidNode", err)
	}
	if result != nil {
		t.Error("expected nil result on error")
	}
}

func TestTestResult_HTMLContains(t *testing.T) {
	result := &TestResult{HTML: `<div class="container"><span>Hello World</span></div>`}

	tests := []struct {
		substr string
		want   bool
	}{
		{"Hello World", true},
		{"container", true},
		{"<span>", true},
		{"Missing", false},
		{"", true}, // empty string is always contained
	}

	for _, tt := range tests {
		t.Run(tt.substr, func(t *testing.T) {
			if got := result.HTMLContains(tt.substr); got != tt.want {
				t.Errorf("HTMLContains(%q) = %v, want %v", tt.substr, got, tt.want)
			}
		})
	}
}

func TestTestResult_HTMLContainsAll(t *testing.T) {
	result := &TestResult{HTML: `<div class="container"><span>Hello World</span></div>`}

	if !result.HTMLContainsAll("Hello", "World", "container") {
		t.Error("expected HTMLContainsAll to return true for all present substrings")
	}

	if result.HTMLContainsAll("Hello", "Missing") {
		t.Error("expected HTMLContainsAll to return false when any substring is missing")
	}
}

func TestTestResult_HTMLContainsAny(t *testing.T) {
	result := &TestResult{HTML: `<div>Hello World</div>`}

	if !result.HTMLContainsAny("Missing", "Hello", "NotHere") {
		t.Error("expected HTMLContainsAny to return true when any substring is present")
	}

	if result.HTMLContainsAny("Missing", "NotHere", "Absent") {
		t.Error("expected HTMLContainsAny to return false when no substrings are present")
	}
}

func TestTestResult_WithoutContainer(t *testing.T) {
	result := &TestResult{HTML: "<p></p>"}
	result.Refresh()

	if result.HTML != "<p></p>" {
		t.Errorf("Refresh changed a string result: %q", result.HTML)
	}
	if result.Find("p") != nil {
		t.Error("Find on a string result should return nil")
	}
}

func TestTestCapabilities(t *testing.T) {
	var logged []any
	caps := TestCapabilities(Provides{
		CapLog: LogFunc(func(args ...any) { logged = append(logged, args...) }),
	})

	caps.Log("overridden")
	if len(logged) != 1 {
		t.Errorf("override not applied: %v", logged)
	}
	if !caps.Has(CapState) || !caps.Has(CapSetTimeout) {
		t.Errorf("safe capabilities missing: %v", caps.Names())
	}
	if caps.Has(CapFetch) {
		t.Error("TestCapabilities should not grant fetch")
	}
}
