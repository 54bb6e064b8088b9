package extraction

import "testing"

func TestParseEngine(t *testing.T) {
	tests := []struct {
		value string
		want  Engine
		ok    bool
	}{
		{"", EngineOCR, true},
		{"ocr", EngineOCR, true},
		{"OPENCV", EngineOCR, true},
		{"local", EngineOCR, true},
		{"vision", EngineVision, true},
		{"OpenAI", EngineVision, true},
		{"remote", EngineVision, true},
		{"carrier-pigeon", "", false},
	}
	for _, tc := range tests {
		engine, err := ParseEngine(tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseEngine(%q) error = %v, want ok=%v", tc.value, err, tc.ok)
		}
		if err == nil && engine != tc.want {
			t.Fatalf("ParseEngine(%q) = %q, want %q", tc.value, engine, tc.want)
		}
	}
}

func TestEngineOther(t *testing.T) {
	if EngineOCR.Other() != EngineVision {
		t.Fatal("ocr must fall back to vision")
	}
	if EngineVision.Other() != EngineOCR {
		t.Fatal("vision must fall back to ocr")
	}
}

func TestIDPattern(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Guardian mesh#3230 eliminated you", "mesh#3230"},
		{"noise\nFOO#1234\nBAR#5678", "FOO#1234"},
		{"code too short abc#123", ""},
		{"no id at all", ""},
		{"punctuated name x_y#1234", "y#1234"},
	}
	for _, tc := range tests {
		if got := idPattern.FindString(tc.text); got != tc.want {
			t.Fatalf("idPattern on %q = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"id_str":"a#1234"}`, `{"id_str":"a#1234"}`},
		{"```json\n{\"id_str\":\"a#1234\"}\n```", `{"id_str":"a#1234"}`},
		{"```\n{}\n```", "{}"},
	}
	for _, tc := range tests {
		if got := stripJSONFences(tc.in); got != tc.want {
			t.Fatalf("stripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
