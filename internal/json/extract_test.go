package json

import (
	"strings"
	"testing"
)

type TestStruct struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestPureJSON(t *testing.T) {
	response := `{"name": "test", "value": 42}`
	result, err := ExtractJSONFromResponse[TestStruct](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", result.Name)
	}
	if result.Value != 42 {
		t.Errorf("expected value 42, got %d", result.Value)
	}
}

func TestJSONWithSurroundingText(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prefix", `Here is the result: {"name": "test", "value": 42}`},
		{"suffix", `{"name": "test", "value": 42} That's the output.`},
		{"both", `Let me think... {"name": "test", "value": 42} Done!`},
		{"markdown fence", "```json\n{\"name\": \"test\", \"value\": 42}\n```"},
		{"bare fence", "```\n{\"name\": \"test\", \"value\": 42}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractJSONFromResponse[TestStruct](tt.response)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Name != "test" || result.Value != 42 {
				t.Errorf("got %+v", result)
			}
		})
	}
}

func TestNoJSON(t *testing.T) {
	response := "This is just plain text without any JSON."
	_, err := ExtractJSONFromResponse[TestStruct](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to extract valid JSON") {
		t.Errorf("expected 'failed to extract valid JSON' in error, got: %v", err)
	}
}

func TestInvalidJSON(t *testing.T) {
	response := `{"name": "test", value: }`
	_, err := ExtractJSONFromResponse[TestStruct](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
