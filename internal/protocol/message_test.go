package protocol

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
)

func encodeFrame(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestValidateMessage(t *testing.T) {
	frame := encodeFrame([]byte{0xFF, 0xD8, 0x01})

	tests := []struct {
		name    string
		raw     string
		wantErr bool
		reset   bool
		letter  string
	}{
		{"plain frame", `{"jpeg_blob":"` + frame + `"}`, false, false, ""},
		{"frame with null letter", `{"jpeg_blob":"` + frame + `","new_word_letter":null}`, false, false, ""},
		{"frame with reset", `{"jpeg_blob":"` + frame + `","new_word_letter":"B"}`, false, true, "B"},
		{"missing jpeg_blob", `{"new_word_letter":"B"}`, true, false, ""},
		{"invalid base64", `{"jpeg_blob":"not base64!!"}`, true, false, ""},
		{"empty blob", `{"jpeg_blob":""}`, true, false, ""},
		{"multi-character letter", `{"jpeg_blob":"` + frame + `","new_word_letter":"AB"}`, true, false, ""},
		{"empty letter", `{"jpeg_blob":"` + frame + `","new_word_letter":""}`, true, false, ""},
		{"not JSON", `garbage`, true, false, ""},
	}

	for _, test := range tests {
		msg, err := ValidateMessage([]byte(test.raw))
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected validation error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if msg.HasReset != test.reset {
			t.Errorf("%s: expected reset=%v, got %v", test.name, test.reset, msg.HasReset)
		}
		if msg.NewLetter != test.letter {
			t.Errorf("%s: expected letter %q, got %q", test.name, test.letter, msg.NewLetter)
		}
		if len(msg.Frame) == 0 {
			t.Errorf("%s: expected decoded frame bytes", test.name)
		}
	}
}

func TestFormatResponse(t *testing.T) {
	data := FormatResponse("B", 0.87654321)

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if decoded["detected_word_letter"] != "B" {
		t.Errorf("expected detected_word_letter=B, got %v", decoded["detected_word_letter"])
	}
	if decoded["target_word_prob"] != 0.0 {
		t.Errorf("target_word_prob must always be 0.0, got %v", decoded["target_word_prob"])
	}
	if decoded["target_lettr_prob"] != 0.8765 {
		t.Errorf("expected probability rounded to 4 decimals (0.8765), got %v", decoded["target_lettr_prob"])
	}

	// field names are a wire contract, including the typo
	for _, field := range []string{"detected_word_letter", "target_word_prob", "target_lettr_prob"} {
		if !strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("response missing field %s: %s", field, data)
		}
	}
}

func TestFormatErrorResponse(t *testing.T) {
	data := FormatErrorResponse("boom")
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("error response is not valid JSON: %v", err)
	}
	if decoded["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", decoded["error"])
	}
}
