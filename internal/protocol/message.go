// Package protocol parses and formats the websocket wire messages. The
// outbound field names are an established contract with deployed clients and
// must not change.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Message is a validated inbound frame message.
type Message struct {
	Frame     []byte
	NewLetter string // target letter of an emergency reset, empty otherwise
	HasReset  bool
}

type inboundPayload struct {
	JpegBlob      *string `json:"jpeg_blob"`
	NewWordLetter *string `json:"new_word_letter"`
}

// response mirrors the deployed client contract. target_word_prob is
// vestigial and always 0.0.
type response struct {
	DetectedWordLetter string  `json:"detected_word_letter"`
	TargetWordProb     float64 `json:"target_word_prob"`
	TargetLettrProb    float64 `json:"target_lettr_prob"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ValidateMessage checks an inbound text message. Violations return an error;
// the dispatcher drops such messages silently without responding.
func ValidateMessage(raw []byte) (*Message, error) {
	var payload inboundPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}

	if payload.JpegBlob == nil {
		return nil, errors.New("missing jpeg_blob field")
	}
	frame, err := base64.StdEncoding.DecodeString(*payload.JpegBlob)
	if err != nil {
		return nil, fmt.Errorf("jpeg_blob is not valid base64: %w", err)
	}
	if len(frame) == 0 {
		return nil, errors.New("jpeg_blob decodes to empty payload")
	}

	msg := &Message{Frame: frame}
	if payload.NewWordLetter != nil {
		if utf8.RuneCountInString(*payload.NewWordLetter) != 1 {
			return nil, fmt.Errorf("new_word_letter must be a single character, got %q", *payload.NewWordLetter)
		}
		msg.NewLetter = *payload.NewWordLetter
		msg.HasReset = true
	}
	return msg, nil
}

// FormatResponse encodes a prediction update. The probability is rounded to
// four decimals.
func FormatResponse(letter string, prob float64) []byte {
	data, _ := json.Marshal(response{
		DetectedWordLetter: letter,
		TargetWordProb:     0.0,
		TargetLettrProb:    math.Round(prob*10000) / 10000,
	})
	return data
}

// FormatErrorResponse encodes the error form sent only for unexpected
// dispatch faults.
func FormatErrorResponse(msg string) []byte {
	data, _ := json.Marshal(errorResponse{Error: msg})
	return data
}
