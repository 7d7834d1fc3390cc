// Package notes decodes the processing backend's result and presents it for display.
package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Contract names the response shape accepted from the processing step.
type Contract string

const (
	// ContractStructured accepts {transcript, soapNote, noteLocation}.
	ContractStructured Contract = "structured"
	// ContractDocument accepts a bare document URI.
	ContractDocument Contract = "document"
)

// ParseContract resolves a configured contract name. Empty selects structured.
func ParseContract(name string) (Contract, error) {
	switch Contract(strings.ToLower(strings.TrimSpace(name))) {
	case "", ContractStructured:
		return ContractStructured, nil
	case ContractDocument:
		return ContractDocument, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContract, name)
	}
}

// Result is one decoded workflow result. Contract decides which fields are meaningful:
// structured results populate Transcript, SOAPNote and NoteLocation (each optional),
// document results populate Document.
type Result struct {
	Contract       Contract `json:"contract"`
	Transcript     string   `json:"transcript,omitempty"`
	SOAPNote       string   `json:"soapNote,omitempty"`
	NoteLocation   string   `json:"noteLocation,omitempty"`
	Document       string   `json:"document,omitempty"`
	Message        string   `json:"message,omitempty"`
	ProcessingTime string   `json:"processingTime,omitempty"`
}

// Location returns the downloadable note address for either contract, or "".
func (r *Result) Location() string {
	if r == nil {
		return ""
	}
	if r.Contract == ContractDocument {
		return r.Document
	}
	return r.NoteLocation
}

// Decode validates body against contract and returns the result it describes.
// Any mismatch wraps ErrUnrecognizedResult.
func Decode(body []byte, contract Contract) (*Result, error) {
	switch contract {
	case ContractStructured:
		return decodeStructured(body)
	case ContractDocument:
		return decodeDocument(body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContract, contract)
	}
}

func decodeStructured(body []byte) (*Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrUnrecognizedResult)
	}

	if raw, ok := fields["success"]; ok {
		var success bool
		if err := json.Unmarshal(raw, &success); err != nil {
			return nil, fmt.Errorf("%w: success must be a boolean", ErrUnrecognizedResult)
		}
		if !success {
			reason, _ := stringField(fields, "error")
			if reason == "" {
				reason, _ = stringField(fields, "message")
			}
			if reason == "" {
				reason = "backend reported failure"
			}
			return nil, fmt.Errorf("%w: %s", ErrUnrecognizedResult, reason)
		}
	}

	r := &Result{Contract: ContractStructured}
	targets := []struct {
		key string
		dst *string
	}{
		{"transcript", &r.Transcript},
		{"soapNote", &r.SOAPNote},
		{"noteLocation", &r.NoteLocation},
		{"message", &r.Message},
		{"processingTime", &r.ProcessingTime},
	}
	for _, t := range targets {
		v, err := stringField(fields, t.key)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}

	if r.Transcript == "" && r.SOAPNote == "" && r.NoteLocation == "" {
		return nil, fmt.Errorf("%w: none of transcript, soapNote, noteLocation present", ErrUnrecognizedResult)
	}

	if r.NoteLocation != "" {
		if err := validateLocation(r.NoteLocation); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func decodeDocument(body []byte) (*Result, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, fmt.Errorf("%w: expected a document URI", ErrUnrecognizedResult)
	}

	var uri string
	if err := json.Unmarshal(body, &uri); err != nil {
		var obj struct {
			NoteLocation *string `json:"noteLocation"`
		}
		if err := json.Unmarshal(body, &obj); err != nil || obj.NoteLocation == nil {
			return nil, fmt.Errorf("%w: expected a document URI", ErrUnrecognizedResult)
		}
		uri = *obj.NoteLocation
	}

	uri = strings.TrimSpace(uri)
	if uri != "" {
		if err := validateLocation(uri); err != nil {
			return nil, err
		}
	}

	return &Result{Contract: ContractDocument, Document: uri}, nil
}

// stringField reads an optional string member; null counts as absent.
func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", ErrUnrecognizedResult, key)
	}
	return s, nil
}

func validateLocation(loc string) error {
	u, err := url.Parse(loc)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: location %q is not an absolute http(s) URL", ErrUnrecognizedResult, loc)
	}
	return nil
}
