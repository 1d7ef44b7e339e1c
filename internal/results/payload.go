package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the shape of a server payload
type Kind int

const (
	KindSingle Kind = iota
	KindList
	KindSocial
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindList:
		return "list"
	case KindSocial:
		return "social"
	default:
		return "unknown"
	}
}

// Result is one processed image as returned by the per-image endpoints
type Result struct {
	Success       bool   `json:"success"`
	OutputPath    string `json:"output_path,omitempty"`
	ProcessedPath string `json:"processed_path,omitempty"`
}

// Path returns the downloadable path of the result, or "" if it has none
func (r Result) Path() string {
	if r.OutputPath != "" {
		return r.OutputPath
	}
	return r.ProcessedPath
}

// SocialVersion is one platform-specific image of a social media bundle
type SocialVersion struct {
	Path       string   `json:"path"`
	Name       string   `json:"name,omitempty"`
	Dimensions FlexText `json:"dimensions,omitempty"`
	Size       FlexText `json:"size,omitempty"`
	FileSize   FlexText `json:"file_size,omitempty"`
}

// SocialBundle is the social-media-optimize payload
type SocialBundle struct {
	Success            bool                     `json:"success"`
	OptimizedVersions  map[string]SocialVersion `json:"optimized_versions"`
	TotalCreated       int                      `json:"total_created"`
	OriginalDimensions FlexText                 `json:"original_dimensions"`
}

// Payload is a server response recognized as one of three shapes
type Payload struct {
	Kind   Kind
	Single Result
	List   []Result
	Social *SocialBundle
}

// SinglePayload wraps one result
func SinglePayload(r Result) Payload {
	return Payload{Kind: KindSingle, Single: r}
}

// ListPayload wraps an ordered list of results
func ListPayload(rs []Result) Payload {
	return Payload{Kind: KindList, List: rs}
}

// Decode inspects the structure of a JSON payload and tags it. Arrays become
// lists, objects with optimized_versions become social bundles, objects with
// a results array become lists, and any other object is a single result.
func Decode(raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Payload{}, fmt.Errorf("empty payload")
	}

	if trimmed[0] == '[' {
		var list []Result
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return Payload{}, fmt.Errorf("failed to decode result list: %w", err)
		}
		return ListPayload(list), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Payload{}, fmt.Errorf("failed to decode result: %w", err)
	}

	if _, ok := probe["optimized_versions"]; ok {
		var bundle SocialBundle
		if err := json.Unmarshal(trimmed, &bundle); err != nil {
			return Payload{}, fmt.Errorf("failed to decode social media payload: %w", err)
		}
		return Payload{Kind: KindSocial, Social: &bundle}, nil
	}

	if rawList, ok := probe["results"]; ok {
		var list []Result
		if err := json.Unmarshal(rawList, &list); err != nil {
			return Payload{}, fmt.Errorf("failed to decode results list: %w", err)
		}
		return ListPayload(list), nil
	}

	var single Result
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return Payload{}, fmt.Errorf("failed to decode result: %w", err)
	}
	return SinglePayload(single), nil
}

// FlexText accepts a JSON string, number, or array of numbers ([1080, 1080]
// becomes "1080x1080"). Anything else is kept as raw JSON text.
type FlexText string

func (f *FlexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexText(s)
	case '[':
		var nums []json.Number
		if err := json.Unmarshal(data, &nums); err != nil {
			*f = FlexText(data)
			return nil
		}
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = n.String()
		}
		*f = FlexText(strings.Join(parts, "x"))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*f = FlexText(data)
			return nil
		}
		*f = FlexText(n.String())
	}
	return nil
}

func (f FlexText) String() string { return string(f) }
