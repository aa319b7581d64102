package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrPathNotFound = errors.New("path not found")

	indexRegex = regexp.MustCompile(`\[(\d+)\]`)
)

type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     []Error         `json:"errors,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	path := make([]string, 0, len(e.Path))
	for _, segment := range e.Path {
		path = append(path, fmt.Sprint(segment))
	}
	return strings.Join(path, ".") + ": " + e.Message
}

func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}
	return &resp, nil
}

func (r *Response) HasErrors() bool {
	return len(r.Errors) != 0
}

// Err joins all GraphQL errors, nil if there are none.
func (r *Response) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Extract decodes the value at path inside data into v.
// Paths use gjson syntax, list indexes may also be written as shows[0].title.
func (r *Response) Extract(path string, v any) error {
	raw, err := r.ExtractRaw(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (r *Response) ExtractRaw(path string) ([]byte, error) {
	result, err := r.get(path)
	if err != nil {
		return nil, err
	}
	return []byte(result.Raw), nil
}

func (r *Response) ExtractString(path string) (string, error) {
	result, err := r.get(path)
	if err != nil {
		return "", err
	}
	if result.Type != gjson.String {
		return "", fmt.Errorf("%s: expected string, got %s", path, result.Type)
	}
	return result.String(), nil
}

func (r *Response) ExtractInt(path string) (int64, error) {
	result, err := r.get(path)
	if err != nil {
		return 0, err
	}
	if result.Type != gjson.Number {
		return 0, fmt.Errorf("%s: expected number, got %s", path, result.Type)
	}
	return result.Int(), nil
}

func (r *Response) ExtractBool(path string) (bool, error) {
	result, err := r.get(path)
	if err != nil {
		return false, err
	}
	if result.Type != gjson.True && result.Type != gjson.False {
		return false, fmt.Errorf("%s: expected boolean, got %s", path, result.Type)
	}
	return result.Bool(), nil
}

func (r *Response) get(path string) (gjson.Result, error) {
	result := gjson.GetBytes(r.Data, NormalizePath(path))
	if !result.Exists() {
		return result, fmt.Errorf("%s: %w", path, ErrPathNotFound)
	}
	return result, nil
}

// NormalizePath rewrites bracket list indexes to gjson's dot syntax.
func NormalizePath(path string) string {
	return indexRegex.ReplaceAllString(path, ".$1")
}
