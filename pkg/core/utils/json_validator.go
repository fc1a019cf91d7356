package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUnparseable is returned when no decoding strategy accepts the input.
var ErrUnparseable = errors.New("input is not valid JSON or Hjson")

// ParseStrategy names the decoder that accepted an input.
type ParseStrategy string

const (
	StrategyJSON     ParseStrategy = "json"
	StrategyRepaired ParseStrategy = "json-repair"
	StrategyHJSON    ParseStrategy = "hjson"
)

// RepairJSON fixes common hand-editing mistakes: missing quotes around keys,
// single quotes, trailing commas, unclosed objects and markdown code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson (comments, unquoted keys, optional commas) to
// standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("hjson parse: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson to json: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes input into v, trying in order:
// 1. strict JSON (unknown fields rejected)
// 2. Hjson, for hand-written drafts with comments
// 3. json-repair, for truncated or sloppy JSON
//
// It reports which strategy succeeded.
func SmartParse(input string, v interface{}) (ParseStrategy, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseable)
	}

	if err := decodeStrict(trimmed, v); err == nil {
		return StrategyJSON, nil
	}

	if converted, err := ParseHJSON(trimmed); err == nil {
		if err := decodeStrict(converted, v); err == nil {
			return StrategyHJSON, nil
		}
	}

	if repaired, err := RepairJSON(trimmed); err == nil {
		if err := decodeStrict(repaired, v); err == nil {
			return StrategyRepaired, nil
		}
	}

	return "", ErrUnparseable
}

// decodeStrict decodes into a fresh value of v's type and copies it over
// only on success, so a failed attempt never leaves v half-populated.
func decodeStrict(data string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", v)
	}
	fresh := reflect.New(rv.Elem().Type())

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
