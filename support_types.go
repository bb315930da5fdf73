package main

import (
	"fmt"
)

// Format describes varieties of findings output.
type Format int

const (
	FormatInvalid Format = iota

	// FormatText prints a finding per line followed by a summary.
	FormatText

	// FormatJSON prints an array of finding records.
	FormatJSON
)

var formatValueMap = map[Format]string{
	FormatText: "text",
	FormatJSON: "json",
}

func (f Format) String() string {
	v, ok := formatValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (f *Format) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range formatValueMap {
		if v == text {
			*f = k
			return nil
		}
	}

	return fmt.Errorf("unknown output format %q", text)
}
