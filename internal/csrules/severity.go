package csrules

import (
	"encoding"
	"fmt"
)

// Severity of a finding.
type Severity int

const (
	// SeverityNone disables a rule.
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	v, err := s.MarshalText()
	if err != nil {
		return fmt.Sprintf("severity-invalid(%d)", s)
	}

	return string(v)
}

var (
	_ encoding.TextUnmarshaler = (*Severity)(nil)
	_ encoding.TextMarshaler   = Severity(0)
)

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*s = SeverityNone
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", b)
	}

	return nil
}

func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SeverityNone:
		return []byte("none"), nil
	case SeverityInfo:
		return []byte("info"), nil
	case SeverityWarning:
		return []byte("warning"), nil
	case SeverityError:
		return []byte("error"), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid Severity(%d)", s)
	}
}
