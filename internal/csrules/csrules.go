// Package csrules defines the canonical rule codes (CSENSE-series) enforced by csense.
// Each rule represents a distinct documentation defect the engine can report.
//
// Rule numbering is append-only:
//
//	001–006  Presence of documentation for the declaration and its signature parts
//	007      Cross-reference resolution
//	008–011  Order and duplication of signature sections
//	012–017  Exceptions, return/value sections and content quality
package csrules

import (
	"fmt"
	"strings"
)

// Rule represents a csense rule code.
type Rule int

const (
	ruleInvalid Rule = iota

	CSENSE001MissingDocumentation
	CSENSE002MissingParam
	CSENSE003StrayParam
	CSENSE004MissingTypeParam
	CSENSE005StrayTypeParam
	CSENSE006MissingReturnValue
	CSENSE007UnresolvedCref
	CSENSE008ParamOrderMismatch
	CSENSE009DuplicateParam
	CSENSE010TypeParamOrderMismatch
	CSENSE011DuplicateTypeParam
	CSENSE012MissingException
	CSENSE013StrayReturnValue
	CSENSE014MissingValue
	CSENSE015StrayValue
	CSENSE016LowQuality
	CSENSE017InvalidExceptionType

	ruleSentinel
)

// Category is the category of all csense rules.
const Category = "Documentation"

// All returns the rule catalog in code order.
func All() []Rule {
	res := make([]Rule, 0, ruleSentinel-1)
	for r := ruleInvalid + 1; r < ruleSentinel; r++ {
		res = append(res, r)
	}

	return res
}

// Parse looks up a rule by its code.
func Parse(code string) (Rule, error) {
	for _, r := range All() {
		if strings.EqualFold(r.String(), code) {
			return r, nil
		}
	}

	return ruleInvalid, fmt.Errorf("unknown rule %q", code)
}

// Valid checks if the rule is a known one.
func (r Rule) Valid() bool {
	return r > ruleInvalid && r < ruleSentinel
}

// String returns the stable code of the rule.
// Example: "CSENSE001"
func (r Rule) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rule-unknown(%d)", r)
	}

	return fmt.Sprintf("CSENSE%03d", int(r))
}

// MarshalText renders the rule as its code.
func (r Rule) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid Rule(%d)", int(r))
	}

	return []byte(r.String()), nil
}

// UnmarshalText parses the rule code.
func (r *Rule) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*r = v
	return nil
}

// Name returns the short name of the rule.
func (r Rule) Name() string {
	switch r {
	case CSENSE001MissingDocumentation:
		return "MissingDocumentation"
	case CSENSE002MissingParam:
		return "MissingParamDocumentation"
	case CSENSE003StrayParam:
		return "StrayParamDocumentation"
	case CSENSE004MissingTypeParam:
		return "MissingTypeParamDocumentation"
	case CSENSE005StrayTypeParam:
		return "StrayTypeParamDocumentation"
	case CSENSE006MissingReturnValue:
		return "MissingReturnValueDocumentation"
	case CSENSE007UnresolvedCref:
		return "UnresolvedCref"
	case CSENSE008ParamOrderMismatch:
		return "ParamOrderMismatch"
	case CSENSE009DuplicateParam:
		return "DuplicateParamDocumentation"
	case CSENSE010TypeParamOrderMismatch:
		return "TypeParamOrderMismatch"
	case CSENSE011DuplicateTypeParam:
		return "DuplicateTypeParamDocumentation"
	case CSENSE012MissingException:
		return "MissingExceptionDocumentation"
	case CSENSE013StrayReturnValue:
		return "StrayReturnValueDocumentation"
	case CSENSE014MissingValue:
		return "MissingValueDocumentation"
	case CSENSE015StrayValue:
		return "StrayValueDocumentation"
	case CSENSE016LowQuality:
		return "LowQualityDocumentation"
	case CSENSE017InvalidExceptionType:
		return "InvalidExceptionType"
	default:
		return fmt.Sprintf("rule-unknown(%d)", r)
	}
}

// Title returns the human-readable title of the rule.
func (r Rule) Title() string {
	switch r {
	case CSENSE001MissingDocumentation:
		return "Public API is missing documentation"
	case CSENSE002MissingParam:
		return "Parameter is missing documentation"
	case CSENSE003StrayParam:
		return "Documented parameter does not exist"
	case CSENSE004MissingTypeParam:
		return "Type parameter is missing documentation"
	case CSENSE005StrayTypeParam:
		return "Documented type parameter does not exist"
	case CSENSE006MissingReturnValue:
		return "Return value is missing documentation"
	case CSENSE007UnresolvedCref:
		return "Reference cannot be resolved"
	case CSENSE008ParamOrderMismatch:
		return "Parameter documentation order mismatch"
	case CSENSE009DuplicateParam:
		return "Parameter is documented more than once"
	case CSENSE010TypeParamOrderMismatch:
		return "Type parameter documentation order mismatch"
	case CSENSE011DuplicateTypeParam:
		return "Type parameter is documented more than once"
	case CSENSE012MissingException:
		return "Thrown exception is missing documentation"
	case CSENSE013StrayReturnValue:
		return "Returns section on a member without a return value"
	case CSENSE014MissingValue:
		return "Property value is missing documentation"
	case CSENSE015StrayValue:
		return "Value section on a member that is not a property"
	case CSENSE016LowQuality:
		return "Documentation content is low quality"
	case CSENSE017InvalidExceptionType:
		return "Exception reference is not an exception type"
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

// MessageFormat returns the message template of the rule. Its verbs are filled with finding arguments.
func (r Rule) MessageFormat() string {
	switch r {
	case CSENSE001MissingDocumentation:
		return "The symbol '%s' is missing valid documentation"
	case CSENSE002MissingParam:
		return "The parameter '%s' is missing documentation"
	case CSENSE003StrayParam:
		return "The documented parameter '%s' does not exist in the signature"
	case CSENSE004MissingTypeParam:
		return "The type parameter '%s' is missing documentation"
	case CSENSE005StrayTypeParam:
		return "The documented type parameter '%s' does not exist in the signature"
	case CSENSE006MissingReturnValue:
		return "The return value of '%s' is missing documentation"
	case CSENSE007UnresolvedCref:
		return "The reference '%s' cannot be resolved"
	case CSENSE008ParamOrderMismatch:
		return "The documentation of parameter '%s' is out of signature order"
	case CSENSE009DuplicateParam:
		return "The parameter '%s' is documented more than once"
	case CSENSE010TypeParamOrderMismatch:
		return "The documentation of type parameter '%s' is out of signature order"
	case CSENSE011DuplicateTypeParam:
		return "The type parameter '%s' is documented more than once"
	case CSENSE012MissingException:
		return "The symbol '%s' throws '%s' which is not documented"
	case CSENSE013StrayReturnValue:
		return "The symbol '%s' has a returns section but returns no value"
	case CSENSE014MissingValue:
		return "The value of property '%s' is missing documentation"
	case CSENSE015StrayValue:
		return "The symbol '%s' has a value section but is not a property"
	case CSENSE016LowQuality:
		return "The <%s> documentation of '%s' is low quality"
	case CSENSE017InvalidExceptionType:
		return "The exception reference '%s' is not an exception type"
	default:
		return "%s"
	}
}

// Message renders the rule message with given arguments.
func (r Rule) Message(args ...string) string {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}

	return fmt.Sprintf(r.MessageFormat(), vals...)
}

// Description returns the explanation of the rule.
func (r Rule) Description() string {
	switch r {
	case CSENSE001MissingDocumentation:
		return "Externally visible declarations must carry documentation with at least one content section."
	case CSENSE002MissingParam:
		return "Every parameter must be described by a param section."
	case CSENSE003StrayParam:
		return "A param section must name an existing parameter."
	case CSENSE004MissingTypeParam:
		return "Every type parameter must be described by a typeparam section."
	case CSENSE005StrayTypeParam:
		return "A typeparam section must name an existing type parameter."
	case CSENSE006MissingReturnValue:
		return "Value-returning members must describe their result in a returns section."
	case CSENSE007UnresolvedCref:
		return "A cref must resolve to a symbol."
	case CSENSE008ParamOrderMismatch:
		return "Param sections must follow the signature order."
	case CSENSE009DuplicateParam:
		return "A parameter must be described once."
	case CSENSE010TypeParamOrderMismatch:
		return "Typeparam sections must follow the signature order."
	case CSENSE011DuplicateTypeParam:
		return "A type parameter must be described once."
	case CSENSE012MissingException:
		return "Exceptions escaping a member body must be described by an exception section."
	case CSENSE013StrayReturnValue:
		return "Returns sections belong to value-returning methods and indexers only."
	case CSENSE014MissingValue:
		return "Readable properties should describe their value in a value section."
	case CSENSE015StrayValue:
		return "Value sections belong to properties and indexers only."
	case CSENSE016LowQuality:
		return "Documentation must not be empty, restate the name or type, or use a banned phrase."
	case CSENSE017InvalidExceptionType:
		return "An exception section must reference an exception type."
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

// DefaultSeverity returns the severity of the rule when not configured.
func (r Rule) DefaultSeverity() Severity {
	return SeverityWarning
}

// EnabledByDefault checks if the rule is reported when not configured.
func (r Rule) EnabledByDefault() bool {
	return r != CSENSE014MissingValue
}

// Canonical constructors for readability and stable call sites.

func MissingDocumentation() Rule   { return CSENSE001MissingDocumentation }
func MissingParam() Rule           { return CSENSE002MissingParam }
func StrayParam() Rule             { return CSENSE003StrayParam }
func MissingTypeParam() Rule       { return CSENSE004MissingTypeParam }
func StrayTypeParam() Rule         { return CSENSE005StrayTypeParam }
func MissingReturnValue() Rule     { return CSENSE006MissingReturnValue }
func UnresolvedCref() Rule         { return CSENSE007UnresolvedCref }
func ParamOrderMismatch() Rule     { return CSENSE008ParamOrderMismatch }
func DuplicateParam() Rule         { return CSENSE009DuplicateParam }
func TypeParamOrderMismatch() Rule { return CSENSE010TypeParamOrderMismatch }
func DuplicateTypeParam() Rule     { return CSENSE011DuplicateTypeParam }
func MissingException() Rule       { return CSENSE012MissingException }
func StrayReturnValue() Rule       { return CSENSE013StrayReturnValue }
func MissingValue() Rule           { return CSENSE014MissingValue }
func StrayValue() Rule             { return CSENSE015StrayValue }
func LowQuality() Rule             { return CSENSE016LowQuality }
func InvalidExceptionType() Rule   { return CSENSE017InvalidExceptionType }
