package catalog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/autoremove/pkg/errors"
)

// requirementRE splits a requirement string such as
//
//	jsonschema[format,format-nongpl]>=4; extra == "validation"
//
// into its name, the extras it enables on its target and the extra that
// guards it. Version specifiers and other markers are accepted but ignored.
var requirementRE = regexp.MustCompile(
	`^\s*([\w\-.]+)\s*(?:\[([^\]]*)\])?(?:.*\bextra\s*==\s*["']([\w\-.]+)["'])?.*$`,
)

// Requirement is one parsed dependency declaration.
type Requirement struct {
	Name           string   // Normalized name of the required package
	ConditionExtra string   // Extra of the requiring package that activates this (empty if unconditional)
	EnabledExtras  []string // Extras this requirement enables on its target
	Raw            string   // Original requirement string
}

// Equal reports whether r and o have the same target, condition and enabled
// extras. Raw is ignored.
func (r Requirement) Equal(o Requirement) bool {
	return r.Name == o.Name &&
		r.ConditionExtra == o.ConditionExtra &&
		slices.Equal(r.EnabledExtras, o.EnabledExtras)
}

// ParseRequirement parses a requirement string. Names are normalized, extras
// are kept as declared. A requirement without a name fails with a
// MALFORMED_REQUIREMENT error.
func ParseRequirement(raw string) (Requirement, error) {
	m := requirementRE.FindStringSubmatch(raw)
	if m == nil || m[1] == "" {
		return Requirement{}, errors.MalformedRequirement(raw, nil)
	}
	if err := errors.ValidatePythonPackageName(m[1]); err != nil {
		return Requirement{}, errors.MalformedRequirement(raw, err)
	}

	req := Requirement{
		Name:           NormalizeName(m[1]),
		ConditionExtra: m[3],
		Raw:            raw,
	}
	for _, extra := range strings.Split(m[2], ",") {
		if extra = strings.TrimSpace(extra); extra != "" {
			req.EnabledExtras = append(req.EnabledExtras, extra)
		}
	}
	return req, nil
}

// ParseRequirements parses every string in raw. Malformed entries are passed
// to skip, when non-nil, and left out of the result.
func ParseRequirements(raw []string, skip func(error)) []Requirement {
	out := make([]Requirement, 0, len(raw))
	for _, s := range raw {
		r, err := ParseRequirement(s)
		if err != nil {
			if skip != nil {
				skip(err)
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseExtras returns the valid extra names in raw, in order. Invalid names
// are passed to skip, when non-nil, and left out of the result.
func ParseExtras(raw []string, skip func(error)) []string {
	var out []string
	for _, x := range raw {
		if err := errors.ValidateExtraName(x); err != nil {
			if skip != nil {
				skip(err)
			}
			continue
		}
		out = append(out, x)
	}
	return out
}
