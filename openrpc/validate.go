package openrpc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

type validateOptions struct {
	rejectUnknownTypedFields bool
	requireSupportedVersion  bool
}

// ValidateOption configures Document.Validate.
type ValidateOption func(*validateOptions)

// WithRejectUnknownTypedFields treats unknown (non-`x-`) fields in typed objects as errors.
// By default unknown fields are preserved and ignored.
func WithRejectUnknownTypedFields() ValidateOption {
	return func(o *validateOptions) { o.rejectUnknownTypedFields = true }
}

// WithRequireSupportedVersion requires the openrpc version to be within SupportedRange.
func WithRequireSupportedVersion() ValidateOption {
	return func(o *validateOptions) { o.requireSupportedVersion = true }
}

var semverish = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

// Validate performs shape-level checks needed for a meaningful comparison.
// It is not JSON Schema meta-validation.
func (d Document) Validate(opts ...ValidateOption) error {
	var o validateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var errs []string

	switch {
	case strings.TrimSpace(d.OpenRPC) == "":
		errs = append(errs, "openrpc: required")
	case !semverish.MatchString(d.OpenRPC):
		errs = append(errs, "openrpc: must be MAJOR.MINOR.PATCH (e.g. 1.2.6)")
	case o.requireSupportedVersion:
		ok, err := IsSupportedVersion(d.OpenRPC)
		if err != nil {
			errs = append(errs, fmt.Sprintf("openrpc: invalid version: %v", err))
		} else if !ok {
			errs = append(errs, fmt.Sprintf("openrpc: unsupported version %q (supported %s-%s)", d.OpenRPC, MinSupportedVersion, MaxTestedVersion))
		}
	}

	if strings.TrimSpace(d.Info.Title) == "" {
		errs = append(errs, "info.title: required")
	}
	if strings.TrimSpace(d.Info.Version) == "" {
		errs = append(errs, "info.version: required")
	}

	if d.Methods == nil {
		errs = append(errs, "methods: required")
	}

	seen := map[string]int{}
	for idx, m := range d.Methods {
		at := fmt.Sprintf("methods[%d]", idx)
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, at+".name: required")
		} else if first, dup := seen[m.Name]; dup {
			errs = append(errs, fmt.Sprintf("%s.name: %q already declared by methods[%d]", at, m.Name, first))
		} else {
			seen[m.Name] = idx
		}

		switch m.ParamStructure {
		case "", ParamStructureByName, ParamStructureByPosition, ParamStructureEither:
		default:
			errs = append(errs, fmt.Sprintf("%s.paramStructure: must be %q, %q or %q", at, ParamStructureByName, ParamStructureByPosition, ParamStructureEither))
		}

		names := map[string]bool{}
		for pidx, p := range m.Params {
			pat := fmt.Sprintf("%s.params[%d]", at, pidx)
			cd := validateDescriptor(&errs, pat, p, d.Components, o)
			if cd == nil || cd.Name == "" {
				continue
			}
			if names[cd.Name] {
				errs = append(errs, fmt.Sprintf("%s.name: duplicate parameter %q", pat, cd.Name))
			}
			names[cd.Name] = true
		}
		if m.Result != nil {
			validateDescriptor(&errs, at+".result", *m.Result, d.Components, o)
		}

		if o.rejectUnknownTypedFields {
			appendUnknownFieldProblems(&errs, at, m.Unknown)
		}
	}

	if o.rejectUnknownTypedFields {
		appendUnknownFieldProblems(&errs, "", d.Unknown)
		appendUnknownFieldProblems(&errs, "info", d.Info.Unknown)
		if d.Components != nil {
			appendUnknownFieldProblems(&errs, "components", d.Components.Unknown)
			keys := make([]string, 0, len(d.Components.ContentDescriptors))
			for k := range d.Components.ContentDescriptors {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				appendUnknownFieldProblems(&errs, fmt.Sprintf("components.contentDescriptors[%q]", k), d.Components.ContentDescriptors[k].Unknown)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}

func validateDescriptor(errs *[]string, at string, c ContentDescriptorOrRef, components *Components, o validateOptions) *ContentDescriptor {
	if c.IsRef() {
		cd := c.Resolve(components)
		if cd == nil {
			*errs = append(*errs, fmt.Sprintf("%s.$ref: cannot resolve %q", at, c.Ref))
		}
		return cd
	}
	cd := c.Descriptor
	if cd == nil {
		*errs = append(*errs, at+": must be a content descriptor or $ref")
		return nil
	}
	if strings.TrimSpace(cd.Name) == "" {
		*errs = append(*errs, at+".name: required")
	}
	if cd.Schema == nil {
		*errs = append(*errs, at+".schema: required")
	}
	if o.rejectUnknownTypedFields {
		appendUnknownFieldProblems(errs, at, cd.Unknown)
	}
	return cd
}

func appendUnknownFieldProblems(errs *[]string, prefix string, unknown map[string]json.RawMessage) {
	if len(unknown) == 0 {
		return
	}
	keys := make([]string, 0, len(unknown))
	for k := range unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if prefix == "" {
		*errs = append(*errs, fmt.Sprintf("unknown fields: %s", strings.Join(keys, ", ")))
		return
	}
	*errs = append(*errs, fmt.Sprintf("%s: unknown fields: %s", prefix, strings.Join(keys, ", ")))
}
