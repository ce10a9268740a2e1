package loader

import (
	"errors"
	"fmt"
	"go/token"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kolah/endpointgen/apiclient"
	"github.com/kolah/endpointgen/internal/golang"
	"github.com/kolah/endpointgen/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "identifier", func(fl validator.FieldLevel) bool {
		return isIdentifier(fl.Field().String())
	})
	mustRegister(v, "header", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && strings.IndexFunc(s, func(r rune) bool {
			return r <= ' ' || r >= 0x7f || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r)
		}) < 0
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// isFuncName reports whether s names a function, optionally qualified by a
// package: "parseQuota" or "errs.ParseQuota".
func isFuncName(s string) bool {
	pkg, name, ok := strings.Cut(s, ".")
	if !ok {
		return isIdentifier(s)
	}
	return isIdentifier(pkg) && isIdentifier(name)
}

func isIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace starts with the Go type name of the root struct.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s has duplicate %s values", field, strings.ToLower(fe.Param()))
	case "identifier":
		return fmt.Sprintf("%s must be a Go identifier, got %q", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", field, fe.Value())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range: %v", field, fe.Value())
	case "header":
		return fmt.Sprintf("%s must be a valid header name, got %q", field, fe.Value())
	case "required_without":
		return fmt.Sprintf("%s is required without %s", field, strings.ToLower(fe.Param()))
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Check enforces the catalog invariants shared by every input format. It
// returns an error for violations that make an endpoint ungeneratable, and
// warnings for declarations that are dropped or never take effect. Status
// handlers may be rewritten in place.
func Check(c *model.Catalog) ([]string, error) {
	var (
		warnings []string
		errs     []error
	)

	// Endpoints of every namespace share one generated package.
	seenEP := make(map[string]string)
	seenNS := make(map[string]bool)
	for i := range c.Namespaces {
		ns := &c.Namespaces[i]
		if seenNS[ns.Name] {
			errs = append(errs, fmt.Errorf("duplicate namespace %q", ns.Name))
		}
		seenNS[ns.Name] = true

		for j := range ns.Endpoints {
			ep := &ns.Endpoints[j]
			if other, ok := seenEP[ep.Name]; ok {
				errs = append(errs, fmt.Errorf("%s: endpoint %q is already declared in %s", ns.Name, ep.Name, other))
			}
			seenEP[ep.Name] = ns.Name

			w, err := checkEndpoint(ep)
			for _, msg := range w {
				warnings = append(warnings, fmt.Sprintf("%s.%s: %s", ns.Name, ep.Name, msg))
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", ns.Name, ep.Name, err))
			}
		}
	}

	for _, env := range c.Environments {
		for _, name := range slices.Sorted(maps.Keys(env.Overrides)) {
			if !seenNS[name] {
				warnings = append(warnings, fmt.Sprintf("environment %s overrides unknown namespace %q", env.Name, name))
			}
		}
	}

	return warnings, errors.Join(errs...)
}

func checkEndpoint(ep *model.Endpoint) ([]string, error) {
	var warnings []string

	params := make(map[string]bool, len(ep.Parameters))
	for _, p := range ep.Parameters {
		if params[p.Name] {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		params[p.Name] = true
		if _, err := golang.ParseType(p.Type); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
	}
	if !ep.IsUnit() {
		if _, err := golang.ParseType(ep.Response); err != nil {
			return nil, fmt.Errorf("response: %w", err)
		}
	}

	placeholders := apiclient.PathPlaceholders(ep.Path)
	if ep.Kind == model.KindPath {
		for _, name := range placeholders {
			if !params[name] {
				return nil, fmt.Errorf("path placeholder :%s has no parameter", name)
			}
		}
		for _, p := range ep.Parameters {
			if !slices.Contains(placeholders, p.Name) {
				warnings = append(warnings, fmt.Sprintf("parameter %s does not appear in path %s", p.Name, ep.Path))
			}
		}
	} else if len(placeholders) > 0 {
		warnings = append(warnings, fmt.Sprintf("placeholders in %s are not substituted for %s parameters", ep.Path, ep.Kind))
	}

	if ep.Kind == model.KindNothing && len(ep.Parameters) > 0 {
		warnings = append(warnings, "parameters are ignored for parameter kind nothing")
	}

	if ep.SuccessStatus == 0 {
		ep.SuccessStatus = http.StatusOK
	}

	seen := make(map[int]bool, len(ep.StatusHandlers))
	handlers := ep.StatusHandlers[:0]
	for _, h := range ep.StatusHandlers {
		switch {
		case h.Handler != "" && h.Variant != "":
			return nil, fmt.Errorf("status %d maps to both error %q and handler %q", h.Status, h.Variant, h.Handler)
		case h.Handler != "":
			if !isFuncName(h.Handler) {
				return nil, fmt.Errorf("status %d handler %q is not a function name", h.Status, h.Handler)
			}
		default:
			if _, ok := ep.Variant(h.Variant); !ok {
				return nil, fmt.Errorf("status %d maps to undeclared error %q", h.Status, h.Variant)
			}
		}
		switch {
		case h.Status == ep.SuccessStatus:
			warnings = append(warnings, fmt.Sprintf("handler for status %d is shadowed by the success status", h.Status))
		case seen[h.Status]:
			warnings = append(warnings, fmt.Sprintf("duplicate handler for status %d, keeping the first", h.Status))
		default:
			seen[h.Status] = true
			handlers = append(handlers, h)
		}
	}
	ep.StatusHandlers = handlers

	return warnings, nil
}
