package jsonschema

import (
	"math/big"
	"regexp"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/schemakit/jsonschema/internal/jsonequal"
)

// Validate checks a JSON instance against the resolved schema in root.
func Validate(root *Root, data []byte) error {
	raw, err := jx.DecodeBytes(data).Raw()
	if err != nil {
		return errors.Wrap(err, "invalid json")
	}
	return validateValue(root, root.Schema, raw)
}

func validateValue(root *Root, s *Node, data jx.Raw) error {
	if errs := validateSchema(root, s, data); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// validateSchema validates data against a single schema node, collecting one
// error per failing keyword. References are dereferenced here, at validation
// time, against the current root; recursion through cyclic schemas is driven
// by the instance and therefore terminates.
func validateSchema(root *Root, s *Node, data jx.Raw) []error {
	// Store followed references to detect chains that consume no input.
	// Pointer navigation may land directly on a reference value, so both
	// shapes go through the same set.
	var seen map[*Ref]struct{}
	for {
		var r *Ref
		switch {
		case s.Kind() == KindRef:
			r = s.ref
		case s.Kind() == KindObject:
			// A reference overrides sibling keywords, per draft-4.
			if ref := s.fields["$ref"]; ref.Kind() == KindRef {
				r = ref.ref
			}
		}
		if r == nil {
			break
		}
		if _, ok := seen[r]; ok {
			return []error{errors.Errorf("resolve %q: infinite recursion", r)}
		}
		if seen == nil {
			seen = map[*Ref]struct{}{}
		}
		seen[r] = struct{}{}
		var err error
		root, s, err = r.Resolve(root)
		if err != nil {
			return []error{err}
		}
	}
	if s.Kind() != KindObject {
		return nil
	}

	var errs []error
	report := func(name string, err error) {
		if err != nil {
			errs = append(errs, errors.Wrap(err, name))
		}
	}
	report("type", validateType(s, data))
	report("enum", validateEnum(s, data))
	report("allOf", validateAllOf(root, s, data))
	report("anyOf", validateAnyOf(root, s, data))
	report("oneOf", validateOneOf(root, s, data))
	report("not", validateNot(root, s, data))
	switch data.Type() {
	case jx.String:
		report("string", validateString(s, data))
	case jx.Number:
		report("number", validateNumber(s, data))
	case jx.Array:
		report("array", validateArray(root, s, data))
	case jx.Object:
		report("object", validateObject(root, s, data))
	}
	return errs
}

func validateType(s *Node, data jx.Raw) error {
	t := s.fields["type"]
	if t == nil {
		return nil
	}
	var types []string
	if v, ok := t.str(); ok {
		types = []string{v}
	} else {
		for _, el := range t.Elems() {
			if v, ok := el.str(); ok {
				types = append(types, v)
			}
		}
	}
	if len(types) == 0 {
		return nil
	}
	match := func(typ string) bool {
		switch data.Type() {
		case jx.String:
			return typ == "string"
		case jx.Number:
			if typ == "number" {
				return true
			}
			if typ != "integer" {
				return false
			}
			num, err := jx.DecodeBytes(data).Num()
			return err == nil && num.IsInt()
		case jx.Bool:
			return typ == "boolean"
		case jx.Null:
			return typ == "null"
		case jx.Array:
			return typ == "array"
		case jx.Object:
			return typ == "object"
		default:
			return false
		}
	}
	for _, typ := range types {
		if match(typ) {
			return nil
		}
	}
	return errors.New("type is not allowed")
}

func validateEnum(s *Node, data jx.Raw) error {
	enum := s.fields["enum"]
	if enum.Kind() != KindArray {
		return nil
	}
	for _, variant := range enum.elems {
		raw, err := variant.MarshalJSON()
		if err != nil {
			return err
		}
		ok, err := jsonequal.Equal(jx.Raw(raw), data)
		if err != nil {
			return errors.Wrap(err, "compare")
		}
		if ok {
			return nil
		}
	}
	return errors.Errorf("%s is not present in enum", data)
}

func validateAllOf(root *Root, s *Node, data jx.Raw) error {
	for i, sub := range s.fields["allOf"].Elems() {
		if err := validateValue(root, sub, data); err != nil {
			return errors.Wrapf(err, "[%d]", i)
		}
	}
	return nil
}

func validateAnyOf(root *Root, s *Node, data jx.Raw) error {
	elems := s.fields["anyOf"].Elems()
	if len(elems) == 0 {
		return nil
	}
	for _, sub := range elems {
		if err := validateValue(root, sub, data); err == nil {
			return nil
		}
	}
	return errors.New("must match at least once")
}

func validateOneOf(root *Root, s *Node, data jx.Raw) error {
	elems := s.fields["oneOf"].Elems()
	if len(elems) == 0 {
		return nil
	}
	counter := 0
	for _, sub := range elems {
		if err := validateValue(root, sub, data); err == nil {
			if counter != 0 {
				return errors.New("must match exactly once")
			}
			counter++
		}
	}
	if counter != 0 {
		return nil
	}
	return errors.New("must match at least once")
}

func validateNot(root *Root, s *Node, data jx.Raw) error {
	n := s.fields["not"]
	if n == nil {
		return nil
	}
	if err := validateValue(root, n, data); err == nil {
		return errors.New("must not match")
	}
	return nil
}

func validateString(s *Node, data jx.Raw) error {
	minLength, hasMin := s.fields["minLength"].uintVal()
	maxLength, hasMax := s.fields["maxLength"].uintVal()
	pattern, hasPattern := s.fields["pattern"].str()
	if !hasMin && !hasMax && !hasPattern {
		return nil
	}
	str, err := jx.DecodeBytes(data).StrBytes()
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	if hasMin || hasMax {
		count := uint64(utf8.RuneCount(str))
		if hasMin && count < minLength {
			return errors.Errorf("length is smaller than %d", minLength)
		}
		if hasMax && count > maxLength {
			return errors.Errorf("length is bigger than %d", maxLength)
		}
	}
	if hasPattern {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return errors.Wrap(err, "pattern")
		}
		if !re.Match(str) {
			return errors.Errorf("does not match pattern %s", pattern)
		}
	}
	return nil
}

func validateNumber(s *Node, data jx.Raw) error {
	minimum, hasMinimum := s.fields["minimum"].rat()
	maximum, hasMaximum := s.fields["maximum"].rat()
	multipleOf, hasMultipleOf := s.fields["multipleOf"].rat()
	if !hasMinimum && !hasMaximum && !hasMultipleOf {
		return nil
	}
	num, err := jx.DecodeBytes(data).Num()
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	val := new(big.Rat)
	if err := val.UnmarshalText(num); err != nil {
		return errors.Wrap(err, "parse")
	}
	if hasMinimum {
		exclusive, _ := s.fields["exclusiveMinimum"].boolVal()
		cmp := val.Cmp(minimum)
		if (exclusive && cmp <= 0) || cmp < 0 {
			return errors.Errorf("value %s is smaller than %s", val, minimum)
		}
	}
	if hasMaximum {
		exclusive, _ := s.fields["exclusiveMaximum"].boolVal()
		cmp := val.Cmp(maximum)
		if (exclusive && cmp >= 0) || cmp > 0 {
			return errors.Errorf("value %s is bigger than %s", val, maximum)
		}
	}
	if hasMultipleOf {
		if !new(big.Rat).Quo(val, multipleOf).IsInt() {
			return errors.Errorf("%s is not multiple of %s", val, multipleOf)
		}
	}
	return nil
}

func validateArray(root *Root, s *Node, data jx.Raw) error {
	items := s.fields["items"]
	additional := s.fields["additionalItems"]
	unique, _ := s.fields["uniqueItems"].boolVal()
	minItems, hasMinItems := s.fields["minItems"].uintVal()
	maxItems, hasMaxItems := s.fields["maxItems"].uintVal()
	if items == nil && !unique && !hasMinItems && !hasMaxItems {
		return nil
	}

	d := jx.DecodeBytes(data)
	iter, err := d.ArrIter()
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	var (
		i    int
		seen []jx.Raw
	)
	for iter.Next() {
		raw, err := d.Raw()
		if err != nil {
			return errors.Wrap(err, "parse JSON")
		}
		var sch *Node
		switch {
		case items == nil:
		case items.Kind() == KindArray:
			if i < len(items.elems) {
				sch = items.elems[i]
			} else if b, ok := additional.boolVal(); ok {
				if !b {
					return errors.Errorf("[%d]: additional items are not allowed", i)
				}
			} else {
				sch = additional
			}
		default:
			sch = items
		}
		if sch != nil {
			if err := validateValue(root, sch, raw); err != nil {
				return errors.Wrapf(err, "[%d]", i)
			}
		}
		if unique {
			seen = append(seen, raw)
		}
		i++
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "parse JSON")
	}

	for xi, x := range seen {
		for yi, y := range seen[xi+1:] {
			if ok, _ := jsonequal.Equal(x, y); ok {
				return errors.Errorf("items %d and %d are equal", xi, xi+1+yi)
			}
		}
	}

	if hasMinItems && uint64(i) < minItems {
		return errors.Errorf("length is smaller than %d", minItems)
	}
	if hasMaxItems && uint64(i) > maxItems {
		return errors.Errorf("length is bigger than %d", maxItems)
	}
	return nil
}

func validateObject(root *Root, s *Node, data jx.Raw) error {
	props := s.fields["properties"]
	patterns := s.fields["patternProperties"]
	additional := s.fields["additionalProperties"]
	deps := s.fields["dependencies"]
	minProps, hasMinProps := s.fields["minProperties"].uintVal()
	maxProps, hasMaxProps := s.fields["maxProperties"].uintVal()

	var required map[string]struct{}
	if list := s.fields["required"].Elems(); len(list) > 0 {
		required = make(map[string]struct{}, len(list))
		for _, el := range list {
			if v, ok := el.str(); ok {
				required[v] = struct{}{}
			}
		}
	}
	if props == nil && patterns == nil && additional == nil && deps == nil &&
		required == nil && !hasMinProps && !hasMaxProps {
		return nil
	}

	d := jx.DecodeBytes(data)
	iter, err := d.ObjIter()
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	var (
		count int
		keys  map[string]struct{}
	)
	if deps != nil {
		keys = map[string]struct{}{}
	}
	for iter.Next() {
		k := string(iter.Key())
		delete(required, k)
		if keys != nil {
			keys[k] = struct{}{}
		}

		prop := props.field(k)
		if prop == nil && patterns == nil && additional == nil {
			if err := d.Skip(); err != nil {
				return errors.Wrap(err, "parse JSON")
			}
			count++
			continue
		}
		item, err := d.Raw()
		if err != nil {
			return errors.Wrap(err, "parse JSON")
		}

		matched := false
		if prop != nil {
			matched = true
			if err := validateValue(root, prop, item); err != nil {
				return errors.Wrapf(err, "%q", k)
			}
		}
		for pat, sub := range patterns.Fields() {
			re, err := regexp.Compile(pat)
			if err != nil {
				return errors.Wrapf(err, "pattern %q", pat)
			}
			if !re.MatchString(k) {
				continue
			}
			matched = true
			if err := validateValue(root, sub, item); err != nil {
				return errors.Wrapf(err, "%q: pattern %q", k, pat)
			}
		}
		if !matched && additional != nil {
			if b, ok := additional.boolVal(); ok {
				if !b {
					return errors.Errorf("%q: additional properties are not allowed", k)
				}
			} else if err := validateValue(root, additional, item); err != nil {
				return errors.Wrapf(err, "%q: additionalProperties", k)
			}
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "parse JSON")
	}

	for k := range required {
		return errors.Errorf("required property %q is missing", k)
	}
	if hasMinProps && uint64(count) < minProps {
		return errors.Errorf("length is smaller than %d", minProps)
	}
	if hasMaxProps && uint64(count) > maxProps {
		return errors.Errorf("length is bigger than %d", maxProps)
	}
	for name, dep := range deps.Fields() {
		if _, ok := keys[name]; !ok {
			continue
		}
		switch dep.Kind() {
		case KindArray:
			for _, el := range dep.elems {
				if v, ok := el.str(); ok {
					if _, ok := keys[v]; !ok {
						return errors.Errorf("%q requires %q", name, v)
					}
				}
			}
		default:
			if err := validateValue(root, dep, data); err != nil {
				return errors.Wrapf(err, "%q", name)
			}
		}
	}
	return nil
}
