// Package jsonequal compares JSON values structurally: object key order is
// irrelevant, numbers compare by value.
package jsonequal

import (
	"math/big"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Equal reports whether a and b encode the same JSON value.
func Equal(a, b jx.Raw) (bool, error) {
	ta, tb := a.Type(), b.Type()
	if ta != tb {
		return false, nil
	}
	switch ta {
	case jx.Null:
		return true, nil
	case jx.Bool:
		x, err := jx.DecodeBytes(a).Bool()
		if err != nil {
			return false, err
		}
		y, err := jx.DecodeBytes(b).Bool()
		if err != nil {
			return false, err
		}
		return x == y, nil
	case jx.String:
		x, err := jx.DecodeBytes(a).Str()
		if err != nil {
			return false, err
		}
		y, err := jx.DecodeBytes(b).Str()
		if err != nil {
			return false, err
		}
		return x == y, nil
	case jx.Number:
		x, err := rat(a)
		if err != nil {
			return false, err
		}
		y, err := rat(b)
		if err != nil {
			return false, err
		}
		return x.Cmp(y) == 0, nil
	case jx.Array:
		xs, err := elems(a)
		if err != nil {
			return false, err
		}
		ys, err := elems(b)
		if err != nil {
			return false, err
		}
		if len(xs) != len(ys) {
			return false, nil
		}
		for i := range xs {
			ok, err := Equal(xs[i], ys[i])
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case jx.Object:
		xs, err := fields(a)
		if err != nil {
			return false, err
		}
		ys, err := fields(b)
		if err != nil {
			return false, err
		}
		if len(xs) != len(ys) {
			return false, nil
		}
		for k, x := range xs {
			y, ok := ys[k]
			if !ok {
				return false, nil
			}
			ok, err := Equal(x, y)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, errors.Errorf("unexpected type %q", ta)
	}
}

func rat(raw jx.Raw) (*big.Rat, error) {
	num, err := jx.DecodeBytes(raw).Num()
	if err != nil {
		return nil, err
	}
	val := new(big.Rat)
	if err := val.UnmarshalText(num); err != nil {
		return nil, errors.Wrapf(err, "parse %s", num)
	}
	return val, nil
}

func elems(raw jx.Raw) ([]jx.Raw, error) {
	var out []jx.Raw
	if err := jx.DecodeBytes(raw).Arr(func(d *jx.Decoder) error {
		el, err := d.Raw()
		if err != nil {
			return err
		}
		out = append(out, el)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func fields(raw jx.Raw) (map[string]jx.Raw, error) {
	out := map[string]jx.Raw{}
	if err := jx.DecodeBytes(raw).Obj(func(d *jx.Decoder, key string) error {
		val, err := d.Raw()
		if err != nil {
			return err
		}
		out[key] = val
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
