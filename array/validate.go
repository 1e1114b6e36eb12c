package array

import (
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// Validate checks that sub can be stored in an array and reports whether
// arrays of sub must be tracked by the collector. Rejected subtypes are also
// reported through the registry's diagnostic channel.
func Validate(sub typeinfo.Subtype) (tracked bool, err error) {
	t := sub.Type
	if t == nil {
		return false, errors.InvalidInput(errors.PhaseRegister, "array subtype has no type")
	}
	section := "array<" + sub.String() + ">"

	reject := func(msg string) (bool, error) {
		if reg := t.Registry(); reg != nil {
			reg.Warn(section, msg)
		}
		return false, errors.Registration(section, msg)
	}

	switch {
	case sub.Const && !sub.Handle:
		return reject("Only handles can be const qualified")
	case sub.Handle && t.IsPrimitive():
		return reject("Handles to primitive types are not allowed")
	case sub.Handle && t.Counter() == nil:
		return reject("The subtype is not a reference type")
	case sub.Handle:
		return t.IsGC(), nil
	case t.IsPrimitive():
		return false, nil
	case t.Factory() == nil:
		return reject("The subtype has no default factory")
	}

	if !t.IsGC() {
		return false, nil
	}
	if _, ok := t.Factory().(typeinfo.Enumerator); !ok {
		if reg := t.Registry(); reg != nil {
			reg.Warn(section, "The subtype takes part in cycles but its factory cannot enumerate references")
		}
		return false, nil
	}
	return true, nil
}
