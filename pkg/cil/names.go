package cil

import (
	"fmt"
	"strings"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// bitmapToNames expands a value bitmap into the corresponding names.
func bitmapToNames(valToName []string, m policy.Bitmap) []string {
	names := make([]string, 0, m.Cardinality())
	m.ForEach(func(i int) {
		names = append(names, valToName[i])
	})
	return names
}

// bitmapToCIL writes the names of a value bitmap, each followed by a space.
func (t *Translator) bitmapToCIL(m policy.Bitmap, sym int) {
	valToName := t.pdb.ValToName[sym]
	m.ForEach(func(i int) {
		t.e.Printf("%s ", valToName[i])
	})
}

// setToAttr declares a fresh named attribute equivalent to an anonymous
// set. CIL has no anonymous positive/negative/complemented set literals, so
// a set with a negative part becomes (and P (not N)), and a complemented
// set wraps the whole thing in a negation. The attribute name carries the
// module name and a per-emitter counter so that multiple modules can
// coexist.
func (t *Translator) setToAttr(indent int, isType bool, pos, neg policy.Bitmap, flags uint32) ([]string, error) {
	var statement string
	var infix string
	var valToName []string

	if isType {
		statement = "type"
		infix = "_typeattr_"
		valToName = t.pdb.ValToName[policy.SymTypes]
	} else {
		statement = "role"
		infix = "_roleattr_"
		valToName = t.pdb.ValToName[policy.SymRoles]
	}

	attr := fmt.Sprintf("%s%s%d", t.module, infix, t.e.nextAttrNum())

	hasPositive := !pos.IsEmpty()
	hasNegative := !neg.IsEmpty()

	t.e.Println(indent, "(%sattribute %s)", statement, attr)
	t.e.Indent(indent)
	t.e.Printf("(%sattributeset %s ", statement, attr)

	if flags&policy.SetStar != 0 {
		t.e.Printf("(all)")
	}

	if flags&policy.SetComp != 0 {
		t.e.Printf("(not ")
	}

	if hasPositive && hasNegative {
		t.e.Printf("(and ")
	}

	if hasPositive {
		t.e.Printf("(")
		pos.ForEach(func(i int) {
			t.e.Printf("%s ", valToName[i])
		})
		t.e.Printf(") ")
	}

	if hasNegative {
		t.e.Printf("(not (")
		neg.ForEach(func(i int) {
			t.e.Printf("%s ", valToName[i])
		})
		t.e.Printf("))")
	}

	if hasPositive && hasNegative {
		t.e.Printf(")")
	}

	if flags&policy.SetComp != 0 {
		t.e.Printf(")")
	}

	t.e.Printf(")\n")

	return []string{attr}, nil
}

// typesetToNames expands a type set into names, synthesizing an attribute
// when the set carries negation or flags.
func (t *Translator) typesetToNames(indent int, ts *policy.TypeSet) ([]string, error) {
	if !ts.NegSet.IsEmpty() || ts.Flags != 0 {
		return t.setToAttr(indent, true, ts.Types, ts.NegSet, ts.Flags)
	}
	return bitmapToNames(t.pdb.ValToName[policy.SymTypes], ts.Types), nil
}

// rolesetToNames expands a role set, synthesizing an attribute when the set
// carries flags.
func (t *Translator) rolesetToNames(indent int, rs *policy.RoleSet) ([]string, error) {
	if rs.Flags != 0 {
		return t.setToAttr(indent, false, rs.Roles, policy.Bitmap{}, rs.Flags)
	}
	return bitmapToNames(t.pdb.ValToName[policy.SymRoles], rs.Roles), nil
}

// nameListToString joins names with single spaces.
func nameListToString(names []string) string {
	return strings.Join(names, " ")
}
