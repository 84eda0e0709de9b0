package cil

import (
	"github.com/go-errors/errors"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// symConverter lowers one symbol of a declaration. The scope argument says
// whether the symbol is declared or merely required there.
type symConverter func(t *Translator, indent int, block *policy.AvruleBlock, decl *policy.AvruleDecl, key string, datum interface{}, scope int) error

// symToCIL is indexed by symbol kind. Commons have no entry; they are only
// stored in the global symtab and handled by the block walker.
var symToCIL = [policy.SymNum]symConverter{
	policy.SymCommons: nil,
	policy.SymClasses: classToCIL,
	policy.SymRoles:   roleToCIL,
	policy.SymTypes:   typeToCIL,
	policy.SymUsers:   userToCIL,
	policy.SymBools:   booleanToCIL,
	policy.SymLevels:  sensToCIL,
	policy.SymCats:    catToCIL,
}

// constraintsToCIL lowers a class's constrain or validatetrans list.
func (t *Translator) constraintsToCIL(indent int, classKey string, class *policy.Class, constraints []*policy.Constraint, isConstraint bool) error {
	mls := ""
	if t.pdb.MLS {
		mls = "mls"
	}

	for _, node := range constraints {
		expr, err := t.constraintExprToString(indent, node.Expr)
		if err != nil {
			return err
		}

		if isConstraint {
			perms, err := t.pdb.AvToPerms(class.Value, node.Permissions)
			if err != nil {
				return err
			}
			t.e.Println(indent, "(%sconstrain (%s (%s)) %s)", mls, classKey, nameListToString(perms), expr)
		} else {
			t.e.Println(indent, "(%svalidatetrans %s %s)", mls, classKey, expr)
		}
	}

	return nil
}

// commonToCIL writes a common and its permission list.
func (t *Translator) commonToCIL(key string, common *policy.Common) {
	t.e.Printf("(common %s (", key)
	for _, perm := range policy.PermsInOrder(common.Permissions) {
		t.e.Printf("%s ", perm)
	}
	t.e.Printf("))\n")
}

func classToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	class := datum.(*policy.Class)

	// a required class is a forward-require; CIL has no statement for it
	if scope == policy.ScopeRequired {
		return nil
	}

	t.e.Indent(indent)
	t.e.Printf("(class %s (", key)
	for _, perm := range policy.PermsInOrder(class.Permissions) {
		t.e.Printf("%s ", perm)
	}
	t.e.Printf("))\n")

	if class.CommonKey != "" {
		t.e.Println(indent, "(classcommon %s %s)", key, class.CommonKey)
	}

	if class.DefaultUser != 0 {
		dflt, err := defaultName(class.DefaultUser)
		if err != nil {
			return errors.Errorf("unknown default user value: %d", class.DefaultUser)
		}
		t.e.Println(indent, "(defaultuser %s %s)", key, dflt)
	}

	if class.DefaultRole != 0 {
		dflt, err := defaultName(class.DefaultRole)
		if err != nil {
			return errors.Errorf("unknown default role value: %d", class.DefaultRole)
		}
		t.e.Println(indent, "(defaultrole %s %s)", key, dflt)
	}

	if class.DefaultType != 0 {
		dflt, err := defaultName(class.DefaultType)
		if err != nil {
			return errors.Errorf("unknown default type value: %d", class.DefaultType)
		}
		t.e.Println(indent, "(defaulttype %s %s)", key, dflt)
	}

	if class.DefaultRange != 0 {
		var dflt string
		switch class.DefaultRange {
		case policy.DefaultSourceLow:
			dflt = "source low"
		case policy.DefaultSourceHigh:
			dflt = "source high"
		case policy.DefaultSourceLowHigh:
			dflt = "source low-high"
		case policy.DefaultTargetLow:
			dflt = "target low"
		case policy.DefaultTargetHigh:
			dflt = "target high"
		case policy.DefaultTargetLowHigh:
			dflt = "target low-high"
		default:
			return errors.Errorf("unknown default range value: %d", class.DefaultRange)
		}
		t.e.Println(indent, "(defaultrange %s %s)", key, dflt)
	}

	if len(class.Constraints) > 0 {
		if err := t.constraintsToCIL(indent, key, class, class.Constraints, true); err != nil {
			return err
		}
	}

	if len(class.ValidateTrans) > 0 {
		if err := t.constraintsToCIL(indent, key, class, class.ValidateTrans, false); err != nil {
			return err
		}
	}

	return nil
}

func defaultName(val int) (string, error) {
	switch val {
	case policy.DefaultSource:
		return "source", nil
	case policy.DefaultTarget:
		return "target", nil
	}
	return "", errors.Errorf("unknown default value: %d", val)
}

func roleToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	role := datum.(*policy.Role)
	roleNames := t.pdb.ValToName[policy.SymRoles]

	switch role.Flavor {
	case policy.RoleRole:
		if scope == policy.ScopeDeclared && t.pdb.Type == policy.PolicyModule {
			// roles are defined twice, once in a module and once in base.
			// CIL doesn't allow duplicate declarations, so only take the
			// roles defined in the modules; their attributes are handled
			// with the decl roles
			t.e.Println(indent, "(role %s)", key)
			return nil
		}

		if role.Dominates.Cardinality() > 1 {
			t.warnf("Warning: role 'dominance' statement unsupported in CIL. Dropping from output.")
		}

		types, err := t.typesetToNames(indent, &role.Types)
		if err != nil {
			return err
		}
		for _, typ := range types {
			t.e.Println(indent, "(roletype %s %s)", key, typ)
		}

		if role.Bounds > 0 {
			t.e.Println(indent, "(rolebounds %s %s)", key, roleNames[role.Bounds-1])
		}

	case policy.RoleAttrib:
		if scope == policy.ScopeDeclared {
			t.e.Println(indent, "(roleattribute %s)", key)
		}

		if !role.Roles.IsEmpty() {
			t.e.Indent(indent)
			t.e.Printf("(roleattributeset %s (", key)
			role.Roles.ForEach(func(i int) {
				t.e.Printf("%s ", roleNames[i])
			})
			t.e.Printf("))\n")
		}

		types, err := t.typesetToNames(indent, &role.Types)
		if err != nil {
			return err
		}
		for _, typ := range types {
			t.e.Println(indent, "(roletype %s %s)", key, typ)
		}

	default:
		return errors.Errorf("unknown role type: %d", role.Flavor)
	}

	return nil
}

func typeToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	typ := datum.(*policy.Type)
	typeNames := t.pdb.ValToName[policy.SymTypes]

	switch typ.Flavor {
	case policy.TypeType:
		if scope == policy.ScopeDeclared {
			if typ.Primary {
				t.e.Println(indent, "(type %s)", key)
				// object_r is implicit in checkmodule, but not with CIL,
				// create it as part of base
				t.e.Println(indent, "(roletype %s %s)", defaultObject, key)
			} else {
				t.e.Println(indent, "(typealias %s)", key)
				t.e.Println(indent, "(typealiasactual %s %s)", key, typeNames[typ.Value-1])
			}
		}

		if typ.Flags&policy.TypeFlagPermissive != 0 {
			t.e.Println(indent, "(typepermissive %s)", key)
		}

		if typ.Bounds > 0 {
			t.e.Println(indent, "(typebounds %s %s)", typeNames[typ.Bounds-1], key)
		}

	case policy.TypeAttrib:
		if scope == policy.ScopeDeclared {
			t.e.Println(indent, "(typeattribute %s)", key)
		}

		if !typ.Types.IsEmpty() {
			t.e.Indent(indent)
			t.e.Printf("(typeattributeset %s (", key)
			t.bitmapToCIL(typ.Types, policy.SymTypes)
			t.e.Printf("))\n")
		}

	default:
		return errors.Errorf("unknown flavor (%d) of type %s", typ.Flavor, key)
	}

	return nil
}

func userToCIL(t *Translator, indent int, block *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	user := datum.(*policy.User)
	roleNames := t.pdb.ValToName[policy.SymRoles]

	if scope == policy.ScopeDeclared {
		t.e.Println(indent, "(user %s)", key)
		// object_r is implicit in checkmodule, but not with CIL, create it
		// as part of base
		t.e.Println(indent, "(userrole %s %s)", key, defaultObject)
	}

	user.Roles.Roles.ForEach(func(i int) {
		t.e.Println(indent, "(userrole %s %s)", key, roleNames[i])
	})

	// sensitivities in user statements in optionals do not carry the
	// standard -1 offset
	sensOffset := uint32(1)
	if block.Optional() {
		sensOffset = 0
	}

	t.e.Indent(indent)
	t.e.Printf("(userlevel %s ", key)
	if t.pdb.MLS {
		if err := t.semanticLevelToCIL(sensOffset, &user.DefaultLevel); err != nil {
			return err
		}
	} else {
		t.e.Printf(defaultLevel)
	}
	t.e.Printf(")\n")

	t.e.Indent(indent)
	t.e.Printf("(userrange %s (", key)
	if t.pdb.MLS {
		if err := t.semanticLevelToCIL(sensOffset, &user.Range.Low); err != nil {
			return err
		}
		t.e.Printf(" ")
		if err := t.semanticLevelToCIL(sensOffset, &user.Range.High); err != nil {
			return err
		}
	} else {
		t.e.Printf("%s %s", defaultLevel, defaultLevel)
	}
	t.e.Printf("))\n")

	return nil
}

func booleanToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	boolean := datum.(*policy.Bool)

	if scope == policy.ScopeDeclared {
		kind := "boolean"
		if boolean.Flags&policy.BoolTunable != 0 {
			kind = "tunable"
		}
		state := "false"
		if boolean.State {
			state = "true"
		}
		t.e.Println(indent, "(%s %s %s)", kind, key, state)
	}

	return nil
}

func sensToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	level := datum.(*policy.Level)
	sensNames := t.pdb.ValToName[policy.SymLevels]

	if scope == policy.ScopeDeclared {
		if !level.IsAlias {
			t.e.Println(indent, "(sensitivity %s)", key)
		} else {
			t.e.Println(indent, "(sensitivityalias %s)", key)
			t.e.Println(indent, "(sensitivityaliasactual %s %s)", key, sensNames[level.Level.Sens-1])
		}
	}

	if !level.Level.Cats.IsEmpty() {
		t.e.Indent(indent)
		t.e.Printf("(sensitivitycategory %s (", key)
		t.bitmapToCIL(level.Level.Cats, policy.SymCats)
		t.e.Printf("))\n")
	}

	return nil
}

// sensOrderToCIL writes the sensitivity order of a declared-scope bitmap.
func (t *Translator) sensOrderToCIL(indent int, order policy.Bitmap) {
	if order.IsEmpty() {
		return
	}

	t.e.Indent(indent)
	t.e.Printf("(sensitivityorder (")
	t.bitmapToCIL(order, policy.SymLevels)
	t.e.Printf("))\n")
}

func catToCIL(t *Translator, indent int, _ *policy.AvruleBlock, _ *policy.AvruleDecl, key string, datum interface{}, scope int) error {
	cat := datum.(*policy.Category)
	catNames := t.pdb.ValToName[policy.SymCats]

	if scope == policy.ScopeRequired {
		return nil
	}

	if !cat.IsAlias {
		t.e.Println(indent, "(category %s)", key)
	} else {
		t.e.Println(indent, "(categoryalias %s)", key)
		t.e.Println(indent, "(categoryaliasactual %s %s)", key, catNames[cat.Value-1])
	}

	return nil
}

// catOrderToCIL writes the category order of a declared-scope bitmap.
func (t *Translator) catOrderToCIL(indent int, order policy.Bitmap) {
	if order.IsEmpty() {
		return
	}

	t.e.Indent(indent)
	t.e.Printf("(categoryorder (")
	t.bitmapToCIL(order, policy.SymCats)
	t.e.Printf("))\n")
}

// polcapsToCIL writes one policycap form per capability bit.
func (t *Translator) polcapsToCIL() error {
	var capErr error
	t.pdb.PolicyCaps.ForEach(func(i int) {
		if capErr != nil {
			return
		}
		name := policy.PolicyCapName(i)
		if name == "" {
			capErr = errors.Errorf("unknown policy capability id: %d", i)
			return
		}
		t.e.Println(0, "(policycap %s)", name)
	})
	return capErr
}
