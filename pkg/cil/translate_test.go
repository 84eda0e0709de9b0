package cil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artyom-smirnov/selinux/pkg/policy"
)

func discardWarnings(format string, args ...interface{}) {}

// TestTranslateBasePreamble is a function.
func TestTranslateBasePreamble(t *testing.T) {
	pdb := testPdb()
	pdb.HandleUnknown = policy.DenyUnknown

	var out bytes.Buffer
	err := Translate(&policy.Package{Policy: pdb}, &out, Options{Warn: discardWarnings})
	assert.NoError(t, err)

	expected := "(sensitivity s0)\n" +
		"(sensitivityorder (s0))\n" +
		"(level systemlow (s0))\n" +
		"(role object_r)\n" +
		"(handleunknown deny)\n" +
		"(mls false)\n"
	assert.True(t, strings.HasPrefix(out.String(), expected), out.String())
}

// TestTranslateHandleUnknown is a function.
func TestTranslateHandleUnknown(t *testing.T) {
	type scenario struct {
		handleUnknown policy.HandleUnknown
		expected      string
	}

	scenarios := []scenario{
		{policy.DenyUnknown, "(handleunknown deny)\n"},
		{policy.RejectUnknown, "(handleunknown reject)\n"},
		{policy.AllowUnknown, "(handleunknown allow)\n"},
	}

	for _, s := range scenarios {
		pdb := testPdb()
		pdb.HandleUnknown = s.handleUnknown

		var out bytes.Buffer
		err := Translate(&policy.Package{Policy: pdb}, &out, Options{Warn: discardWarnings})
		assert.NoError(t, err)
		assert.Contains(t, out.String(), s.expected)
	}
}

// TestTranslateModuleHasNoPreamble is a function.
func TestTranslateModuleHasNoPreamble(t *testing.T) {
	pdb := testPdb()
	pdb.Type = policy.PolicyModule
	pdb.Name = "mymod"

	var out bytes.Buffer
	err := Translate(&policy.Package{Policy: pdb}, &out, Options{Warn: discardWarnings})
	assert.NoError(t, err)
	assert.NotContains(t, out.String(), "(handleunknown")
	assert.NotContains(t, out.String(), "(mls")
	assert.NotContains(t, out.String(), "(role object_r)")
}

// TestFixModuleName is a function.
func TestFixModuleName(t *testing.T) {
	type scenario struct {
		pdb      *policy.PolicyDB
		expected string
	}

	scenarios := []scenario{
		{&policy.PolicyDB{Type: policy.PolicyBase}, "base"},
		{&policy.PolicyDB{Type: policy.PolicyModule, Name: "mymod"}, "mymod"},
		{&policy.PolicyDB{Type: policy.PolicyModule, Name: "my-mod.2"}, "my_mod_2"},
	}

	for _, s := range scenarios {
		assert.Equal(t, s.expected, fixModuleName(s.pdb))
	}
}

// TestTranslateRejectsBadPackage is a function.
func TestTranslateRejectsBadPackage(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, Translate(nil, &out, Options{}))
	assert.Error(t, Translate(&policy.Package{}, &out, Options{}))
	assert.Error(t, Translate(&policy.Package{Policy: &policy.PolicyDB{}}, &out, Options{}))
}

// blocksPdb builds a base pdb with a global block declaring type a and two
// sibling optionals, the first requiring type a and the second type b.
func blocksPdb() *policy.PolicyDB {
	pdb := testPdb()
	pdb.HandleUnknown = policy.DenyUnknown

	global := &policy.AvruleDecl{DeclID: 1}
	global.Declared.Scope[policy.SymTypes] = policy.NewBitmap(0)

	inner := &policy.AvruleDecl{DeclID: 2}
	inner.Required.Scope[policy.SymTypes] = policy.NewBitmap(0)
	inner.AvRules = []*policy.AvRule{{
		Specified: policy.AvruleAllowed,
		SrcTypes:  policy.TypeSet{Types: policy.NewBitmap(0)},
		TgtTypes:  policy.TypeSet{Types: policy.NewBitmap(1)},
		Perms:     []*policy.ClassPerm{{Class: 1, Data: 0x1}},
	}}

	sibling := &policy.AvruleDecl{DeclID: 3}
	sibling.Required.Scope[policy.SymTypes] = policy.NewBitmap(1)

	pdb.Blocks = []*policy.AvruleBlock{
		{Decls: []*policy.AvruleDecl{global}},
		{Flags: policy.BlockOptional, Decls: []*policy.AvruleDecl{inner}},
		{Flags: policy.BlockOptional, Decls: []*policy.AvruleDecl{sibling}},
	}

	pdb.Scope[policy.SymTypes]["a"] = &policy.ScopeDatum{Scope: policy.ScopeDeclared, DeclIDs: []uint32{1}}
	pdb.Scope[policy.SymTypes]["b"] = &policy.ScopeDatum{Scope: policy.ScopeDeclared, DeclIDs: []uint32{1}}

	return pdb
}

// TestBlocksOptionalNesting is a function.
func TestBlocksOptionalNesting(t *testing.T) {
	pdb := blocksPdb()

	var out bytes.Buffer
	err := Translate(&policy.Package{Policy: pdb}, &out, Options{Warn: discardWarnings})
	assert.NoError(t, err)

	cil := out.String()
	assert.True(t, balancedParens(cil), cil)
	assert.Contains(t, cil, "(optional base_optional_2\n")
	assert.Contains(t, cil, "    (allow a b (file (read)))\n")

	// the sibling optional requires only type b, not type a which the first
	// optional requires, so the first one is closed before the second opens
	closeBeforeSibling := strings.Index(cil, "(optional base_optional_3")
	assert.True(t, strings.Contains(cil[:closeBeforeSibling], "(optional base_optional_2"))
	assert.Contains(t, cil, ")\n(optional base_optional_3\n")
	assert.True(t, strings.HasSuffix(cil, ")\n"), cil)
}

// TestBlocksNestedOptionals is a function.
func TestBlocksNestedOptionals(t *testing.T) {
	pdb := blocksPdb()

	// make the sibling a superset of the inner optional so it nests
	pdb.Blocks[2].Decls[0].Required.Scope[policy.SymTypes] = policy.NewBitmap(0, 1)

	var out bytes.Buffer
	err := Translate(&policy.Package{Policy: pdb}, &out, Options{Warn: discardWarnings})
	assert.NoError(t, err)

	cil := out.String()
	assert.True(t, balancedParens(cil), cil)
	assert.Contains(t, cil, "    (optional base_optional_3\n")
	assert.True(t, strings.HasSuffix(cil, "    )\n)\n"), cil)
}

// TestBlocksElseBranchWarns is a function.
func TestBlocksElseBranchWarns(t *testing.T) {
	pdb := blocksPdb()
	pdb.Blocks[1].Decls = append(pdb.Blocks[1].Decls, &policy.AvruleDecl{DeclID: 9})

	var warnings []string
	var out bytes.Buffer
	err := Translate(&policy.Package{Policy: pdb}, &out, Options{
		Warn: func(format string, args ...interface{}) {
			warnings = append(warnings, format)
		},
	})
	assert.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "else")
}

// TestTranslateIsDeterministic is a function.
func TestTranslateIsDeterministic(t *testing.T) {
	pdb := blocksPdb()

	// force attribute synthesis so the counter is exercised
	pdb.Blocks[1].Decls[0].AvRules[0].TgtTypes.NegSet = policy.NewBitmap(0)

	var first bytes.Buffer
	var second bytes.Buffer
	assert.NoError(t, Translate(&policy.Package{Policy: pdb}, &first, Options{Warn: discardWarnings}))
	assert.NoError(t, Translate(&policy.Package{Policy: pdb}, &second, Options{Warn: discardWarnings}))

	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "base_typeattr_1")
}

// TestTranslateWriteFailure is a function.
func TestTranslateWriteFailure(t *testing.T) {
	pdb := testPdb()

	err := Translate(&policy.Package{Policy: pdb}, failingWriter{}, Options{Warn: discardWarnings})
	assert.Error(t, err)
}

// TestTranslateTextSections is a function.
func TestTranslateTextSections(t *testing.T) {
	pdb := testPdb()
	pkg := &policy.Package{
		Policy:       pdb,
		FileContexts: []byte("/bin/sh -- system_u:object_r:bin_t:s0\n"),
		SeUsers:      []byte("__default__:user_u:s0\n"),
		UserExtra:    []byte("user root prefix sysadm;\n"),
	}

	var out bytes.Buffer
	err := Translate(pkg, &out, Options{Warn: discardWarnings})
	assert.NoError(t, err)

	assert.Contains(t, out.String(), "(filecon \"/bin/sh\" \"\" file (system_u object_r bin_t (s0 s0)))\n")
	assert.Contains(t, out.String(), "(selinuxuserdefault user_u (s0 s0))\n")
	assert.Contains(t, out.String(), "(userprefix root sysadm)\n")
}
