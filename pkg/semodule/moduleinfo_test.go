package semodule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidatePriority is a function.
func TestValidatePriority(t *testing.T) {
	type scenario struct {
		priority uint16
		valid    bool
	}

	scenarios := []scenario{
		{0, false},
		{1, true},
		{100, true},
		{999, true},
		{1000, false},
	}

	for _, s := range scenarios {
		err := ValidatePriority(s.priority)
		if s.valid {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}

// TestValidateName is a function.
func TestValidateName(t *testing.T) {
	type scenario struct {
		name  string
		valid bool
	}

	scenarios := []scenario{
		{"_base", true},
		{"mymod", true},
		{"My.mod-2_x", true},
		{"a", true},
		{"", false},
		{"1mod", false},
		{"_other", false},
		{"my..mod", false},
		{"mod.", false},
		{"my mod", false},
	}

	for _, s := range scenarios {
		err := ValidateName(s.name)
		if s.valid {
			assert.NoError(t, err, s.name)
		} else {
			assert.Error(t, err, s.name)
		}
	}
}

// TestValidateVersion is a function.
func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion("1.0.0"))
	assert.NoError(t, ValidateVersion("2"))
	assert.Error(t, ValidateVersion(""))
	assert.Error(t, ValidateVersion("1 0"))
	assert.Error(t, ValidateVersion("1\t0"))
	assert.Error(t, ValidateVersion("v\x7f"))
}

// TestValidateLangExt is a function.
func TestValidateLangExt(t *testing.T) {
	assert.NoError(t, ValidateLangExt("pp"))
	assert.NoError(t, ValidateLangExt("cil"))
	assert.NoError(t, ValidateLangExt("9te"))
	assert.Error(t, ValidateLangExt(""))
	assert.Error(t, ValidateLangExt(".pp"))
	assert.Error(t, ValidateLangExt("p p"))
}

// TestValidateEnabled is a function.
func TestValidateEnabled(t *testing.T) {
	assert.NoError(t, ValidateEnabled(-1))
	assert.NoError(t, ValidateEnabled(0))
	assert.NoError(t, ValidateEnabled(1))
	assert.Error(t, ValidateEnabled(2))
	assert.Error(t, ValidateEnabled(-2))
}

// TestSettersRejectInvalidValues is a function.
func TestSettersRejectInvalidValues(t *testing.T) {
	m := NewModuleInfo()
	assert.Equal(t, -1, m.Enabled)

	assert.Error(t, m.SetPriority(0))
	assert.Zero(t, m.Priority)
	assert.NoError(t, m.SetPriority(400))
	assert.Equal(t, uint16(400), m.Priority)

	assert.Error(t, m.SetName("9bad"))
	assert.NoError(t, m.SetName("mymod"))

	assert.Error(t, m.SetVersion(""))
	assert.NoError(t, m.SetVersion("1.0"))

	assert.Error(t, m.SetLangExt("-pp"))
	assert.NoError(t, m.SetLangExt("pp"))

	assert.Error(t, m.SetEnabled(5))
	assert.NoError(t, m.SetEnabled(1))

	assert.NoError(t, m.Validate())
	assert.Equal(t, ModuleKey{Name: "mymod", Priority: 400}, m.Key())
}

// TestPathComposition is a function.
func TestPathComposition(t *testing.T) {
	m := &ModuleInfo{
		Priority: 100,
		Name:     "mymod",
		Version:  "1.0",
		LangExt:  "pp",
		Enabled:  1,
	}

	type scenario struct {
		kind     PathType
		expected string
	}

	scenarios := []scenario{
		{PathPriority, "/store/100"},
		{PathName, "/store/100/mymod"},
		{PathHLL, "/store/100/mymod/mymod.pp"},
		{PathCIL, "/store/100/mymod/cil"},
		{PathLangExt, "/store/100/mymod/lang_ext"},
		{PathVersion, "/store/100/mymod/version"},
		{PathDisabled, "/store/disabled/mymod"},
	}

	for _, s := range scenarios {
		path, err := m.Path("/store", s.kind)
		assert.NoError(t, err)
		assert.Equal(t, s.expected, path)
	}
}

// TestPathZeroPadsPriority is a function.
func TestPathZeroPadsPriority(t *testing.T) {
	m := &ModuleInfo{Priority: 7, Name: "mymod"}

	path, err := m.Path("/store", PathPriority)
	assert.NoError(t, err)
	assert.Equal(t, "/store/007", path)
}

// TestPathValidates is a function.
func TestPathValidates(t *testing.T) {
	m := &ModuleInfo{Priority: 0, Name: "mymod", LangExt: "pp"}

	_, err := m.Path("/store", PathPriority)
	assert.Error(t, err)

	_, err = m.Path("/store", PathHLL)
	assert.Error(t, err)

	// the disabled path only needs the name
	path, err := m.Path("/store", PathDisabled)
	assert.NoError(t, err)
	assert.Equal(t, "/store/disabled/mymod", path)

	m.Name = "9bad"
	_, err = m.Path("/store", PathDisabled)
	assert.Error(t, err)

	_, err = m.Path("/store", PathType(99))
	assert.Error(t, err)
}
