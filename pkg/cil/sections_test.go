package cil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFileContexts is a function.
func TestFileContexts(t *testing.T) {
	type scenario struct {
		line     string
		expected string
	}

	scenarios := []scenario{
		{
			"/bin/sh -- system_u:object_r:bin_t:s0",
			"(filecon \"/bin/sh\" \"\" file (system_u object_r bin_t (s0 s0)))\n",
		},
		{
			"/bin system_u:object_r:bin_t:s0",
			"(filecon \"/bin\" \"\" any (system_u object_r bin_t (s0 s0)))\n",
		},
		{
			"/dev/null -c system_u:object_r:null_device_t:s0-s0:c0.c2",
			"(filecon \"/dev/null\" \"\" char (system_u object_r null_device_t (s0 (s0 ((range c0 c2))))))\n",
		},
		{
			"/tmp/.* -d <<none>>",
			"(filecon \"/tmp/.*\" \"\" dir ())\n",
		},
		{
			"/a -b system_u:object_r:t:s0",
			"(filecon \"/a\" \"\" block (system_u object_r t (s0 s0)))\n",
		},
		{
			"/a -s system_u:object_r:t:s0",
			"(filecon \"/a\" \"\" socket (system_u object_r t (s0 s0)))\n",
		},
		{
			"/a -p system_u:object_r:t:s0",
			"(filecon \"/a\" \"\" pipe (system_u object_r t (s0 s0)))\n",
		},
		{
			"/a -l system_u:object_r:t:s0",
			"(filecon \"/a\" \"\" symlink (system_u object_r t (s0 s0)))\n",
		},
		{
			"/a system_u:object_r:t",
			"(filecon \"/a\" \"\" any (system_u object_r t (systemlow systemlow)))\n",
		},
		{
			"# a comment\n\n/bin/sh -- system_u:object_r:bin_t:s0",
			"(filecon \"/bin/sh\" \"\" file (system_u object_r bin_t (s0 s0)))\n",
		},
	}

	for _, s := range scenarios {
		tr, out, _ := testTranslator(testPdb())
		tr.pkg.FileContexts = []byte(s.line + "\n")
		err := tr.fileContextsToCIL()
		assert.NoError(t, err)
		assert.Equal(t, s.expected, out.String())
	}
}

// TestFileContextsMalformed is a function.
func TestFileContextsMalformed(t *testing.T) {
	scenarios := []string{
		"/bin/sh\n",
		"/bin/sh -x system_u:object_r:bin_t:s0 extra\n",
		"/bin/sh -x system_u:object_r:bin_t\n",
	}

	for _, s := range scenarios {
		tr, _, _ := testTranslator(testPdb())
		tr.pkg.FileContexts = []byte(s)
		assert.Error(t, tr.fileContextsToCIL())
	}
}

// TestSeusers is a function.
func TestSeusers(t *testing.T) {
	type scenario struct {
		line     string
		expected string
	}

	scenarios := []scenario{
		{
			"__default__:user_u:s0",
			"(selinuxuserdefault user_u (s0 s0))\n",
		},
		{
			"root:staff_u:s0-s0:c0.c1",
			"(selinuxuser root staff_u (s0 (s0 ((range c0 c1)))))\n",
		},
		{
			"root:staff_u",
			"(selinuxuser root staff_u (systemlow systemlow))\n",
		},
		{
			"  # comment\n\nroot:staff_u:s0",
			"(selinuxuser root staff_u (s0 s0))\n",
		},
	}

	for _, s := range scenarios {
		tr, out, _ := testTranslator(testPdb())
		tr.pkg.SeUsers = []byte(s.line + "\n")
		err := tr.seusersToCIL()
		assert.NoError(t, err)
		assert.Equal(t, s.expected, out.String())
	}
}

// TestSeusersMalformed is a function.
func TestSeusersMalformed(t *testing.T) {
	tr, _, _ := testTranslator(testPdb())
	tr.pkg.SeUsers = []byte("rootonly\n")
	assert.Error(t, tr.seusersToCIL())
}

// TestUserExtra is a function.
func TestUserExtra(t *testing.T) {
	tr, out, _ := testTranslator(testPdb())
	tr.pkg.UserExtra = []byte("user root prefix sysadm;\nuser staff_u prefix staff;\n")

	err := tr.userExtraToCIL()
	assert.NoError(t, err)
	assert.Equal(t, "(userprefix root sysadm)\n(userprefix staff_u staff)\n", out.String())
}

// TestUserExtraMalformed is a function.
func TestUserExtraMalformed(t *testing.T) {
	scenarios := []string{
		"user root sysadm;\n",
		"root prefix sysadm;\n",
		"user root prefix sysadm\n",
	}

	for _, s := range scenarios {
		tr, _, _ := testTranslator(testPdb())
		tr.pkg.UserExtra = []byte(s)
		assert.Error(t, tr.userExtraToCIL())
	}
}

// TestNetfilterWarns is a function.
func TestNetfilterWarns(t *testing.T) {
	tr, out, warnings := testTranslator(testPdb())
	tr.pkg.NetfilterContexts = []byte("something\n")

	err := tr.netfilterToCIL()
	assert.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Len(t, *warnings, 1)

	tr2, _, warnings2 := testTranslator(testPdb())
	assert.NoError(t, tr2.netfilterToCIL())
	assert.Empty(t, *warnings2)
}

// TestLevelRangeString is a function.
func TestLevelRangeString(t *testing.T) {
	type scenario struct {
		rangestr string
		expected string
	}

	scenarios := []scenario{
		{"s0", "s0 s0"},
		{"s0-s1", "s0 s1"},
		{"s0:c0-s1:c0,c3.c5", "(s0 (c0)) (s1 (c0 (range c3 c5)))"},
	}

	for _, s := range scenarios {
		tr, out, _ := testTranslator(testPdb())
		err := tr.levelRangeStringToCIL(s.rangestr)
		assert.NoError(t, err)
		assert.Equal(t, s.expected, out.String())
	}
}
