package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixCode(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "ISMS.1.M1", expected: "ISMS.1.M1"},
		{in: "ISMS.1.M1 (C)", expected: "ISMS.1.M1"},
		{in: "  NET.1.1\tsomething", expected: "NET.1.1"},
		{in: "", expected: ""},
		{in: "   ", expected: ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, FixCode(test.in), test.in)
	}
}

func TestCutAtTab(t *testing.T) {
	require.Equal(t, "Asd", CutAtTab("Asd\tHello"))
	require.Equal(t, "Asd", CutAtTab("Asd\tHello\tWorld"))
	require.Equal(t, "Asd", CutAtTab("Asd"))
	require.Equal(t, "", CutAtTab("\t\t"))
}

func TestAddColonAfterCode(t *testing.T) {
	require.Equal(t, "Hello: World", AddColonAfterCode("Hello World"))
	require.Equal(t, "ISMS.1: Turbe haldus", AddColonAfterCode("ISMS.1 Turbe haldus"))
	require.Equal(t, "Hello", AddColonAfterCode("Hello"))
	require.Equal(t, "", AddColonAfterCode(""))
}

func TestFixTitle(t *testing.T) {
	cases := []struct {
		title         string
		code          string
		securityCodes []string
		expected      string
	}{
		{
			title:         "ISMS.1.M1 Turbe eest vastutamine (C-I-A) [Juhtkond]",
			code:          "ISMS.1.M1",
			securityCodes: []string{"C", "I", "A"},
			expected:      "ISMS.1.M1: Turbe eest vastutamine",
		},
		{
			title:    "ISMS.1.M1: Turbe eest vastutamine",
			code:     "ISMS.1.M1",
			expected: "ISMS.1.M1: Turbe eest vastutamine",
		},
		{
			title:    "ORP.1 Korraldus",
			code:     "ORP.1",
			expected: "ORP.1: Korraldus",
		},
		{
			// security code in the title does not match the measure's codes
			title:         "NET.1.1.M3 Võrgu segmentimine (C)",
			code:          "NET.1.1.M3",
			securityCodes: []string{"A"},
			expected:      "NET.1.1.M3: Võrgu segmentimine (C)",
		},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, FixTitle(test.title, test.code, test.securityCodes), test.title)
	}
}

func TestGroupName(t *testing.T) {
	require.Equal(t, "Põhimeede", GroupName("3.2"))
	require.Equal(t, "Standardmeede", GroupName("3.3"))
	require.Equal(t, "Kõrgmeede", GroupName("3.4"))
	require.Equal(t, "", GroupName(" 3.2 "))
	require.Equal(t, "", GroupName(""))
}

func TestPatterns(t *testing.T) {
	require.True(t, ModuleCodePattern.MatchString("ISMS.1"))
	require.True(t, ModuleCodePattern.MatchString("NET.1.1"))
	require.False(t, ModuleCodePattern.MatchString("ISMS.1.M1"))
	require.True(t, MeasureCodePattern.MatchString("ISMS.1.M1"))
	require.True(t, MeasureCodePattern.MatchString("SYS.1.1.M10"))
	require.False(t, MeasureCodePattern.MatchString("M1"))
	require.True(t, ModuleTitlePattern.MatchString("ISMS.1: Turbe haldus"))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "helloworld", NormalizeName("  Hello \n World "))
}
