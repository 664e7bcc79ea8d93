package ipaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_IPv4(t *testing.T) {
	valid := []string{
		"0.0.0.0",
		"8.8.8.8",
		"127.0.0.1",
		"192.168.1.100",
		"255.255.255.255",
		"1.22.133.244",
		"  8.8.4.4  ", // surrounding whitespace is trimmed
	}
	for _, ip := range valid {
		assert.True(t, IsValid(ip), "expected valid: %q", ip)
	}

	invalid := []string{
		"",
		"   ",
		"256.0.0.1",
		"1.2.3.300",
		"1.2.3",
		"1.2.3.4.5",
		"1.2.3.",
		".1.2.3.4",
		"1..2.3",
		"a.b.c.d",
		"8.8.8.8/24",
		"not an ip",
	}
	for _, ip := range invalid {
		assert.False(t, IsValid(ip), "expected invalid: %q", ip)
	}
}

func TestIsValid_IPv6(t *testing.T) {
	valid := []string{
		"2001:0db8:85a3:0000:0000:8a2e:0370:7334", // full 8-group form
		"2001:db8:85a3:0:0:8a2e:370:7334",
		"1:2:3:4:5:6:7:8",
		"1::",                // groups before ::
		"1:2:3:4:5:6:7::",    // seven groups then ::
		"1::8",               // split compression
		"1:2:3:4:5:6::8",
		"1::7:8",
		"1:2:3:4:5::7:8",
		"1::6:7:8",
		"1:2:3:4::6:7:8",
		"1::5:6:7:8",
		"1:2:3::5:6:7:8",
		"1::4:5:6:7:8",
		"1:2::4:5:6:7:8",
		"1::3:4:5:6:7:8",
		"::2:3:4:5:6:7:8", // :: then groups
		"::8",
		"::", // :: alone
		"fe80::1",
		"FE80::ABCD:1234",
	}
	for _, ip := range valid {
		assert.True(t, IsValid(ip), "expected valid: %q", ip)
	}

	invalid := []string{
		"1::2::3", // two compression runs
		"::1::",
		"1:2:3:4:5:6:7:8:9", // too many groups
		"1:2:3:4:5:6:7",     // too few groups, no ::
		"12345::1",          // group too wide
		"g::1",              // non-hex digit
		"1:2",
		":",
	}
	for _, ip := range invalid {
		assert.False(t, IsValid(ip), "expected invalid: %q", ip)
	}
}
