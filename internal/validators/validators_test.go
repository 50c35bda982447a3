package validators

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+54 9 11 5555-1234", "5491155551234"},
		{"(11) 98888-7777", "11988887777"},
		{"", ""},
		{"abc", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePhone(c.in), c.in)
	}
}

func TestIsPhoneValid(t *testing.T) {
	assert.True(t, IsPhoneValid("+54 9 11 5555-1234"))
	assert.False(t, IsPhoneValid("1234"))
	assert.False(t, IsPhoneValid("1234567890123456"))
}

func TestIsClock(t *testing.T) {
	assert.True(t, IsClock("09:00"))
	assert.True(t, IsClock("23:59"))
	assert.False(t, IsClock("9:00"))
	assert.False(t, IsClock("24:00"))
	assert.False(t, IsClock("12:60"))
	assert.True(t, ClockBefore("09:00", "18:30"))
	assert.False(t, ClockBefore("18:30", "18:30"))
}

func TestIsEmailDomainValid(t *testing.T) {
	origMX, origIP := lookupMX, lookupIP
	t.Cleanup(func() { lookupMX, lookupIP = origMX, origIP })

	lookupMX = func(domain string) ([]*net.MX, error) {
		if domain == "barberia.com" {
			return []*net.MX{{Host: "mx.barberia.com."}}, nil
		}
		return nil, errors.New("no mx")
	}
	lookupIP = func(domain string) ([]net.IP, error) {
		if domain == "only-a.com" {
			return []net.IP{net.ParseIP("10.0.0.1")}, nil
		}
		return nil, errors.New("no host")
	}

	assert.True(t, IsEmailDomainValid("dueno@barberia.com"))
	assert.True(t, IsEmailDomainValid("dueno@only-a.com"))
	assert.False(t, IsEmailDomainValid("dueno@nowhere.invalid"))
	assert.False(t, IsEmailDomainValid("dueno@"))
	assert.False(t, IsEmailDomainValid("sin-arroba"))
}
