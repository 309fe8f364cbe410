package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthDate_Valid(t *testing.T) {
	d, err := ParseBirthDate("05.04.1998")
	require.NoError(t, err)

	assert.Equal(t, 5, d.Day())
	assert.Equal(t, time.April, d.Month())
	assert.Equal(t, 1998, d.Year())
}

func TestParseBirthDate_Invalid(t *testing.T) {
	cases := []string{
		"5.4.1998",    // unpadded
		"05/04/1998",  // wrong separator
		"1998.04.05",  // wrong order
		"32.01.2000",  // no such day
		"05.13.2000",  // no such month
		"tomorrow",
		"",
	}
	for _, tok := range cases {
		_, err := ParseBirthDate(tok)
		assert.Error(t, err, tok)
	}
}

func TestBirthday_IsOn(t *testing.T) {
	b := &Birthday{Date: time.Date(1998, time.April, 5, 0, 0, 0, 0, time.UTC)}

	assert.True(t, b.IsOn(time.April, 5))
	assert.False(t, b.IsOn(time.April, 6))
	assert.False(t, b.IsOn(time.May, 5))
}
