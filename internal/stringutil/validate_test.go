package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"apiteam@swagger.io",
		"oasconnect@users.noreply.github.com",
		"first.last+pets@my-domain.example.com",
	}
	invalid := []string{
		"",
		"apiteam",
		"apiteam@",
		"@swagger.io",
		"apiteam@swagger",
		"apiteam@swagger.i",
		"api team@swagger.io",
		"mailto:apiteam@swagger.io",
	}
	for _, s := range valid {
		assert.True(t, IsValidEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), s)
	}
}
