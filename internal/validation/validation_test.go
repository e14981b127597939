package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Client@Example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail("a b@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secret123"))
	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllower123"))
	assert.Error(t, ValidatePassword("ALLUPPER123"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
	assert.Error(t, ValidatePassword("Aa1"+strings.Repeat("x", 80)))
}

func TestValidateExternalLink(t *testing.T) {
	assert.NoError(t, ValidateExternalLink("https://github.com/someone"))
	assert.Error(t, ValidateExternalLink("ftp://example.com"))
	assert.Error(t, ValidateExternalLink("https://"))
	assert.Error(t, ValidateExternalLink(""))
}

func TestValidateHourlyRate(t *testing.T) {
	neg, ok, huge := -1.0, 50.0, MaxHourlyRate+1
	assert.NoError(t, ValidateHourlyRate(nil))
	assert.NoError(t, ValidateHourlyRate(&ok))
	assert.Error(t, ValidateHourlyRate(&neg))
	assert.Error(t, ValidateHourlyRate(&huge))
}

func TestValidateLength_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateLength("имя", "Юля", 2, 3))
	assert.Error(t, ValidateLength("имя", "Юлия", 2, 3))
}
