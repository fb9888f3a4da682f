package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	v := Required()
	assert.Error(t, v(""))
	assert.Error(t, v("   "))
	assert.NoError(t, v("x"))
}

func TestLength(t *testing.T) {
	v := Length(6)
	assert.NoError(t, v("ABC234"))
	assert.Error(t, v("ABC23"))
	assert.Error(t, v("ABC2345"))
}

func TestFromCharset(t *testing.T) {
	v := FromCharset("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	assert.NoError(t, v("ABC234"))
	assert.Error(t, v("ABC10O"), "ambiguous characters are outside the set")
	assert.Error(t, v("abc234"), "lowercase is outside the set")
	assert.NoError(t, v(""), "empty is left to Required")
}

func TestDate(t *testing.T) {
	v := Date()
	assert.NoError(t, v("2026-08-31"))
	assert.Error(t, v("2026-8-31"))
	assert.Error(t, v("2026-02-30"))
	assert.Error(t, v("tomorrow"))
}

func TestNoSpaces(t *testing.T) {
	v := NoSpaces()
	assert.NoError(t, v("101A"))
	assert.Error(t, v("10 1"))
}

func TestFieldPrefixesName(t *testing.T) {
	v := Field("code", Required(), Length(6))

	err := v("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code")

	err = v("ABC")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code")

	assert.NoError(t, v("ABC234"))
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(Length(3), NoSpaces())

	err := v("a b")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "3 characters", "length check runs first")

	assert.Error(t, v("abcd"))
	assert.NoError(t, v("abc"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("status", "notes")
	assert.NoError(t, v("status"))
	assert.NoError(t, v("notes"))
	assert.Error(t, v("assigned_to"))
}
