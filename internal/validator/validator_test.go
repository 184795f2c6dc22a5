package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	var v Validator
	assert.False(t, v.HasErrors())

	v.Check(true, "never")
	v.CheckField(true, "lat", "never")
	assert.False(t, v.HasErrors())

	v.Check(false, "body is wrong")
	v.CheckField(false, "lat", "must be between -90 and 90")
	v.CheckField(false, "lat", "second message is dropped")

	assert.True(t, v.HasErrors())
	assert.Equal(t, []string{"body is wrong"}, v.Errors)
	assert.Equal(t, map[string]string{"lat": "must be between -90 and 90"}, v.FieldErrors)
}

func TestHelpers(t *testing.T) {
	assert.True(t, NotBlank(" x "))
	assert.False(t, NotBlank(" \t"))

	assert.True(t, MaxRunes("héllo", 5))
	assert.False(t, MaxRunes("héllo!", 5))

	assert.True(t, Between(90.0, -90, 90))
	assert.False(t, Between(90.5, -90, 90))
	assert.True(t, Between(3, 1, 5))

	assert.True(t, Finite(1.5))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))

	assert.True(t, IsDate("2024-02-29", "2006-01-02"))
	assert.False(t, IsDate("2023-02-29", "2006-01-02"))
	assert.False(t, IsDate("2024-3-1", "2006-01-02"))
}
