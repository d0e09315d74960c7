package password

import (
	"strings"
	"testing"

	"sns-system/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, Verify("s3cret-pass", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestConfigure_Cost(t *testing.T) {
	defer Configure(config.PasswordConfig{})

	Configure(config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	got, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, got)

	// 成本变化后旧哈希仍可校验
	Configure(config.PasswordConfig{BcryptCost: 99})
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.True(t, Verify("s3cret-pass", hash))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attrs    []string
		want     string
	}{
		{"too short", "aB3$x", nil, "too short"},
		{"numeric", "4829105736", nil, "entirely numeric"},
		{"common", "Password123", nil, "too common"},
		{"similar to username", "yamadataro1", []string{"yamadataro"}, "too similar"},
		{"similar to email local part", "hanako2024", []string{"hanako2024@example.com"}, "too similar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(tt.password, tt.attrs...)
			require.NotEmpty(t, problems)
			assert.Contains(t, strings.Join(problems, "\n"), tt.want)
		})
	}
}

func TestValidate_StrongPassword(t *testing.T) {
	assert.Empty(t, Validate("Correct-Horse-Battery", "yamada", "yamada@example.com"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("abc", "abc"), 0.0001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 0.0001)
	assert.InDelta(t, 0.75, similarity("abcd", "abxd"), 0.0001)
}
