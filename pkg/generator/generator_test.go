package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet_Order(t *testing.T) {
	t.Parallel()

	p := Policy{Uppercase: true, Lowercase: true, Digits: true, Symbols: true}
	assert.Equal(t, uppercase+lowercase+digits+symbols, Alphabet(p))

	p = Policy{Digits: true, Symbols: true}
	assert.Equal(t, digits+symbols, Alphabet(p))
}

func TestAlphabet_ExcludeSimilar(t *testing.T) {
	t.Parallel()

	p := Policy{Uppercase: true, Lowercase: true, Digits: true, ExcludeSimilar: true}
	chars := Alphabet(p)
	for _, r := range similar {
		assert.NotContains(t, chars, string(r))
	}
	// 26+26+10 minus i, l, 1, L, o, 0, O
	assert.Len(t, chars, 62-7)
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	policies := []Policy{
		{Length: MinLength, Lowercase: true},
		{Length: 12, Uppercase: true, Digits: true},
		{Length: 32, Symbols: true},
		{Length: MaxLength, Uppercase: true, Lowercase: true, Digits: true, Symbols: true, ExcludeSimilar: true},
		{Length: 20, Digits: true, ExcludeSimilar: true},
	}

	for _, p := range policies {
		chars := Alphabet(p)
		for i := 0; i < 20; i++ {
			pw, err := Generate(p)
			require.NoError(t, err)
			require.Len(t, pw, p.Length)
			for _, r := range pw {
				require.Truef(t, strings.ContainsRune(chars, r), "unexpected %q for %+v", r, p)
			}
		}
	}
}

func TestGenerate_InvalidPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
	}{
		{"no classes", Policy{Length: 16}},
		{"no classes exclude similar", Policy{Length: 16, ExcludeSimilar: true}},
		{"zero length", Policy{Length: 0, Lowercase: true}},
		{"negative length", Policy{Length: -3, Lowercase: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pw, err := Generate(tt.policy)
			require.ErrorIs(t, err, ErrInvalidPolicy)
			assert.Empty(t, pw)
		})
	}
}

func TestGenerate_DigitsOnlyExcludeSimilar(t *testing.T) {
	t.Parallel()

	pw, err := Generate(Policy{Length: 50, Digits: true, ExcludeSimilar: true})
	require.NoError(t, err)
	assert.NotContains(t, pw, "0")
	assert.NotContains(t, pw, "1")
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Policy{Length: MinLength}.Validate())
	assert.NoError(t, Policy{Length: MaxLength}.Validate())
	assert.ErrorIs(t, Policy{Length: MinLength - 1}.Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, Policy{Length: MaxLength + 1}.Validate(), ErrInvalidPolicy)
}

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	require.NoError(t, p.Validate())
	pw, err := Generate(p)
	require.NoError(t, err)
	assert.Len(t, pw, 16)
}
