package refid

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetReference(t *testing.T) {
	require.Equal(t, "BET42", Bet(42))
	require.Equal(t, "BET1", Bet(1))
}

func TestDepositReferenceShape(t *testing.T) {
	ref := Deposit()
	require.True(t, strings.HasPrefix(ref, "DEP"), "got %q", ref)
	// DEP + 10-digit unix seconds + 12 hex chars
	require.Len(t, ref, 3+10+12)
}

func TestDepositReferencesDistinctUnderConcurrency(t *testing.T) {
	const n = 10000

	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i] = Deposit()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, r := range refs {
		_, dup := seen[r]
		require.False(t, dup, "duplicate reference %q", r)
		seen[r] = struct{}{}
	}
	require.Len(t, seen, n)
}

func TestDigits(t *testing.T) {
	for _, n := range []int{6, 7, 10} {
		s := Digits(n)
		assert.Len(t, s, n)
		for _, c := range s {
			assert.True(t, c >= '0' && c <= '9', "non-digit %q in %q", c, s)
		}
	}
	// two draws should not match for any realistic n
	assert.NotEqual(t, Digits(10), Digits(10))
}
