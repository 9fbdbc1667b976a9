// Package refid builds the external correlation identifiers carried by ledger
// transactions. Identifiers never depend on shared mutable state, so
// concurrent callers cannot serialize on generation; the unique index on
// transactions.reference_id stays the final authority against collisions.
package refid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Bet returns the reference for a bet transaction. Bet ids are allocated by
// the database inside the same atomic unit, so the reference is unique by
// construction.
func Bet(betID int64) string {
	return fmt.Sprintf("BET%d", betID)
}

// Deposit returns a fresh deposit reference: DEP + unix seconds + a
// crypto-sourced suffix. The timestamp keeps references roughly sortable; the
// suffix makes same-instant collisions negligible.
func Deposit() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to fall back to.
		panic(fmt.Sprintf("refid: rand.Read: %v", err))
	}
	return fmt.Sprintf("DEP%d%s", time.Now().Unix(), hex.EncodeToString(b[:]))
}

// Digits returns n crypto-sourced decimal digits, used by gateway adapters
// for virtual-account numbers and one-time payment codes.
func Digits(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("refid: rand.Read: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out)
}
