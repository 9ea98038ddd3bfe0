package id

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// CanonicalID is the ledger key derived from a human identifier: the
// lowercase hex SHA-256 of its UTF-8 bytes.
type CanonicalID string

func (c CanonicalID) String() string { return string(c) }

// Normalize maps a member name or post identifier to its CanonicalID.
// The empty string is hashed like any other token.
func Normalize(token string) CanonicalID {
	sum := sha256.Sum256([]byte(token))
	return CanonicalID(hex.EncodeToString(sum[:]))
}

// CanonicalIDPattern matches any value produced by Normalize.
const CanonicalIDPattern = `^[0-9a-f]{64}$`

// AccountName is a native ledger account. It is validated, never hashed.
type AccountName string

// AccountNamePattern is the native account grammar: up to twelve characters
// from [.1-5a-z], optionally followed by a thirteenth in [a-p].
const AccountNamePattern = `^[.1-5a-z]{1,12}[a-p]?$`

var (
	canonicalIDRe = regexp.MustCompile(CanonicalIDPattern)
	accountNameRe = regexp.MustCompile(AccountNamePattern)
	indexRe       = regexp.MustCompile(`^[0-9]+$`)
)

func ValidCanonicalID(s string) bool {
	return canonicalIDRe.MatchString(s)
}

func ValidAccountName(s string) bool {
	return accountNameRe.MatchString(s)
}

func ParseAccountName(s string) (AccountName, error) {
	if !ValidAccountName(s) {
		return "", clierr.New(clierr.CodeUsage, fmt.Sprintf("invalid account name %q: expected 1-12 characters from [.1-5a-z] with an optional [a-p] suffix", s))
	}
	return AccountName(s), nil
}

// ParseIndex parses a digits-only record index such as a praise id.
func ParseIndex(s string) (uint64, error) {
	if !indexRe.MatchString(s) {
		return 0, clierr.New(clierr.CodeUsage, fmt.Sprintf("invalid index %q: expected digits only", s))
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("invalid index %q", s), err)
	}
	return n, nil
}
