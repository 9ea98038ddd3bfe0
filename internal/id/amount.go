package id

import (
	"fmt"
	"regexp"
	"strings"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// PotPattern is the asset format accepted by the rewards action, e.g.
// "100.0000 EOS".
const PotPattern = `^[0-9]+\.[0-9]{4} [A-Z]{1,7}$`

var potRe = regexp.MustCompile(PotPattern)

// Asset is a monetary amount with four fractional digits and a symbol.
type Asset struct {
	Amount string
	Symbol string
}

func (a Asset) String() string {
	return a.Amount + " " + a.Symbol
}

func ValidPot(s string) bool {
	return potRe.MatchString(s)
}

func ParsePot(s string) (Asset, error) {
	if !ValidPot(s) {
		return Asset{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("invalid pot %q: expected an amount like 100.0000 EOS", s))
	}
	amount, symbol, _ := strings.Cut(s, " ")
	return Asset{Amount: amount, Symbol: symbol}, nil
}
