package id

import "testing"

func TestParsePot(t *testing.T) {
	asset, err := ParsePot("100.0000 EOS")
	if err != nil {
		t.Fatalf("ParsePot failed: %v", err)
	}
	if asset.Amount != "100.0000" || asset.Symbol != "EOS" {
		t.Fatalf("unexpected asset: %+v", asset)
	}
	if asset.String() != "100.0000 EOS" {
		t.Fatalf("unexpected string form: %s", asset.String())
	}
}

func TestParsePotRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"100 EOS",
		"100.00 EOS",
		"100.00000 EOS",
		"100.0000",
		"100.0000EOS",
		"100.0000 eos",
		".0000 EOS",
		"",
	} {
		if _, err := ParsePot(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
