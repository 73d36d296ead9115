package challenge

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]+$`)

func TestGenerate(t *testing.T) {
	pair, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if len(pair.Secret) != SecretLen {
		t.Fatalf("secret length = %d, want %d", len(pair.Secret), SecretLen)
	}
	if len(pair.Hash) != HashLen {
		t.Fatalf("hash length = %d, want %d", len(pair.Hash), HashLen)
	}
	if !hexRe.MatchString(pair.Secret) || !hexRe.MatchString(pair.Hash) {
		t.Fatal("secret and hash must be lowercase hex")
	}
	if pair.Hash != Hash(pair.Secret) {
		t.Fatal("hash does not match digest of secret")
	}
}

func TestGenerateUnique(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if a.Secret == b.Secret {
		t.Fatal("two generated secrets should differ")
	}
}

func TestVerify(t *testing.T) {
	pair, err := Generate()
	if err != nil {
		t.Fatal(err)
	}

	if !Verify(pair.Secret, pair.Hash) {
		t.Fatal("correct secret should verify")
	}
	if Verify("not the secret", pair.Hash) {
		t.Fatal("wrong secret should not verify")
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	pair, err := Generate()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		guess  string
		stored string
	}{
		{"empty guess", "", pair.Hash},
		{"empty hash", pair.Secret, ""},
		{"both empty", "", ""},
		{"truncated hash", pair.Secret, pair.Hash[:HashLen-1]},
		{"guess is the hash", pair.Hash, pair.Hash},
	}
	for _, tc := range cases {
		if Verify(tc.guess, tc.stored) {
			t.Fatalf("%s: expected not verified", tc.name)
		}
	}
}
