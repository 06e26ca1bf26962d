package integral

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/spn"
)

func mustHex(t *testing.T, s string) oracle.Block128 {
	t.Helper()
	b, err := oracle.ParseHex(s)
	if err != nil {
		t.Fatalf("ParseHex(%s): %v", s, err)
	}
	return b
}

func TestPlaintextSet(t *testing.T) {
	base := mustHex(t, "0123456789abcdef0123456789abcdef")
	set, err := PlaintextSet(base, 5)
	if err != nil {
		t.Fatalf("PlaintextSet: %v", err)
	}
	if len(set) != SetSize {
		t.Fatalf("got %d plaintexts", len(set))
	}
	for i, pt := range set {
		if pt[5] != byte(i) {
			t.Fatalf("plaintext %d has byte %02x", i, pt[5])
		}
		pt[5] = base[5]
		if pt != base {
			t.Fatalf("plaintext %d differs outside byte 5", i)
		}
	}

	for _, idx := range []int{-1, 16} {
		if _, err := PlaintextSet(base, idx); errors.Cause(err) != spn.ErrMalformedInput {
			t.Errorf("index %d: expected ErrMalformedInput, got %v", idx, err)
		}
	}
}

func TestXORSum(t *testing.T) {
	a := mustHex(t, "ff00ff00ff00ff00ff00ff00ff00ff00")
	b := mustHex(t, "0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f")
	if got := XORSum([]oracle.Block128{a, b}); got.String() != "f00ff00ff00ff00ff00ff00ff00ff00f" {
		t.Fatalf("XORSum = %s", got)
	}
	if got := XORSum([]oracle.Block128{a}); got != a {
		t.Fatalf("XORSum of one block = %s", got)
	}
	if got := XORSum([]oracle.Block128{a, a}); !got.IsZero() {
		t.Fatalf("XORSum(a, a) = %s", got)
	}
	if got := XORSum(nil); !got.IsZero() {
		t.Fatalf("XORSum(nil) = %s", got)
	}
}

func TestDistinguishAES(t *testing.T) {
	base := mustHex(t, "0123456789abcdef0123456789abcdef")
	key := mustHex(t, "00112233445566778899aabbccddeeff")

	for _, rounds := range []int{1, 2, 3} {
		a, err := oracle.NewAES(key, rounds)
		if err != nil {
			t.Fatalf("NewAES: %v", err)
		}
		res, err := Distinguish(a, base, 0)
		if err != nil {
			t.Fatalf("Distinguish: %v", err)
		}
		if !res.Balanced {
			t.Errorf("%d-round AES sum = %s, want zero", rounds, res.Sum)
		}
		if res.Queries != SetSize {
			t.Errorf("queries = %d", res.Queries)
		}
	}

	a, _ := oracle.NewAES(key, 4)
	res, err := Distinguish(a, base, 0)
	if err != nil {
		t.Fatalf("Distinguish: %v", err)
	}
	if res.Balanced || res.Sum.String() != "4c1dded67bdef18d6c9c39631bf36117" {
		t.Fatalf("4-round AES sum = %s", res.Sum)
	}
}

func TestDistinguishRandom(t *testing.T) {
	base := mustHex(t, "0123456789abcdef0123456789abcdef")
	res, err := Distinguish(oracle.NewRandom(nil), base, 0)
	if err != nil {
		t.Fatalf("Distinguish: %v", err)
	}
	if res.Balanced {
		t.Fatal("random permutation produced a zero XOR sum")
	}
}
