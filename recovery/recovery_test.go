package recovery

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/trail"
)

var (
	experimentKeys = spn.Schedule{0x1111, 0x2222, 0x3333, 0x4444, 0x5555, 0x6656}
	knownKeys      = KnownKeys{0x1111, 0x2222, 0x3333, 0x4444, 0x5555}
)

const inputDiff = spn.Block(0x0020)

type fixture struct {
	cipher *spn.Cipher
	ddt    *spn.DDT
	trail  trail.Trail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := spn.Default()
	ddt := spn.BuildDDT(c.SBox())
	tr := trail.NewSearcher(ddt, c.PBox()).Simulate(inputDiff, spn.Rounds)
	if tr.Final() != inputDiff {
		t.Fatalf("unexpected trail %v", tr)
	}
	return &fixture{cipher: c, ddt: ddt, trail: tr}
}

func (f *fixture) config(plaintexts int) *Config {
	ms := make([]spn.Block, plaintexts)
	for i := range ms {
		ms[i] = spn.Block(i)
	}
	return &Config{
		Cipher:     f.cipher,
		DDT:        f.ddt,
		Oracle:     f.cipher.WithSchedule(experimentKeys),
		Known:      knownKeys,
		Trail:      f.trail,
		HoldOut:    DefaultHoldOut,
		Workers:    4,
		Plaintexts: ms,
	}
}

// rotl4 is a linear oracle that moves every difference one nibble left.
type rotl4 struct{}

func (rotl4) Encrypt(p spn.Block) spn.Block { return p<<4 | p>>12 }

func TestExpectedDifferences(t *testing.T) {
	f := newFixture(t)
	got := ExpectedDifferences(f.ddt, 0x0020)
	want := []spn.Block{0x0010, 0x0020, 0x0090, 0x00A0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	two := ExpectedDifferences(f.ddt, 0x0220)
	if len(two) != len(want)*len(want) {
		t.Fatalf("two active nibbles gave %d differences", len(two))
	}
	for _, d := range two {
		if !spn.MaskOf(0x0220).Matches(d) {
			t.Fatalf("difference %v outside the active nibbles", d)
		}
	}
}

func TestGeneratePairs(t *testing.T) {
	f := newFixture(t)
	o := f.cipher.WithSchedule(experimentKeys)
	pairs, err := GeneratePairs(o, inputDiff, 500, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("GeneratePairs: %v", err)
	}
	if len(pairs) != 500 {
		t.Fatalf("got %d pairs", len(pairs))
	}
	seen := make(map[spn.Block]bool)
	for _, p := range pairs {
		if seen[p.M] {
			t.Fatalf("plaintext %v drawn twice", p.M)
		}
		seen[p.M] = true
		if p.M^p.MPrime != inputDiff {
			t.Fatalf("pair %v/%v has the wrong input difference", p.M, p.MPrime)
		}
		if p.C != o.Encrypt(p.M) || p.CPrime != o.Encrypt(p.MPrime) {
			t.Fatalf("pair %v carries wrong ciphertexts", p.M)
		}
	}

	for _, n := range []int{0, -1, spn.BlockSpace + 1} {
		if _, err := GeneratePairs(o, inputDiff, n, rand.New(rand.NewSource(1))); errors.Cause(err) != spn.ErrMalformedInput {
			t.Errorf("n=%d: expected ErrMalformedInput, got %v", n, err)
		}
	}
	if _, err := GeneratePairs(o, 0, 10, rand.New(rand.NewSource(1))); errors.Cause(err) != spn.ErrMalformedInput {
		t.Errorf("zero difference: expected ErrMalformedInput, got %v", err)
	}
	if all, err := GeneratePairs(o, inputDiff, spn.BlockSpace, rand.New(rand.NewSource(2))); err != nil || len(all) != spn.BlockSpace {
		t.Fatalf("full codebook: %d pairs, %v", len(all), err)
	}
}

func TestEncryptPairsRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	o := f.cipher.WithSchedule(experimentKeys)
	_, err := EncryptPairs(o, inputDiff, []spn.Block{0x0001, 0x0002, 0x0001})
	if errors.Cause(err) != spn.ErrMalformedInput {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}

	cfg := f.config(0)
	cfg.Plaintexts = []spn.Block{0x0002, 0x0004, 0x0002}
	if _, err := Run(context.Background(), cfg); errors.Cause(err) != spn.ErrMalformedInput {
		t.Fatalf("Run: expected ErrMalformedInput, got %v", err)
	}

	// a plaintext may equal another one's partner
	if _, err := EncryptPairs(o, inputDiff, []spn.Block{0x0000, 0x0020}); err != nil {
		t.Fatalf("EncryptPairs: %v", err)
	}
}

func TestFilter(t *testing.T) {
	f := newFixture(t)
	pairs, err := GeneratePairs(f.cipher.WithSchedule(experimentKeys), inputDiff, 4096, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("GeneratePairs: %v", err)
	}
	mask := f.trail.OutputMask()
	filtered := Filter(pairs, mask)
	if len(filtered) == 0 {
		t.Fatal("no pair survived 4096 draws")
	}
	for _, p := range filtered {
		d := p.Diff()
		if d.Nibble(0) != 0 || d.Nibble(1) != 0 || d.Nibble(3) != 0 || d.Nibble(2) == 0 {
			t.Fatalf("pair %v has ciphertext difference %v", p.M, d)
		}
	}
	kept := 0
	for _, p := range pairs {
		if mask.Matches(p.Diff()) {
			kept++
		}
	}
	if kept != len(filtered) {
		t.Fatalf("filter kept %d of %d matching pairs", len(filtered), kept)
	}
}

func TestVoteSequentialPlaintexts(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(512)
	pairs, _ := EncryptPairs(cfg.Oracle, inputDiff, cfg.Plaintexts)
	filtered := Filter(pairs, f.trail.OutputMask())
	if len(filtered) != 96 {
		t.Fatalf("got %d filtered pairs, want 96", len(filtered))
	}
	if filtered[0].M != 0x0002 || filtered[1].M != 0x0004 {
		t.Fatalf("first filtered plaintexts %v %v", filtered[0].M, filtered[1].M)
	}

	expected := ExpectedDifferences(f.ddt, f.trail.Final())
	p1, err := Vote(context.Background(), f.cipher.SBox(), filtered, expected, f.trail.OutputMask(), 1)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if p1.Key != 0x0050 || p1.Votes != 52 || p1.Pairs != 96 {
		t.Fatalf("partial = %v with %d votes from %d pairs", p1.Key, p1.Votes, p1.Pairs)
	}
	if p1.Table[0x1050] != 52 || p1.Table[0xF05F] != 52 {
		t.Fatal("votes depend on inactive nibbles")
	}

	p8, err := Vote(context.Background(), f.cipher.SBox(), filtered, expected, f.trail.OutputMask(), 8)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	for k := range p1.Table {
		if p1.Table[k] != p8.Table[k] {
			t.Fatalf("key %04X: %d votes with 1 worker, %d with 8", k, p1.Table[k], p8.Table[k])
		}
	}
}

func TestVoteEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := Vote(context.Background(), f.cipher.SBox(), nil, []spn.Block{0x0020}, f.trail.OutputMask(), 4)
	if errors.Cause(err) != ErrNoMatchingPairs {
		t.Fatalf("expected ErrNoMatchingPairs, got %v", err)
	}
}

func TestVoteCancelled(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(64)
	pairs, _ := EncryptPairs(cfg.Oracle, inputDiff, cfg.Plaintexts)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Vote(ctx, f.cipher.SBox(), Filter(pairs, f.trail.OutputMask()), []spn.Block{0x0020}, f.trail.OutputMask(), 4)
	if errors.Cause(err) != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCandidateOrder(t *testing.T) {
	free := []int{0, 1, 3}
	for idx, want := range map[int]spn.Block{
		0:     0x0050,
		1:     0x0051,
		0x10:  0x0150,
		0x100: 0x1050,
		0x666: 0x6656,
		0xFFF: 0xFF5F,
	} {
		if got := candidate(0x0050, free, idx); got != want {
			t.Errorf("candidate(%#x) = %v, want %v", idx, got, want)
		}
	}
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(512)
	pairs, _ := EncryptPairs(cfg.Oracle, inputDiff, cfg.Plaintexts)
	filtered := Filter(pairs, f.trail.OutputMask())
	partial := &Partial{Key: 0x0050, Votes: 52, Recovered: f.trail.OutputMask(), Pairs: len(filtered)}

	for _, workers := range []int{1, 3, 16} {
		c, err := Complete(context.Background(), f.cipher, knownKeys, partial, filtered[:2], workers)
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if c.Key != 0x6656 || c.Index != 0x666 || c.Candidates != 4096 {
			t.Fatalf("completion = %+v", c)
		}
	}

	wrong := &Partial{Key: 0x0030, Votes: 9, Recovered: f.trail.OutputMask(), Pairs: len(filtered)}
	_, err := Complete(context.Background(), f.cipher, knownKeys, wrong, filtered[:2], 4)
	if errors.Cause(err) != ErrKeyNotRecovered {
		t.Fatalf("expected ErrKeyNotRecovered, got %v", err)
	}

	if _, err := Complete(context.Background(), f.cipher, knownKeys, partial, nil, 4); errors.Cause(err) != ErrNoMatchingPairs {
		t.Fatalf("expected ErrNoMatchingPairs without held-out pairs, got %v", err)
	}
}

func TestCompleteCancelled(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(512)
	pairs, _ := EncryptPairs(cfg.Oracle, inputDiff, cfg.Plaintexts)
	filtered := Filter(pairs, f.trail.OutputMask())
	partial := &Partial{Key: 0x0050, Votes: 52, Recovered: f.trail.OutputMask(), Pairs: len(filtered)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		_, err := Complete(ctx, f.cipher, knownKeys, partial, filtered[:2], workers)
		if errors.Cause(err) != context.Canceled {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestRunSequential(t *testing.T) {
	f := newFixture(t)
	res, err := Run(context.Background(), f.config(512))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Key != 0x6656 {
		t.Fatalf("recovered %v, want 6656", res.Key)
	}
	if res.Generated != 512 || len(res.Filtered) != 96 {
		t.Fatalf("generated %d, filtered %d", res.Generated, len(res.Filtered))
	}
	if res.Partial.Key != 0x0050 || res.Partial.Votes != 52 {
		t.Fatalf("partial %v with %d votes", res.Partial.Key, res.Partial.Votes)
	}
}

func TestRunNotRecovered(t *testing.T) {
	f := newFixture(t)
	_, err := Run(context.Background(), f.config(64))
	if errors.Cause(err) != ErrKeyNotRecovered {
		t.Fatalf("expected ErrKeyNotRecovered, got %v", err)
	}
	nr, ok := err.(*NotRecoveredError)
	if !ok {
		t.Fatalf("expected *NotRecoveredError, got %T", err)
	}
	if nr.FilteredPairs != 12 || nr.BestVotes != 8 || nr.Candidates != 4096 {
		t.Fatalf("diagnostics = %+v", nr)
	}
}

func TestRunNoMatchingPairs(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(256)
	cfg.Oracle = rotl4{}
	_, err := Run(context.Background(), cfg)
	if errors.Cause(err) != ErrNoMatchingPairs {
		t.Fatalf("expected ErrNoMatchingPairs, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, f.config(512)); errors.Cause(err) != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestVerifyConfig(t *testing.T) {
	f := newFixture(t)
	short := trail.NewSearcher(f.ddt, f.cipher.PBox()).Simulate(inputDiff, 3)

	for name, mutate := range map[string]func(*Config){
		"no cipher":    func(c *Config) { c.Cipher = nil },
		"no ddt":       func(c *Config) { c.DDT = nil },
		"no oracle":    func(c *Config) { c.Oracle = nil },
		"short trail":  func(c *Config) { c.Trail = short },
		"empty trail":  func(c *Config) { c.Trail = trail.Trail{} },
		"zero pairs":   func(c *Config) { c.Plaintexts = nil; c.Rand = rand.New(rand.NewSource(1)) },
		"no rand":      func(c *Config) { c.Plaintexts = nil; c.Pairs = 10 },
		"zero holdout": func(c *Config) { c.HoldOut = 0 },
	} {
		cfg := f.config(8)
		mutate(cfg)
		if err := VerifyConfig(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if err := VerifyConfig(f.config(8)); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestSuggestedPairs(t *testing.T) {
	f := newFixture(t)
	if n := SuggestedPairs(f.trail.Probability); n != 51 {
		t.Fatalf("SuggestedPairs(%v) = %d, want 51", f.trail.Probability, n)
	}
	if SuggestedPairs(0) != spn.BlockSpace || SuggestedPairs(1e-9) != spn.BlockSpace {
		t.Fatal("suggestion not capped at the codebook")
	}
}

// Randomly sampled runs may fail, but a validated key is never wrong.
func TestRecoverLastRoundKey(t *testing.T) {
	recoverWithRetries(t, 128, 8)
}

func TestRecoverLastRoundKeySuggestedPairs(t *testing.T) {
	f := newFixture(t)
	n := SuggestedPairs(f.trail.Probability)
	if n != 51 {
		t.Fatalf("SuggestedPairs = %d, want 51", n)
	}
	recoverWithRetries(t, n, 16)
}

func recoverWithRetries(t *testing.T, pairs, attempts int) {
	t.Helper()
	f := newFixture(t)
	for seed := int64(1); seed <= int64(attempts); seed++ {
		cfg := f.config(0)
		cfg.Plaintexts = nil
		cfg.Pairs = pairs
		cfg.Rand = rand.New(rand.NewSource(seed))
		res, err := Run(context.Background(), cfg)
		if err != nil {
			cause := errors.Cause(err)
			if cause != ErrKeyNotRecovered && cause != ErrNoMatchingPairs {
				t.Fatalf("seed %d: %v", seed, err)
			}
			t.Logf("seed %d: %v", seed, err)
			continue
		}
		if res.Key != 0x6656 {
			t.Fatalf("seed %d recovered wrong key %v", seed, res.Key)
		}
		return
	}
	t.Fatal("no seed recovered the key")
}
