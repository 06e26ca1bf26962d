// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package spn

import "github.com/pkg/errors"

const (
	// Rounds is the number of keyed rounds that end with the permutation
	// layer. A final keyed substitution and a whitening key follow them.
	Rounds = 4
	// ScheduleLen is the number of round keys the cipher consumes.
	ScheduleLen = Rounds + 2
)

var (
	// DefaultSBoxTable is the fixed 4-bit S-box.
	DefaultSBoxTable = [16]uint8{0x6, 0x4, 0xC, 0x5, 0x0, 0x7, 0x2, 0xE, 0x1, 0xF, 0x3, 0xD, 0x8, 0xA, 0x9, 0xB}
	// DefaultPBoxTable transposes the block seen as a 4x4 bit matrix.
	DefaultPBoxTable = [BlockBits]uint8{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}
)

// Schedule holds the round keys in the order they are applied. There is no
// key expansion: every key is supplied directly.
type Schedule [ScheduleLen]Block

// NewSchedule validates a key list and converts it into a Schedule.
func NewSchedule(keys []int) (Schedule, error) {
	var ks Schedule
	if len(keys) != ScheduleLen {
		return ks, errors.Wrapf(ErrMalformedInput, "key schedule has %d keys, want %d", len(keys), ScheduleLen)
	}
	for i, k := range keys {
		b, err := ParseBlock(k)
		if err != nil {
			return ks, errors.Wrapf(err, "round key %d", i)
		}
		ks[i] = b
	}
	return ks, nil
}

// Cipher is the SPN built from a validated S-box and permutation.
type Cipher struct {
	sbox *SBox
	pbox *PBox
}

// NewCipher assembles a cipher from its tables.
func NewCipher(sbox *SBox, pbox *PBox) *Cipher {
	return &Cipher{sbox: sbox, pbox: pbox}
}

// Default builds the cipher from DefaultSBoxTable and DefaultPBoxTable.
func Default() *Cipher {
	sbox, err := NewSBox(DefaultSBoxTable)
	if err != nil {
		panic(err)
	}
	pbox, err := NewPBox(DefaultPBoxTable)
	if err != nil {
		panic(err)
	}
	return NewCipher(sbox, pbox)
}

// SBox returns the substitution layer.
func (c *Cipher) SBox() *SBox { return c.sbox }

// PBox returns the permutation layer.
func (c *Cipher) PBox() *PBox { return c.pbox }

// Encrypt enciphers one block.
func (c *Cipher) Encrypt(p Block, ks Schedule) Block {
	state := p
	for r := 0; r < Rounds; r++ {
		state ^= ks[r]
		state = c.sbox.SubstituteBlock(state)
		state = c.pbox.Permute(state)
	}
	// last round: no permutation
	state ^= ks[Rounds]
	state = c.sbox.SubstituteBlock(state)
	return state ^ ks[Rounds+1]
}

// Decrypt is the inverse of Encrypt.
func (c *Cipher) Decrypt(ct Block, ks Schedule) Block {
	state := ct ^ ks[Rounds+1]
	state = c.sbox.InverseSubstituteBlock(state)
	state ^= ks[Rounds]
	for r := Rounds - 1; r >= 0; r-- {
		state = c.pbox.InversePermute(state)
		state = c.sbox.InverseSubstituteBlock(state)
		state ^= ks[r]
	}
	return state
}

// EncryptInts is Encrypt over plain integers, rejecting out-of-range
// plaintexts and schedules of the wrong length.
func (c *Cipher) EncryptInts(plaintext int, keys []int) (int, error) {
	p, err := ParseBlock(plaintext)
	if err != nil {
		return 0, errors.Wrap(err, "plaintext")
	}
	ks, err := NewSchedule(keys)
	if err != nil {
		return 0, err
	}
	return int(c.Encrypt(p, ks)), nil
}

// Keyed binds a cipher to one schedule so it can serve as an encryption oracle.
type Keyed struct {
	cipher *Cipher
	keys   Schedule
}

// WithSchedule returns an oracle that encrypts under ks.
func (c *Cipher) WithSchedule(ks Schedule) *Keyed {
	return &Keyed{cipher: c, keys: ks}
}

// Encrypt enciphers p under the bound schedule.
func (k *Keyed) Encrypt(p Block) Block {
	return k.cipher.Encrypt(p, k.keys)
}
