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

package oracle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
)

// MaxRounds is the round count of full AES-128.
const MaxRounds = 10

var sbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

var rcon = [MaxRounds]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// AES is AES-128 reduced to a chosen number of rounds. Every round but the
// last runs SubBytes, ShiftRows, MixColumns and AddRoundKey; the last one skips
// MixColumns, so ten rounds is standard AES-128.
type AES struct {
	rounds    int
	roundKeys [][16]byte
}

// NewAES expands key for the given number of rounds, 1 to MaxRounds.
func NewAES(key Block128, rounds int) (*AES, error) {
	if rounds < 1 || rounds > MaxRounds {
		return nil, errors.Wrapf(spn.ErrMalformedInput, "aes rounds %d outside [1,%d]", rounds, MaxRounds)
	}
	return &AES{rounds: rounds, roundKeys: expandKey(key, rounds)}, nil
}

// Rounds returns the number of rounds applied.
func (a *AES) Rounds() int { return a.rounds }

// Encrypt never fails; the error satisfies Oracle.
func (a *AES) Encrypt(pt Block128) (Block128, error) {
	return a.encrypt(pt), nil
}

func (a *AES) encrypt(state Block128) Block128 {
	addRoundKey(&state, &a.roundKeys[0])
	for r := 1; r <= a.rounds; r++ {
		subBytes(&state)
		shiftRows(&state)
		if r != a.rounds {
			mixColumns(&state)
		}
		addRoundKey(&state, &a.roundKeys[r])
	}
	return state
}

// Encrypt128 encrypts a 32-hex-digit plaintext under a 32-hex-digit key.
func Encrypt128(plaintextHex, keyHex string, rounds int) (string, error) {
	pt, err := ParseHex(plaintextHex)
	if err != nil {
		return "", errors.Wrap(err, "plaintext")
	}
	key, err := ParseHex(keyHex)
	if err != nil {
		return "", errors.Wrap(err, "key")
	}
	a, err := NewAES(key, rounds)
	if err != nil {
		return "", err
	}
	return a.encrypt(pt).String(), nil
}

// Encrypt128Int is Encrypt128 over 128-bit integers.
func Encrypt128Int(plaintext, key *big.Int, rounds int) (*big.Int, error) {
	pt, err := FromInt(plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "plaintext")
	}
	k, err := FromInt(key)
	if err != nil {
		return nil, errors.Wrap(err, "key")
	}
	a, err := NewAES(k, rounds)
	if err != nil {
		return nil, err
	}
	return a.encrypt(pt).Int(), nil
}

// expandKey returns rounds+1 round keys; bytes are laid out column by column.
func expandKey(key Block128, rounds int) [][16]byte {
	n := 4 * (rounds + 1)
	w := make([][4]byte, n)
	for i := 0; i < 4; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}
	for i := 4; i < n; i++ {
		temp := w[i-1]
		if i%4 == 0 {
			// RotWord, SubWord, Rcon
			temp[0], temp[1], temp[2], temp[3] = sbox[temp[1]], sbox[temp[2]], sbox[temp[3]], sbox[temp[0]]
			temp[0] ^= rcon[i/4-1]
		}
		for j := 0; j < 4; j++ {
			w[i][j] = w[i-4][j] ^ temp[j]
		}
	}
	keys := make([][16]byte, rounds+1)
	for r := range keys {
		for c := 0; c < 4; c++ {
			copy(keys[r][4*c:4*c+4], w[4*r+c][:])
		}
	}
	return keys
}

func addRoundKey(s *Block128, k *[16]byte) {
	for i := range s {
		s[i] ^= k[i]
	}
}

func subBytes(s *Block128) {
	for i := range s {
		s[i] = sbox[s[i]]
	}
}

// shiftRows rotates row r left by r; byte (row r, column c) lives at 4c+r.
func shiftRows(s *Block128) {
	t := *s
	for c := 0; c < 4; c++ {
		for r := 1; r < 4; r++ {
			s[4*c+r] = t[4*((c+r)%4)+r]
		}
	}
}

func xtime(b byte) byte {
	if b&0x80 != 0 {
		return b<<1 ^ 0x1b
	}
	return b << 1
}

func mixColumns(s *Block128) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		all := a0 ^ a1 ^ a2 ^ a3
		s[4*c] = a0 ^ all ^ xtime(a0^a1)
		s[4*c+1] = a1 ^ all ^ xtime(a1^a2)
		s[4*c+2] = a2 ^ all ^ xtime(a2^a3)
		s[4*c+3] = a3 ^ all ^ xtime(a3^a0)
	}
}
