package room

import (
	"errors"
	"math/rand"
)

var errCodeSpaceExhausted = errors.New("code_space_exhausted")

// Room codes are short, human-shareable, and drawn from an alphabet
// without easily confused glyphs (no 0/O, 1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5

	maxCodeAttempts = 64
)

func randomCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(buf)
}

// newCodeLocked allocates a code not held by any live room. Caller
// holds the store lock. With 32^5 combinations collisions are freak
// events, so a bounded retry is plenty.
func (s *Store) newCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := randomCode()
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", errCodeSpaceExhausted
}
