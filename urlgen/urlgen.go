// Package urlgen generates deterministic short codes for the URL shortener
// service.
package urlgen

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/pkg/errors"
	hashids "github.com/speps/go-hashids/v2"
)

// alphabet defines the character set used for encoding short codes.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultMinLength is the minimum length of generated short codes.
const DefaultMinLength = 7

// Generator derives fixed-minimum-length short codes from a URL and a
// disambiguator. Identical inputs always produce the identical code;
// collision handling belongs to the caller.
type Generator struct {
	h *hashids.HashID
}

// New creates a Generator producing codes of at least minLength characters.
func New(minLength int) (*Generator, error) {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	hd := hashids.NewData()
	hd.Alphabet = alphabet
	hd.MinLength = minLength

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, errors.Wrap(err, "initialize hashids failed")
	}
	return &Generator{h: h}, nil
}

// Generate hashes the URL together with the disambiguator and encodes the
// leading 8 bytes of the digest. The sign bit is cleared so the value fits
// the encoder's non-negative input domain.
func (g *Generator) Generate(url string, disambiguator int64) (string, error) {
	digest := sha256.Sum256([]byte(url + strconv.FormatInt(disambiguator, 10)))
	n := int64(binary.BigEndian.Uint64(digest[:8]) & math.MaxInt64)

	code, err := g.h.EncodeInt64([]int64{n})
	if err != nil {
		return "", errors.Wrap(err, "encode short code failed")
	}
	return code, nil
}
