package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pageza/glucolink/backend/internal/apperrors"
)

const (
	InvitationCodeLength = 8
	invitationAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces invitation codes.
type CodeGenerator func() (string, error)

var alphabetSize = big.NewInt(int64(len(invitationAlphabet)))

// GenerateInvitationCode returns 8 characters from [A-Z0-9] drawn from
// crypto/rand. Uniqueness is enforced by the store, not here.
func GenerateInvitationCode() (string, error) {
	var b strings.Builder
	b.Grow(InvitationCodeLength)
	for i := 0; i < InvitationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(invitationAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeInvitationCode trims and upper-cases raw and checks its length.
func NormalizeInvitationCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if utf8.RuneCountInString(code) != InvitationCodeLength {
		return "", apperrors.ErrInvalidCodeFormat
	}
	return code, nil
}

// MaskInvitationCode hides all but the last two characters.
func MaskInvitationCode(code string) string {
	if len(code) <= 2 {
		return strings.Repeat("*", len(code))
	}
	return strings.Repeat("*", len(code)-2) + code[len(code)-2:]
}
