package fridge

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	inviteCodeLength   = 6
	inviteCodeAttempts = 10
	inviteCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type CodeGenerator func() (string, error)

func GenerateInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(inviteCodeLength)

	for i := 0; i < inviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(inviteCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func uniqueInviteCode(generate CodeGenerator, fridges []Refrigerator) (string, error) {
	taken := make(map[string]struct{}, len(fridges))
	for _, f := range fridges {
		taken[f.InviteCode] = struct{}{}
	}

	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := generate()
		if err != nil {
			return "", err
		}
		code = NormalizeInviteCode(code)
		if _, ok := taken[code]; !ok {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}
