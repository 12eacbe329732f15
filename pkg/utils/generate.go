package utils

import (
	"crypto/rand"
	"io"
)

// activationAlphabet drops look-alike characters (O/0, I/1/l).
const activationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateActivationCode returns a random code formatted XXXX-XXXX-XXXX.
func GenerateActivationCode() (string, error) {
	const codeLength = 12

	buf := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}

	for i := range buf {
		buf[i] = activationAlphabet[int(buf[i])%len(activationAlphabet)]
	}

	return string(buf[0:4]) + "-" + string(buf[4:8]) + "-" + string(buf[8:12]), nil
}
