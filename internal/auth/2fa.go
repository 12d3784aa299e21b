package auth

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "FlexiFi"

type Authenticator struct{}

// GenerateSecret returns the otpauth URI and the raw secret. SHA1 keeps it
// compatible with Google Authenticator.
func (g *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", fmt.Errorf("could not generate totp secret: %w", err)
	}
	return key.URL(), key.Secret(), nil
}

func (g *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
