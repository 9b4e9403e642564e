package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// ReferralType prefixes a referral code with the role of the user it belongs to
type ReferralType string

const (
	UserType        ReferralType = "USR"
	DistributorType ReferralType = "DST"
	FranchiseType   ReferralType = "FRX"
)

// GenerateReferralCode generates a unique referral code for the specified role
// Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters
// Example: USR-ABC123, DST-XYZ789
func GenerateReferralCode(entityType ReferralType) (string, error) {
	// 4 random bytes give us 6+ characters in base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return string(entityType) + "-" + randomStr, nil
}

// ReferralTypeForRole maps a user role to its referral code prefix.
func ReferralTypeForRole(role string) ReferralType {
	switch role {
	case "distributor":
		return DistributorType
	case "franchise":
		return FranchiseType
	default:
		return UserType
	}
}
