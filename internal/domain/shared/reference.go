package shared

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// referenceAlphabet is the character set for the random suffix of a reference
// number. Uppercase alphanumerics only, to keep references readable over the
// phone and safe in file names.
const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referenceSuffixLen is the length of the random suffix
const referenceSuffixLen = 5

// Reference prefixes for human-readable document numbers. The wire format
// PREFIX-<unixMillis>-<5 uppercase alphanumerics> is relied on by downstream
// consumers and must not change.
const (
	MaintenancePrefix = "MNT"
	InspectionPrefix  = "INS"
	ReportPrefix      = "RPT"
)

// NewReference generates a reference number of the form
// PREFIX-<unixMillis>-<XXXXX> where XXXXX is a random uppercase alphanumeric
// suffix.
func NewReference(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), randomSuffix(referenceSuffixLen))
}

// randomSuffix returns n random characters from the reference alphabet
func randomSuffix(n int) string {
	max := big.NewInt(int64(len(referenceAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform RNG is broken; fall back
			// to a time-derived index rather than returning a partial reference.
			b[i] = referenceAlphabet[time.Now().UnixNano()%int64(len(referenceAlphabet))]
			continue
		}
		b[i] = referenceAlphabet[idx.Int64()]
	}
	return string(b)
}
