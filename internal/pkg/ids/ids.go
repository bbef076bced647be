package ids

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Generator issues the human-facing references carried by bookings,
// payments and refunds (e.g. "BK-20250315-7KQW2N"). References are
// assigned explicitly at construction time, never by the storage layer.
type Generator interface {
	BookingRef(t time.Time) string
	PaymentRef(t time.Time) string
	RefundRef(t time.Time) string
}

// Excludes 0/O and 1/I to keep references unambiguous when read aloud
const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const refSuffixLen = 6

type refGenerator struct{}

func NewGenerator() Generator {
	return refGenerator{}
}

func (refGenerator) BookingRef(t time.Time) string { return newRef("BK", t) }
func (refGenerator) PaymentRef(t time.Time) string { return newRef("PAY", t) }
func (refGenerator) RefundRef(t time.Time) string  { return newRef("RF", t) }

func newRef(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, t.Format("20060102"), randomSuffix(refSuffixLen))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// Fallback keeps references unique enough if crypto/rand fails
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%1000000)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = refAlphabet[int(b)%len(refAlphabet)]
	}
	return string(out)
}
