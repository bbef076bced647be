//go:build unit

package ids_test

import (
	"regexp"
	"testing"
	"time"

	"tablebook/internal/pkg/ids"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Format(t *testing.T) {
	gen := ids.NewGenerator()
	at := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ref     string
		pattern string
	}{
		{"booking", gen.BookingRef(at), `^BK-20250315-[A-HJ-NP-Z2-9]{6}$`},
		{"payment", gen.PaymentRef(at), `^PAY-20250315-[A-HJ-NP-Z2-9]{6}$`},
		{"refund", gen.RefundRef(at), `^RF-20250315-[A-HJ-NP-Z2-9]{6}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.pattern), tt.ref)
		})
	}
}

func TestGenerator_SuffixVaries(t *testing.T) {
	gen := ids.NewGenerator()
	at := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[gen.BookingRef(at)] = true
	}
	assert.Greater(t, len(seen), 90, "references should be effectively unique")
}
