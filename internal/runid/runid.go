package runid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"SPVWaterfall/internal/model"
)

// ComputeInputHash computes a deterministic hash of a waterfall input.
// Formula: SHA256(senior|mezzanine|equity|premiums|losses|rate_senior|rate_mezzanine)
// over canonical decimal strings, so 700 and 700.00 hash the same.
// Returns hex-encoded hash (64 characters).
func ComputeInputHash(in model.WaterfallInput) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		in.Capital.Senior.String(),
		in.Capital.Mezzanine.String(),
		in.Capital.Equity.String(),
		in.Outcome.Premiums.String(),
		in.Outcome.Losses.String(),
		in.Rates.Senior.String(),
		in.Rates.Mezzanine.String(),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
