package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash returns the hex SHA-256 of data. Chart descriptions are keyed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:<hash>".
func (DefaultKeyer) FrameKey(configHash string, opts FrameKeyOpts) string {
	return hashKey("frame",
		configHash,
		num(opts.Width), num(opts.Height),
		strconv.FormatBool(opts.Settled),
	)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format,
		frameHash,
		opts.Format, num(opts.Scale),
		strconv.FormatBool(opts.Axes),
		strconv.FormatBool(opts.Grid),
		strconv.FormatBool(opts.Tooltip),
	)
}

// hashKey joins fields with NUL, which cannot occur in any of them, and
// returns prefix:sha256.
func hashKey(prefix string, fields ...string) string {
	return prefix + ":" + Hash([]byte(strings.Join(fields, "\x00")))
}

// num formats floats in their shortest exact form so 2 and 2.0 key alike.
func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
