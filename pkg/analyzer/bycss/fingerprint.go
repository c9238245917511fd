package bycss

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/panbanda/selectorlint/pkg/selector"
)

// assignFingerprints gives each diagnostic a BLAKE3 identity that survives
// line shifts: file, kind, whitespace-normalized call text and the
// occurrence index of that (kind, text) pair within the file.
func assignFingerprints(diags []Diagnostic) {
	seen := make(map[string]int)
	for i := range diags {
		d := &diags[i]
		text := strings.Join(strings.Fields(d.Source), " ")
		key := string(d.Kind) + "\x00" + text
		n := seen[key]
		seen[key] = n + 1

		h := blake3.New()
		h.Write([]byte(d.File))
		h.Write([]byte{0})
		h.Write([]byte(key))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(n)))
		sum := h.Sum(nil)
		d.Fingerprint = hex.EncodeToString(sum[:8])
	}
}

// contentHash identifies a file's content under a policy, for caching.
func contentHash(p selector.Policy, content []byte) string {
	h := blake3.New()
	h.Write([]byte(RuleName))
	h.Write([]byte{0, flag(p.AllowIDs), flag(p.AllowTags), flag(p.DisallowClasses), 0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
