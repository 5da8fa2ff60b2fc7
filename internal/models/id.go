package models

import (
	"math/rand"
	"time"
)

const idSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a time-derived identifier: the creation instant formatted as
// yyyyMMddHHmmss followed by a 5-character random base36 suffix. The prefix
// makes ids sortable and searchable by numeric prefix; the suffix guards
// against same-second collisions.
func NewID(now time.Time) string {
	buf := make([]byte, 0, 19)
	buf = now.AppendFormat(buf, "20060102150405")
	for i := 0; i < 5; i++ {
		buf = append(buf, idSuffixAlphabet[rand.Intn(len(idSuffixAlphabet))])
	}
	return string(buf)
}
