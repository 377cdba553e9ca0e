// Package naming derives broker resource names from event descriptors.
//
// Producers and consumers must agree on queue names, so every component that
// needs one goes through QueueName rather than formatting names itself.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

const (
	// Separator joins the components of a queue name.
	Separator = "."

	// MaxQueueNameLength is the longest queue name the broker accepts.
	MaxQueueNameLength = 255

	// hashSuffixLength is the number of hex characters kept from the digest
	// appended to names that had to be shortened.
	hashSuffixLength = 16
)

var escaper = strings.NewReplacer("%", "%25", Separator, "%2E")

// QueueName returns the name of the queue on which the service identified by
// consumer receives eventName from exchange.
//
// The result is <exchange>.<eventName>.<consumer>. Components containing the
// separator or '%' are percent-escaped, so distinct inputs never produce the same
// name. Empty components still produce a name. Names over MaxQueueNameLength are
// cut on a rune boundary and suffixed with a digest of the full name.
func QueueName(exchange, eventName, consumer string) string {
	name := escaper.Replace(exchange) +
		Separator + escaper.Replace(eventName) +
		Separator + escaper.Replace(consumer)

	if len(name) <= MaxQueueNameLength {
		return name
	}

	sum := sha256.Sum256([]byte(name))
	suffix := "~" + hex.EncodeToString(sum[:])[:hashSuffixLength]
	// Cut on a rune boundary so the result stays valid UTF-8.
	cut := MaxQueueNameLength - len(suffix)
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut] + suffix
}
