package agent

// TopicKeyLength is the number of characters of a message used as its topic key.
const TopicKeyLength = 50

// TopicKey derives the bookkeeping key for a message: its first
// TopicKeyLength characters. Distinct questions sharing a prefix collide,
// which is acceptable for a coarse retry counter.
func TopicKey(message string) string {
	n := 0
	for i := range message {
		if n == TopicKeyLength {
			return message[:i]
		}
		n++
	}
	return message
}
