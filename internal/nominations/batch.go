package nominations

import "strings"

// DefaultBatchSize is the most titles the API accepts in one query for regular accounts.
const DefaultBatchSize = 50

// SplitIntoBatches groups ids into consecutive chunks of at most size and joins each
// chunk with "|", the multi-value separator of the API. Empty input yields no batches.
// Encoding of the joined value is left to the transport.
func SplitIntoBatches(ids []string, size int) []string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(ids) == 0 {
		return nil
	}

	batches := make([]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, strings.Join(ids[start:end], "|"))
	}
	return batches
}
