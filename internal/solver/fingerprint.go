package solver

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the request together with the weight precision. Equal
// fingerprints identify requests with the same answer.
func Fingerprint(decimals int, req Request) uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = strconv.AppendInt(buf, int64(decimals), 10)
	buf = append(buf, '|')
	buf = append(buf, req.MaxWeight.String()...)
	_, _ = h.Write(buf)

	for _, item := range req.Items {
		buf = buf[:0]
		buf = append(buf, '|')
		buf = strconv.AppendInt(buf, int64(item.ID), 10)
		buf = append(buf, ',')
		buf = append(buf, item.Weight.String()...)
		buf = append(buf, ',')
		buf = append(buf, item.Price.String()...)
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
