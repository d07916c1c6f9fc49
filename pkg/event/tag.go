package event

import (
	"fmt"
	"math/bits"
)

const (
	// TagWidth is the number of significant bits in a tag.
	TagWidth = 4

	tagMask = 1<<TagWidth - 1
)

// Tag is a fixed-width bit pattern used to address functions and
// events by similarity rather than by index. Only the low TagWidth
// bits are significant.
type Tag uint8

// String renders the tag as a fixed-width binary string.
func (t Tag) String() string {
	return fmt.Sprintf("%0*b", TagWidth, uint8(t)&tagMask)
}

// HammingDist counts the differing significant bits between two tags.
func HammingDist(a, b Tag) int {
	return bits.OnesCount8(uint8(a^b) & tagMask)
}
