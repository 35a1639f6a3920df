package purchasing

import (
	"fmt"
	"regexp"
	"strings"
)

// Provincial feeds sometimes omit product names; their SKUs encode a
// size descriptor in the second underscore-delimited segment, e.g.
// "102779_10X0.5G___" for a 10-pack of 0.5g pre-rolls or
// "101557_28G___" for 28g of flower.
var (
	skuItemPattern    = regexp.MustCompile(`^\d+$`)
	skuPreRollPattern = regexp.MustCompile(`(?i)^(\d+)X([0-9]*\.?[0-9]+)G$`)
	skuFlowerPattern  = regexp.MustCompile(`(?i)^([0-9]*\.?[0-9]+)G$`)
)

// ProductNameFromSKU derives a display name from an underscore-encoded
// SKU. SKUs that don't follow the encoding are returned unchanged.
func ProductNameFromSKU(sku string) string {
	segments := strings.Split(sku, "_")
	if len(segments) < 2 {
		return sku
	}

	itemNumber := segments[0]
	if !skuItemPattern.MatchString(itemNumber) {
		return sku
	}
	descriptor := segments[1]

	if m := skuPreRollPattern.FindStringSubmatch(descriptor); m != nil {
		return fmt.Sprintf("%sx %sg Pre-Rolls - %s", m[1], m[2], itemNumber)
	}
	if m := skuFlowerPattern.FindStringSubmatch(descriptor); m != nil {
		return fmt.Sprintf("%sg Flower - %s", m[1], itemNumber)
	}
	return sku
}
