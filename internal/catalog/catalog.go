// Package catalog holds the pure derivations of the catalog: slugs, SKUs
// and the fixed fabric list.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	nonAlnum    = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// trimSet matches the whitespace stripped from names before slugging.
const trimSet = " \t\n\r\x00\x0B"

// ProductSlug replaces every run of non-alphanumerics in the trimmed name
// with a single hyphen and lowercases the result. Leading and trailing
// hyphens are kept: "Silk & Cotton!" becomes "silk-cotton-".
func ProductSlug(name string) string {
	s := nonAlnumRun.ReplaceAllString(strings.Trim(name, trimSet), "-")
	return strings.ToLower(s)
}

// TaxonomySlug lowercases the trimmed category or collection name and turns
// each space into a hyphen. Punctuation is kept: "Silk & Cotton" becomes
// "silk-&-cotton".
func TaxonomySlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func skuPrefix(name string) string {
	s := nonAlnum.ReplaceAllString(name, "")
	if len(s) > 8 {
		s = s[:8]
	}
	return strings.ToUpper(s)
}

// CreateSKU builds the SKU assigned at creation: the first eight
// alphanumerics of the name, upper-cased, then the Unix seconds of t.
func CreateSKU(name string, t time.Time) string {
	return fmt.Sprintf("%s-%d", skuPrefix(name), t.Unix())
}

// UpdateSKU rebuilds the SKU on update; the suffix is the last four
// characters of the decimal id.
func UpdateSKU(name string, id int64) string {
	s := strconv.FormatInt(id, 10)
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return skuPrefix(name) + "-" + s
}

var fabrics = []string{
	"Pure Silk", "Art Silk", "Soft Silk", "Tussar Silk", "Cotton",
	"Cotton Silk", "Organza", "Chiffon", "Georgette", "Banarasi Silk",
	"Kanchipuram Silk", "Mysore Silk", "Chanderi", "Linen", "Tissue",
	"Crepe", "Satin", "Net", "Velvet", "Kota Doria",
}

// Fabrics returns the fabric names in ascending byte order.
func Fabrics() []string {
	out := make([]string, len(fabrics))
	copy(out, fabrics)
	sort.Strings(out)
	return out
}
