// Package sizing categorizes pull requests by total lines changed.
package sizing

// Category is a PR size bucket.
type Category string

// Size buckets in display order. Boundaries are inclusive on the lower
// edge: 9 lines is XS, 10 is S, 99 is S, 100 is M, 999 is L, 1000 is XL.
const (
	XS Category = "XS"
	S  Category = "S"
	M  Category = "M"
	L  Category = "L"
	XL Category = "XL"
)

// Thresholds for the size buckets, in lines changed.
const (
	maxXS = 10
	maxS  = 100
	maxM  = 500
	maxL  = 1000
)

// Categories returns all size buckets in fixed XS -> XL display order.
func Categories() []Category {
	return []Category{XS, S, M, L, XL}
}

// Categorize maps total lines changed (added + deleted) to a size bucket.
func Categorize(totalLinesChanged int) Category {
	switch {
	case totalLinesChanged < maxXS:
		return XS
	case totalLinesChanged < maxS:
		return S
	case totalLinesChanged < maxM:
		return M
	case totalLinesChanged < maxL:
		return L
	default:
		return XL
	}
}

// Label returns the human-readable bucket label used on report pages.
func (c Category) Label() string {
	switch c {
	case XS:
		return "XS (<10 lines)"
	case S:
		return "S (10-99 lines)"
	case M:
		return "M (100-499 lines)"
	case L:
		return "L (500-999 lines)"
	case XL:
		return "XL (1000+ lines)"
	default:
		return string(c)
	}
}

// Order returns the sort position of the bucket in display order.
func (c Category) Order() int {
	switch c {
	case XS:
		return 0
	case S:
		return 1
	case M:
		return 2
	case L:
		return 3
	case XL:
		return 4
	default:
		return 5
	}
}
