package domain

// FacetBucket is one value of a facet field with its document count.
type FacetBucket struct {
	Value string
	Count int
}
