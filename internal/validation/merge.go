// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

// # Cross-Source Merge & Ranking

// Bucket classifies a combined error by origin semantics.
type Bucket int

const (
	// BucketStructural holds remote type/shape violations.
	BucketStructural Bucket = iota

	// BucketBusiness holds remote business-rule violations.
	BucketBusiness

	// BucketOther holds everything else, including all locally-produced
	// errors, which carry no remote type tag.
	BucketOther
)

// Remote validator type tags.
const (
	RemoteTypeValue    = "value_error"
	RemoteTypeType     = "type_error"
	RemoteTypeBusiness = "business_rule_error"
)

// Classify maps an error onto its merge bucket using the remote type
// hint when present.
func Classify(e Error) Bucket {
	switch e.Type {
	case RemoteTypeValue, RemoteTypeType:
		return BucketStructural
	case RemoteTypeBusiness:
		return BucketBusiness
	}
	return BucketOther
}

/*
Merge combines the local validation result with the remote schema
validator's result for export-gating decisions.

Description: The two lists are concatenated (local first) with no
deduplication beyond what the sources naturally avoid by checking
different things, then every error is classified by its remote type tag
and the buckets are concatenated structural, business, other. Within a
bucket the concatenation order is preserved.

Parameters:
  - local: Result (from [Service.ValidateCourse])
  - remote: Result (from the external schema validator, already mapped)

Returns:
  - Result: the merged, bucket-ordered result
*/
func Merge(local, remote Result) Result {
	combined := make([]Error, 0, len(local.Errors)+len(remote.Errors))
	combined = append(combined, local.Errors...)
	combined = append(combined, remote.Errors...)

	var structural, business, other []Error
	for _, e := range combined {
		switch Classify(e) {
		case BucketStructural:
			structural = append(structural, e)
		case BucketBusiness:
			business = append(business, e)
		default:
			other = append(other, e)
		}
	}

	ordered := make([]Error, 0, len(combined))
	ordered = append(ordered, structural...)
	ordered = append(ordered, business...)
	ordered = append(ordered, other...)

	return NewResult(ordered)
}

// HasBlocking reports whether any error in the result must prevent the
// export/save action. Remote structural errors always block; local
// errors follow [Error.IsBlocking].
func HasBlocking(r Result) bool {
	for _, e := range r.Errors {
		if Classify(e) == BucketStructural {
			return true
		}
		if e.IsBlocking() {
			return true
		}
	}
	return false
}
