package model

// RawRecord is one loosely-structured record decoded from a source file.
// Nothing about its shape is guaranteed.
type RawRecord map[string]any

// NormalizedRecord is the canonical shape derived once from a RawRecord.
type NormalizedRecord struct {
	Model         string
	Brand         string
	ImageURL      string
	SourceURL     string
	Specs         Specs
	Price         float64 // canonical currency; 0 means unknown
	BrandInferred bool
}

// RejectReason is the fixed set of causes a record can be turned away for.
type RejectReason string

// Rejection reasons.
const (
	RejectPriceOutOfRange  RejectReason = "price_out_of_range"
	RejectExcludedKeyword  RejectReason = "excluded_keyword_match"
	RejectNoMatchingSignal RejectReason = "no_matching_signal"
	RejectUnknownCategory  RejectReason = "unknown_category"
)

// AllRejectReasons returns every rejection reason in report order.
func AllRejectReasons() []RejectReason {
	return []RejectReason{
		RejectPriceOutOfRange,
		RejectExcludedKeyword,
		RejectNoMatchingSignal,
		RejectUnknownCategory,
	}
}
