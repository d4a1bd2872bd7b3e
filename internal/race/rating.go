package race

// Rating is a skill rating as produced by the rating subsystem. The ledger
// does not interpret it.
type Rating struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// CreateRating builds a Rating from its two parameters.
func CreateRating(mu, sigma float64) Rating {
	return Rating{Mu: mu, Sigma: sigma}
}

// Quantize returns the stored form of r. Fractions are truncated toward zero,
// so 25.7 becomes 25 and -3.9 becomes -3.
func (r Rating) Quantize() (mu, sigma int64) {
	return int64(r.Mu), int64(r.Sigma)
}

// RatingFromStored rebuilds a Rating from its stored integer pair.
func RatingFromStored(mu, sigma int64) Rating {
	return CreateRating(float64(mu), float64(sigma))
}
