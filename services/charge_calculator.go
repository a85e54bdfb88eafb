package services

// Pricing is the block-rate rule: every started block of BlockMinutes costs Rate.
type Pricing struct {
	Rate         int64
	BlockMinutes int64
}

const (
	DefaultBlockRate    = 70
	DefaultBlockMinutes = 15
)

var DefaultPricing = Pricing{Rate: DefaultBlockRate, BlockMinutes: DefaultBlockMinutes}

// TableCharge returns the charge for elapsedMinutes of play.
// Zero or negative minutes cost nothing.
func (p Pricing) TableCharge(elapsedMinutes int64) int64 {
	if elapsedMinutes <= 0 || p.BlockMinutes <= 0 {
		return 0
	}
	blocks := (elapsedMinutes + p.BlockMinutes - 1) / p.BlockMinutes
	return blocks * p.Rate
}

// OccupancyCharge is the charge of a session that has been started:
// the first block is owed from the moment the table is taken.
// Live display and finalized bills both use it.
func (p Pricing) OccupancyCharge(elapsedMinutes int64) int64 {
	if elapsedMinutes < 1 {
		elapsedMinutes = 1
	}
	return p.TableCharge(elapsedMinutes)
}

// ComputeTableCharge applies DefaultPricing.
func ComputeTableCharge(elapsedMinutes int64) int64 {
	return DefaultPricing.TableCharge(elapsedMinutes)
}
