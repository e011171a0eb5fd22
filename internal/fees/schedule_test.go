package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchedule() Schedule {
	return Schedule{
		ReferralBands: []ReferralBand{
			{MaxPrice: decPtr("10.00"), Rate: dec("0.08")},
			{MaxPrice: nil, Rate: dec("0.15")},
		},
		FulfillmentTiers: []FulfillmentTier{
			{MaxDimensionSumCM: 35, MaxWeightKG: 0.25, Fee: dec("3.30")},
			{MaxDimensionSumCM: 45, MaxWeightKG: 1.0, Fee: dec("4.80")},
			{MaxDimensionSumCM: 55, MaxWeightKG: 3.0, Fee: dec("5.80")},
		},
		OversizeFee:    dec("12.00"),
		UnknownSizeFee: dec("5.00"),
	}
}

func TestScheduleValidate(t *testing.T) {
	require.NoError(t, validSchedule().Validate())

	t.Run("no bands", func(t *testing.T) {
		s := validSchedule()
		s.ReferralBands = nil
		require.Error(t, s.Validate())
	})

	t.Run("rate above one", func(t *testing.T) {
		s := validSchedule()
		s.ReferralBands[0].Rate = dec("15") // 15%, misquoted as 0-100 scale
		require.Error(t, s.Validate())
	})

	t.Run("last band must be open-ended", func(t *testing.T) {
		s := validSchedule()
		s.ReferralBands[1].MaxPrice = decPtr("100.00")
		require.Error(t, s.Validate())
	})

	t.Run("open-ended band not last", func(t *testing.T) {
		s := validSchedule()
		s.ReferralBands = []ReferralBand{
			{MaxPrice: nil, Rate: dec("0.15")},
			{MaxPrice: decPtr("10.00"), Rate: dec("0.08")},
		}
		require.Error(t, s.Validate())
	})

	t.Run("bands not ascending", func(t *testing.T) {
		s := validSchedule()
		s.ReferralBands = []ReferralBand{
			{MaxPrice: decPtr("10.00"), Rate: dec("0.08")},
			{MaxPrice: decPtr("5.00"), Rate: dec("0.10")},
			{MaxPrice: nil, Rate: dec("0.15")},
		}
		require.Error(t, s.Validate())
	})

	t.Run("negative fallback fee", func(t *testing.T) {
		s := validSchedule()
		s.OversizeFee = dec("-1")
		require.Error(t, s.Validate())
	})
}

func TestReferralRate(t *testing.T) {
	s := validSchedule()

	assert.True(t, s.ReferralRate(dec("5.00")).Equal(dec("0.08")))
	assert.True(t, s.ReferralRate(dec("10.00")).Equal(dec("0.08")), "band boundary is inclusive")
	assert.True(t, s.ReferralRate(dec("10.01")).Equal(dec("0.15")))
	assert.True(t, s.ReferralRate(dec("5000")).Equal(dec("0.15")))
}

func TestFulfillmentFee(t *testing.T) {
	s := validSchedule()
	light := 0.2
	mid := 0.8
	heavy := 9.0

	t.Run("first matching tier wins", func(t *testing.T) {
		fee := s.FulfillmentFee(&light, []float64{20, 10, 4})
		assert.True(t, fee.Equal(dec("3.30")), "fee = %s", fee)
	})

	t.Run("weight pushes into a larger tier", func(t *testing.T) {
		fee := s.FulfillmentFee(&mid, []float64{20, 10, 4})
		assert.True(t, fee.Equal(dec("4.80")), "fee = %s", fee)
	})

	t.Run("oversize fallback", func(t *testing.T) {
		fee := s.FulfillmentFee(&heavy, []float64{40, 30, 20})
		assert.True(t, fee.Equal(dec("12.00")), "fee = %s", fee)
	})

	t.Run("missing weight", func(t *testing.T) {
		fee := s.FulfillmentFee(nil, []float64{20, 10, 4})
		assert.True(t, fee.Equal(dec("5.00")), "fee = %s", fee)
	})

	t.Run("missing dimensions", func(t *testing.T) {
		fee := s.FulfillmentFee(&light, nil)
		assert.True(t, fee.Equal(dec("5.00")), "fee = %s", fee)
	})
}
