// Package billing computes energy invoices from a tariff and a metered
// consumption total. The demo backend uses it to answer invoice requests;
// production deployments get the same breakdown from the real backend.
package billing

import (
	"math"
	"time"

	"github.com/lenedash/lenedash/internal/core"
)

// Luxembourg residential defaults, applied where the tariff leaves a
// field unset. The compensation fund rate is currently negative (a
// credit), the tax rate is the reduced electricity VAT rate.
const (
	DefaultEnergyFixedFeeMonthly           = 1.50
	DefaultEnergyVariableRatePerKwh        = 0.1500
	DefaultNetworkMeteringFeeMonthly       = 5.90
	DefaultNetworkPowerReferenceFeeMonthly = 19.27
	DefaultNetworkVariableRatePerKwh       = 0.0759
	DefaultCompensationFundRatePerKwh      = -0.0376
	DefaultElectricityTaxPerKwh            = 0.0010
	DefaultVATRate                         = 0.08
	DefaultCurrency                        = "EUR"
)

// WithDefaults fills unset tariff fields with the standard rates. A zero
// compensation fund rate is treated as unset since the real rate is never
// exactly zero.
func WithDefaults(b core.Billing) core.Billing {
	if b.EnergyFixedFeeMonthly == 0 {
		b.EnergyFixedFeeMonthly = DefaultEnergyFixedFeeMonthly
	}
	if b.EnergyVariableRatePerKwh == 0 {
		b.EnergyVariableRatePerKwh = DefaultEnergyVariableRatePerKwh
	}
	if b.NetworkMeteringFeeMonthly == 0 {
		b.NetworkMeteringFeeMonthly = DefaultNetworkMeteringFeeMonthly
	}
	if b.NetworkPowerReferenceFeeMonthly == 0 {
		b.NetworkPowerReferenceFeeMonthly = DefaultNetworkPowerReferenceFeeMonthly
	}
	if b.NetworkVariableRatePerKwh == 0 {
		b.NetworkVariableRatePerKwh = DefaultNetworkVariableRatePerKwh
	}
	if b.CompensationFundRatePerKwh == 0 {
		b.CompensationFundRatePerKwh = DefaultCompensationFundRatePerKwh
	}
	if b.ElectricityTaxPerKwh == 0 {
		b.ElectricityTaxPerKwh = DefaultElectricityTaxPerKwh
	}
	if b.VATRate == 0 {
		b.VATRate = DefaultVATRate
	}
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	return b
}

// Compute builds the invoice for totalKWh consumed over [start, end]. Fixed
// fees are charged once per invoice regardless of period length; exceedance
// of the reference power is not metered yet and stays zero.
func Compute(tariff core.Billing, totalKWh float64, start, end time.Time) core.Invoice {
	t := WithDefaults(tariff)

	breakdown := core.InvoiceBreakdown{
		EnergyFixedFee:        round2(t.EnergyFixedFeeMonthly),
		EnergyVariable:        round2(totalKWh * t.EnergyVariableRatePerKwh),
		NetworkMeteringFee:    round2(t.NetworkMeteringFeeMonthly),
		NetworkPowerReference: round2(t.NetworkPowerReferenceFeeMonthly),
		NetworkVariable:       round2(totalKWh * t.NetworkVariableRatePerKwh),
		Exceedance:            0,
		CompensationFund:      round2(totalKWh * t.CompensationFundRatePerKwh),
		ElectricityTax:        round2(totalKWh * t.ElectricityTaxPerKwh),
	}

	subtotal := t.EnergyFixedFeeMonthly +
		totalKWh*t.EnergyVariableRatePerKwh +
		t.NetworkMeteringFeeMonthly +
		t.NetworkPowerReferenceFeeMonthly +
		totalKWh*t.NetworkVariableRatePerKwh +
		totalKWh*t.CompensationFundRatePerKwh +
		totalKWh*t.ElectricityTaxPerKwh

	vatAmount := subtotal * t.VATRate

	return core.Invoice{
		Period: core.InvoicePeriod{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		},
		ConsumptionKWh: round2(totalKWh),
		Breakdown:      breakdown,
		Subtotal:       round2(subtotal),
		VAT: core.InvoiceVAT{
			Rate:   t.VATRate,
			Amount: round2(vatAmount),
		},
		Total:    round2(subtotal + vatAmount),
		Currency: t.Currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
