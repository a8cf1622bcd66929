package billing

import (
	"math"
	"testing"
	"time"

	"github.com/lenedash/lenedash/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestComputeWithDefaultTariff(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	inv := Compute(core.Billing{}, 300, start, end)

	if inv.Period.Start != "2024-05-01" || inv.Period.End != "2024-05-31" {
		t.Errorf("period = %+v", inv.Period)
	}
	if inv.ConsumptionKWh != 300 {
		t.Errorf("consumption = %v", inv.ConsumptionKWh)
	}

	b := inv.Breakdown
	if !almostEqual(b.EnergyFixedFee, 1.50) {
		t.Errorf("energy fixed = %v", b.EnergyFixedFee)
	}
	if !almostEqual(b.EnergyVariable, 45.00) {
		t.Errorf("energy variable = %v", b.EnergyVariable)
	}
	if !almostEqual(b.NetworkMeteringFee, 5.90) {
		t.Errorf("network metering = %v", b.NetworkMeteringFee)
	}
	if !almostEqual(b.NetworkPowerReference, 19.27) {
		t.Errorf("network power ref = %v", b.NetworkPowerReference)
	}
	if !almostEqual(b.NetworkVariable, 22.77) {
		t.Errorf("network variable = %v", b.NetworkVariable)
	}
	if b.Exceedance != 0 {
		t.Errorf("exceedance = %v", b.Exceedance)
	}
	if !almostEqual(b.CompensationFund, -11.28) {
		t.Errorf("compensation fund = %v", b.CompensationFund)
	}
	if !almostEqual(b.ElectricityTax, 0.30) {
		t.Errorf("electricity tax = %v", b.ElectricityTax)
	}

	// 1.50 + 45.00 + 5.90 + 19.27 + 22.77 - 11.28 + 0.30 = 83.46
	if !almostEqual(inv.Subtotal, 83.46) {
		t.Errorf("subtotal = %v", inv.Subtotal)
	}
	if inv.VAT.Rate != 0.08 {
		t.Errorf("vat rate = %v", inv.VAT.Rate)
	}
	if !almostEqual(inv.VAT.Amount, 6.68) {
		t.Errorf("vat amount = %v", inv.VAT.Amount)
	}
	if !almostEqual(inv.Total, 90.14) {
		t.Errorf("total = %v", inv.Total)
	}
	if inv.Currency != "EUR" {
		t.Errorf("currency = %q", inv.Currency)
	}
}

func TestComputeZeroConsumption(t *testing.T) {
	inv := Compute(core.Billing{}, 0,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))

	// Only the fixed fees remain: 1.50 + 5.90 + 19.27 = 26.67.
	if !almostEqual(inv.Subtotal, 26.67) {
		t.Errorf("subtotal = %v", inv.Subtotal)
	}
	if inv.Breakdown.EnergyVariable != 0 || inv.Breakdown.CompensationFund != 0 {
		t.Errorf("variable components nonzero: %+v", inv.Breakdown)
	}
}

func TestComputeCustomTariff(t *testing.T) {
	tariff := core.Billing{
		EnergyFixedFeeMonthly:    2.00,
		EnergyVariableRatePerKwh: 0.20,
		VATRate:                  0.17,
		Currency:                 "EUR",
	}
	inv := Compute(tariff, 100,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))

	if !almostEqual(inv.Breakdown.EnergyVariable, 20.00) {
		t.Errorf("energy variable = %v", inv.Breakdown.EnergyVariable)
	}
	if inv.VAT.Rate != 0.17 {
		t.Errorf("vat rate = %v", inv.VAT.Rate)
	}
	// Unset network fields still fall back to the standard rates.
	if !almostEqual(inv.Breakdown.NetworkMeteringFee, 5.90) {
		t.Errorf("network metering = %v", inv.Breakdown.NetworkMeteringFee)
	}
}

func TestWithDefaults(t *testing.T) {
	got := WithDefaults(core.Billing{NetworkVariableRatePerKwh: 0.10})
	if got.NetworkVariableRatePerKwh != 0.10 {
		t.Errorf("explicit rate overwritten: %v", got.NetworkVariableRatePerKwh)
	}
	if got.CompensationFundRatePerKwh != DefaultCompensationFundRatePerKwh {
		t.Errorf("compensation fund default not applied: %v", got.CompensationFundRatePerKwh)
	}
	if got.Currency != "EUR" {
		t.Errorf("currency default not applied: %q", got.Currency)
	}
}
