package core

import "time"

// ConnectionStatus reflects reachability of the dashboard backend.
type ConnectionStatus string

const (
	ConnectionUnknown   ConnectionStatus = "UNKNOWN"
	ConnectionConnected ConnectionStatus = "CONNECTED"
	ConnectionError     ConnectionStatus = "ERROR"
)

// DataStatus summarizes the outcome of the most recent refresh cycle.
type DataStatus string

const (
	DataUnknown DataStatus = "UNKNOWN"
	DataOK      DataStatus = "OK"
	DataWarning DataStatus = "WARNING"
	DataError   DataStatus = "ERROR"
)

// OBIS register codes understood by the metering backend.
const (
	ObisConsumption = "1-1:1.29.0"
	ObisProduction  = "1-1:2.29.0"
)

// SeriesPoint is one sample of a metering time series. Points arrive from
// the backend ordered by timestamp ascending; that ordering is trusted, not
// re-verified.
type SeriesPoint struct {
	Time  time.Time `json:"startedAt"`
	Value float64   `json:"value"`
}

type MeteringPoint struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Billing holds the tariff parameters the backend uses for invoice
// computation. Only the variable rate is consumed client-side, for the
// monthly cost estimate.
type Billing struct {
	EnergySupplierName              string  `json:"energy_supplier_name"`
	EnergyFixedFeeMonthly           float64 `json:"energy_fixed_fee_monthly"`
	EnergyVariableRatePerKwh        float64 `json:"energy_variable_rate_per_kwh"`
	NetworkOperatorName             string  `json:"network_operator_name"`
	NetworkMeteringFeeMonthly       float64 `json:"network_metering_fee_monthly"`
	NetworkPowerReferenceFeeMonthly float64 `json:"network_power_reference_fee_monthly"`
	NetworkVariableRatePerKwh       float64 `json:"network_variable_rate_per_kwh"`
	CompensationFundRatePerKwh      float64 `json:"compensation_fund_rate_per_kwh"`
	ElectricityTaxPerKwh            float64 `json:"electricity_tax_per_kwh"`
	VATRate                         float64 `json:"vat_rate"`
	ReferencePowerKw                float64 `json:"reference_power_kw"`
	Currency                        string  `json:"currency"`
}

type Display struct {
	UpdateIntervalSeconds int    `json:"update_interval_seconds"`
	Theme                 string `json:"theme,omitempty"`
}

// Config is the sanitized backend configuration: credential presence flags,
// metering points, billing parameters and display preferences. It is loaded
// once per session and replaced wholesale.
type Config struct {
	HasAPIKey      bool            `json:"has_api_key"`
	HasEnergyID    bool            `json:"has_energy_id"`
	MeteringPoints []MeteringPoint `json:"metering_points"`
	Billing        Billing         `json:"billing"`
	Display        Display         `json:"display"`
}

// Configured reports whether the backend holds both credentials required to
// reach the metering API.
func (c Config) Configured() bool {
	return c.HasAPIKey && c.HasEnergyID
}

// PrimaryMeteringPoint returns the first configured metering point; only
// that point is ever queried.
func (c Config) PrimaryMeteringPoint() (string, bool) {
	if len(c.MeteringPoints) == 0 {
		return "", false
	}
	return c.MeteringPoints[0].Code, true
}

const (
	defaultRefreshInterval = 300 * time.Second
	defaultVariableRate    = 0.15
)

// RefreshInterval returns the configured auto-refresh interval, falling back
// to 300s when unset or non-positive.
func (c Config) RefreshInterval() time.Duration {
	if c.Display.UpdateIntervalSeconds <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(c.Display.UpdateIntervalSeconds) * time.Second
}

// VariableRate returns the per-kWh rate used for the client-side cost
// estimate, falling back to the historical 0.15 default.
func (c Config) VariableRate() float64 {
	if c.Billing.EnergyVariableRatePerKwh <= 0 {
		return defaultVariableRate
	}
	return c.Billing.EnergyVariableRatePerKwh
}

type InvoicePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type InvoiceBreakdown struct {
	EnergyFixedFee        float64 `json:"energy_fixed_fee"`
	EnergyVariable        float64 `json:"energy_variable"`
	NetworkMeteringFee    float64 `json:"network_metering_fee"`
	NetworkPowerReference float64 `json:"network_power_reference"`
	NetworkVariable       float64 `json:"network_variable"`
	Exceedance            float64 `json:"exceedance"`
	CompensationFund      float64 `json:"compensation_fund"`
	ElectricityTax        float64 `json:"electricity_tax"`
}

type InvoiceVAT struct {
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Invoice is the server-computed billing breakdown for an explicit range.
// It is authoritative, unlike the client-side monthly estimate.
type Invoice struct {
	Period         InvoicePeriod    `json:"period"`
	ConsumptionKWh float64          `json:"consumption_kwh"`
	Breakdown      InvoiceBreakdown `json:"breakdown"`
	Subtotal       float64          `json:"subtotal"`
	VAT            InvoiceVAT       `json:"vat"`
	Total          float64          `json:"total"`
	Currency       string           `json:"currency"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HeadlineKey names one of the summary figures on the dashboard overview.
type HeadlineKey string

const (
	HeadlineYesterday     HeadlineKey = "yesterday"
	HeadlineWeek          HeadlineKey = "week"
	HeadlineMonth         HeadlineKey = "month"
	HeadlineProduction    HeadlineKey = "production"
	HeadlineEstimatedCost HeadlineKey = "estimated_cost"
)

// Headline is one summary figure. Known is false until a cycle has committed
// the metric; Applicable is false when the meter has no such register (a
// consumption-only meter reports no production stream).
type Headline struct {
	Value      float64
	Known      bool
	Applicable bool
}

// Slot names a series buffer in the dashboard state.
type Slot string

const (
	SlotLive   Slot = "live"
	SlotPeriod Slot = "period"
)

// Snapshot is a point-in-time copy of the dashboard state handed to the
// presentation layer. Slices and maps are owned by the receiver.
type Snapshot struct {
	Config       Config
	ConfigLoaded bool

	Live     []SeriesPoint
	Period   []SeriesPoint
	PeriodOf Period

	Headlines map[HeadlineKey]Headline
	Invoice   *Invoice

	Connection    ConnectionStatus
	Data          DataStatus
	DataMessage   string
	ServerVersion string
	LastUpdated   time.Time
}

// HeadlineOf returns the named headline, zero-valued when never committed.
func (s Snapshot) HeadlineOf(key HeadlineKey) Headline {
	if s.Headlines == nil {
		return Headline{}
	}
	return s.Headlines[key]
}
