package services

// regimeKind enumerates the three mutually exclusive tax regimes.
type regimeKind int

const (
	regimeNone regimeKind = iota
	regimeVAT
	regimeAIU
)

// TaxRegime is one of: no tax, flat VAT, or AIU (administration,
// contingencies, profit with VAT charged on the profit component only).
// The fields are unexported so the only way to build one is through the
// constructors, which keeps the vat/aiu combination unrepresentable.
type TaxRegime struct {
	kind           regimeKind
	administration float64
	contingencies  float64
	profit         float64
}

// NoTax returns the regime with no tax applied.
func NoTax() TaxRegime {
	return TaxRegime{kind: regimeNone}
}

// FlatVAT returns the flat-VAT regime (rate supplied at calculation time).
func FlatVAT() TaxRegime {
	return TaxRegime{kind: regimeVAT}
}

// AIU returns the AIU regime. Each percentage must be in [0, 100].
func AIU(administration, contingencies, profit float64) (TaxRegime, error) {
	errs := ValidationErrors{}
	if !ValidPercentage(administration) {
		errs["administrationPercentage"] = "must be between 0 and 100"
	}
	if !ValidPercentage(contingencies) {
		errs["contingenciesPercentage"] = "must be between 0 and 100"
	}
	if !ValidPercentage(profit) {
		errs["profitPercentage"] = "must be between 0 and 100"
	}
	if len(errs) > 0 {
		return TaxRegime{}, errs
	}
	return TaxRegime{
		kind:           regimeAIU,
		administration: administration,
		contingencies:  contingencies,
		profit:         profit,
	}, nil
}

// RegimeFromFlags rebuilds a TaxRegime from the flat columns a record
// stores: a vat flag plus three AIU percentages. The vat flag wins; any
// non-zero AIU percentage without it means AIU; otherwise no tax.
func RegimeFromFlags(vat bool, administration, contingencies, profit float64) TaxRegime {
	if vat {
		return FlatVAT()
	}
	if administration > 0 || contingencies > 0 || profit > 0 {
		return TaxRegime{
			kind:           regimeAIU,
			administration: administration,
			contingencies:  contingencies,
			profit:         profit,
		}
	}
	return NoTax()
}

// IsVAT reports whether the regime is flat VAT.
func (r TaxRegime) IsVAT() bool { return r.kind == regimeVAT }

// IsAIU reports whether the regime is AIU.
func (r TaxRegime) IsAIU() bool { return r.kind == regimeAIU }

// IsNone reports whether no tax applies.
func (r TaxRegime) IsNone() bool { return r.kind == regimeNone }

// AIUPercentages returns the three AIU percentages. All zero unless IsAIU.
func (r TaxRegime) AIUPercentages() (administration, contingencies, profit float64) {
	return r.administration, r.contingencies, r.profit
}

// TaxBreakdown itemizes the tax computed for a subtotal under a regime.
// Only the components relevant to the regime are non-zero.
type TaxBreakdown struct {
	VAT            float64 `json:"vat"`
	Administration float64 `json:"administration"`
	Contingencies  float64 `json:"contingencies"`
	Profit         float64 `json:"profit"`
	VATOnProfit    float64 `json:"vatOnProfit"`
	Total          float64 `json:"total"`
}

// Tax computes the tax on subtotal under the regime with the given VAT rate
// (a percentage, e.g. 19). No rounding is applied here; callers round the
// tax-inclusive total at the aggregation boundary.
func (r TaxRegime) Tax(subtotal, vatRate float64) TaxBreakdown {
	switch r.kind {
	case regimeVAT:
		vat := subtotal * vatRate / 100
		return TaxBreakdown{VAT: vat, Total: vat}
	case regimeAIU:
		admin := subtotal * r.administration / 100
		conting := subtotal * r.contingencies / 100
		profit := subtotal * r.profit / 100
		vatOnProfit := profit * vatRate / 100
		return TaxBreakdown{
			Administration: admin,
			Contingencies:  conting,
			Profit:         profit,
			VATOnProfit:    vatOnProfit,
			Total:          admin + conting + profit + vatOnProfit,
		}
	default:
		return TaxBreakdown{}
	}
}
