package model

// Fund is a single catalog entry. The catalog is loaded once at startup and
// never mutated afterwards.
type Fund struct {
	FundID      string `json:"fund_id"`
	FundName    string `json:"fund_name"`
	Ratio       string `json:"ratio"`
	CAGR        string `json:"cagr"`
	DetailsLink string `json:"details_link"`
}

type FundCategory struct {
	Category string `json:"category"`
	Funds    []Fund `json:"funds"`
}
