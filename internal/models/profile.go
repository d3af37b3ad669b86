// internal/models/profile.go
package models

// ProfileSourceAI marks a profile as unverified opinion data from the oracle.
const ProfileSourceAI = "ai"

// EnrichedProfile is the dossier synthesised by the AI oracle. Every field may
// be empty; none of it is verified against an authoritative source.
type EnrichedProfile struct {
	Source string `json:"source"`

	LegalName          string   `json:"legalName,omitempty"`
	Description        string   `json:"description,omitempty"`
	Country            string   `json:"country,omitempty"`
	HeadquartersCity   string   `json:"headquartersCity,omitempty"`
	Address            string   `json:"address,omitempty"`
	Website            string   `json:"website,omitempty"`
	ContactEmail       string   `json:"contactEmail,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	IncorporationDate  string   `json:"incorporationDate,omitempty"`
	LegalForm          string   `json:"legalForm,omitempty"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
	Sector             string   `json:"sector,omitempty"`
	MainActivity       string   `json:"mainActivity,omitempty"`
	ProductsServices   []string `json:"productsServices"`
	Markets            []string `json:"markets"`
	ParentCompany      string   `json:"parentCompany,omitempty"`
	Subsidiaries       []string `json:"subsidiaries"`
	KnownPartners      []string `json:"knownPartners"`

	Financials      Financials        `json:"financials"`
	Leadership      []Leader          `json:"leadership"`
	Ownership       []Shareholder     `json:"ownership"`
	Reputation      Reputation        `json:"reputation"`
	DigitalPresence DigitalPresence   `json:"digitalPresence"`
	Sanctions       SanctionsExposure `json:"sanctionsExposure"`
	RedFlags        []RedFlag         `json:"redFlags"`

	AIRiskScore     int      `json:"aiRiskScore"`
	AIRiskTier      RiskTier `json:"aiRiskTier"`
	Verdict         string   `json:"verdict,omitempty"`
	Recommendations []string `json:"recommendations"`
}

type Financials struct {
	Revenue       string `json:"revenue,omitempty"`
	NetIncome     string `json:"netIncome,omitempty"`
	MarketCap     string `json:"marketCap,omitempty"`
	Headcount     string `json:"headcount,omitempty"`
	CreditRating  string `json:"creditRating,omitempty"`
	StockExchange string `json:"stockExchange,omitempty"`
	Ticker        string `json:"ticker,omitempty"`
}

type Leader struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	TenureStart string `json:"tenureStart,omitempty"`
	PriorCareer string `json:"priorCareer,omitempty"`
}

type Shareholder struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage,omitempty"`
	HolderType string `json:"holderType,omitempty"`
}

type Reputation struct {
	Positive       []string `json:"positive"`
	Negative       []string `json:"negative"`
	Controversies  []string `json:"controversies"`
	Certifications []string `json:"certifications"`
}

type DigitalPresence struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Wikipedia string `json:"wikipedia,omitempty"`
}

// SanctionsExposure is the oracle's free-text opinion per listing authority.
// It is not a screening result.
type SanctionsExposure struct {
	OFAC    string `json:"ofac,omitempty"`
	EU      string `json:"eu,omitempty"`
	UN      string `json:"un,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type RedFlag struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail,omitempty"`
}

// Leaders returns at most limit named leaders.
func (p *EnrichedProfile) Leaders(limit int) []Leader {
	if p == nil {
		return nil
	}
	return firstN(p.Leadership, limit)
}

// Shareholders returns at most limit named shareholders.
func (p *EnrichedProfile) Shareholders(limit int) []Shareholder {
	if p == nil {
		return nil
	}
	return firstN(p.Ownership, limit)
}

// SubsidiaryNames returns at most limit subsidiaries.
func (p *EnrichedProfile) SubsidiaryNames(limit int) []string {
	if p == nil {
		return nil
	}
	return firstN(p.Subsidiaries, limit)
}

func firstN[T any](items []T, limit int) []T {
	if limit < 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
