package tenant

import (
	"github.com/dispensa/backend/internal/domain/shared"
)

// Settings is the nested configuration document for a tenant. The
// dashboard edits it across tabs but always submits it as one object
// alongside the tenant update.
type Settings struct {
	Features      FeatureSettings      `json:"features"`
	Branding      BrandingSettings     `json:"branding"`
	Legal         LegalSettings        `json:"legal"`
	Delivery      DeliverySettings     `json:"delivery"`
	Payment       PaymentSettings      `json:"payment"`
	Notifications NotificationSettings `json:"notifications"`
	SEO           SEOSettings          `json:"seo"`
	Analytics     AnalyticsSettings    `json:"analytics"`
	Budtender     BudtenderSettings    `json:"budtender"`
}

// FeatureSettings toggles platform features per tenant
type FeatureSettings struct {
	OnlineOrdering   bool `json:"online_ordering"`
	Delivery         bool `json:"delivery"`
	Pickup           bool `json:"pickup"`
	LoyaltyProgram   bool `json:"loyalty_program"`
	AgeVerification  bool `json:"age_verification"`
	VirtualBudtender bool `json:"virtual_budtender"`
}

// BrandingSettings holds storefront branding
type BrandingSettings struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	FontFamily     string `json:"font_family"`
	TagLine        string `json:"tag_line"`
}

// LegalSettings holds licensing and compliance fields
type LegalSettings struct {
	LicenseNumber    string `json:"license_number"`
	LegalEntityName  string `json:"legal_entity_name"`
	CRSANumber       string `json:"crsa_number"`
	MinimumAge       int    `json:"minimum_age"`
	TermsURL         string `json:"terms_url"`
	PrivacyPolicyURL string `json:"privacy_policy_url"`
}

// DeliverySettings holds delivery configuration
type DeliverySettings struct {
	Enabled          bool    `json:"enabled"`
	RadiusKM         float64 `json:"radius_km"`
	MinimumOrder     float64 `json:"minimum_order"`
	FlatFee          float64 `json:"flat_fee"`
	FreeAboveAmount  float64 `json:"free_above_amount"`
	EstimatedMinutes int     `json:"estimated_minutes"`
}

// PaymentSettings holds payment processor configuration
type PaymentSettings struct {
	Provider        string `json:"provider"`
	MerchantID      string `json:"merchant_id"`
	AcceptCash      bool   `json:"accept_cash"`
	AcceptDebit     bool   `json:"accept_debit"`
	AcceptETransfer bool   `json:"accept_etransfer"`
}

// NotificationSettings holds order/user notification toggles
type NotificationSettings struct {
	OrderEmail     bool   `json:"order_email"`
	OrderSMS       bool   `json:"order_sms"`
	LowStockAlerts bool   `json:"low_stock_alerts"`
	SenderEmail    string `json:"sender_email"`
	SenderName     string `json:"sender_name"`
}

// SEOSettings holds storefront SEO metadata
type SEOSettings struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
	CanonicalDomain string `json:"canonical_domain"`
}

// AnalyticsSettings holds analytics integrations
type AnalyticsSettings struct {
	GoogleAnalyticsID string `json:"google_analytics_id"`
	MetaPixelID       string `json:"meta_pixel_id"`
	EnableHeatmaps    bool   `json:"enable_heatmaps"`
}

// BudtenderSettings configures the virtual budtender assistant
type BudtenderSettings struct {
	Enabled       bool   `json:"enabled"`
	DisplayName   string `json:"display_name"`
	Voice         string `json:"voice"`
	Greeting      string `json:"greeting"`
	MaxSessionMin int    `json:"max_session_min"`
}

// DefaultSettings returns the settings document for a new tenant
func DefaultSettings() Settings {
	return Settings{
		Features: FeatureSettings{
			Pickup:          true,
			AgeVerification: true,
		},
		Legal: LegalSettings{
			MinimumAge: 19,
		},
		Delivery: DeliverySettings{
			RadiusKM:         10,
			EstimatedMinutes: 60,
		},
		Payment: PaymentSettings{
			AcceptCash:  true,
			AcceptDebit: true,
		},
		Notifications: NotificationSettings{
			OrderEmail: true,
		},
		Budtender: BudtenderSettings{
			DisplayName:   "Budtender",
			Voice:         "alloy",
			MaxSessionMin: 15,
		},
	}
}

// Validate checks cross-field constraints on the settings document
func (s Settings) Validate() error {
	if s.Legal.MinimumAge != 0 && s.Legal.MinimumAge < 18 {
		return shared.NewDomainError("INVALID_MINIMUM_AGE", "Minimum age cannot be below 18")
	}
	if s.Delivery.RadiusKM < 0 {
		return shared.NewDomainError("INVALID_DELIVERY_RADIUS", "Delivery radius cannot be negative")
	}
	if s.Delivery.MinimumOrder < 0 || s.Delivery.FlatFee < 0 || s.Delivery.FreeAboveAmount < 0 {
		return shared.NewDomainError("INVALID_DELIVERY_AMOUNT", "Delivery amounts cannot be negative")
	}
	if s.Features.Delivery && !s.Delivery.Enabled {
		return shared.NewDomainError("INCONSISTENT_DELIVERY", "Delivery feature is on but delivery settings are disabled")
	}
	return nil
}
