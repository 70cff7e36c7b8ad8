package domain

// BusinessDTO is a business row as the backend sends it.
type BusinessDTO struct {
	ID            int64   `json:"id"`
	Name          *string `json:"name"`
	Slug          *string `json:"slug,omitempty"`
	Short         *string `json:"short,omitempty"`
	Description   *string `json:"description,omitempty"`
	CategoryName  *string `json:"category_name,omitempty"`
	ProvinciaName *string `json:"provincia_name,omitempty"`
	CantonName    *string `json:"canton_name,omitempty"`
	DistritoName  *string `json:"distrito_name,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Website       *string `json:"website,omitempty"`
	X             *string `json:"x,omitempty"`
	Instagram     *string `json:"instagram,omitempty"`
	Facebook      *string `json:"facebook,omitempty"`
	Linkedin      *string `json:"linkedin,omitempty"`
	Youtube       *string `json:"youtube,omitempty"`
}

// OfferingDTO is a product or service row; both share one backend shape.
type OfferingDTO struct {
	ID         int64    `json:"id"`
	IDBusiness int64    `json:"id_business"`
	Name       *string  `json:"name"`
	Short      *string  `json:"short,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Currency   *string  `json:"currency,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
}

type BusinessListItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug,omitempty"`
	Short         string `json:"short,omitempty"`
	CategoryLabel string `json:"categoryLabel,omitempty"`
	LocationLabel string `json:"locationLabel,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
}

// SocialLinks holds the optional social profiles of a business.
type SocialLinks struct {
	X         string `json:"x,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
}

type BusinessDetail struct {
	BusinessListItem

	Description string      `json:"description,omitempty"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Website     string      `json:"website,omitempty"`
	Social      SocialLinks `json:"social"`
}

// ProductItem is the UI model of a product.
type ProductItem struct {
	ID         int64    `json:"id"`
	BusinessID int64    `json:"businessId"`
	Name       string   `json:"name"`
	Short      string   `json:"short,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`
}

// ServiceItem is the UI model of a service offering.
type ServiceItem struct {
	ID         int64    `json:"id"`
	BusinessID int64    `json:"businessId"`
	Name       string   `json:"name"`
	Short      string   `json:"short,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`
}

// PageQuery carries limit/offset for list operations.
type PageQuery struct {
	Limit  int
	Offset int
}

// WithDefaults fills a zero limit with def and clamps a negative offset.
func (q PageQuery) WithDefaults(def int) PageQuery {
	if q.Limit <= 0 {
		q.Limit = def
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// CreateBusinessPayload is the body of a business creation. Optional
// location fields are sent as null; the owner id is omitted when unknown.
type CreateBusinessPayload struct {
	Name        string  `json:"name" validate:"required"`
	Location    *string `json:"location"`
	IDPais      *int64  `json:"id_pais"`
	IDProvincia *int64  `json:"id_provincia"`
	IDCanton    *int64  `json:"id_canton"`
	IDDistrito  *int64  `json:"id_distrito"`
	Zip         *string `json:"zip"`
	IDBCategory *int64  `json:"id_bcategory"`
	Phone       *string `json:"phone"`
	IDUser      *int64  `json:"id_user,omitempty"`
}

// NormalizeLocation drops location levels whose parent is not selected.
func (p *CreateBusinessPayload) NormalizeLocation() {
	sel := NewLocationSelection(p.IDPais, p.IDProvincia, p.IDCanton, p.IDDistrito)
	p.IDPais, p.IDProvincia, p.IDCanton, p.IDDistrito = sel.IDs()
}

// BusinessKycPayload is the basic KYC record of a business.
type BusinessKycPayload struct {
	LegalName          *string `json:"legal_name,omitempty"`
	TaxID              *string `json:"tax_id,omitempty"`
	RepresentativeName *string `json:"representative_name,omitempty"`
	RepresentativeID   *string `json:"representative_id,omitempty"`
	Address            *string `json:"address,omitempty"`
}
