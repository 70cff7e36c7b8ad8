package ecolatam

import (
	"strings"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// clean trims s and maps nil or blank to "".
func clean(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// locationLabel joins the non-blank province, canton and district names.
func locationLabel(provincia, canton, distrito *string) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{provincia, canton, distrito} {
		if v := clean(p); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func mapUserListItem(d domain.UserDTO) domain.UserListItem {
	return domain.UserListItem{
		ID:            d.ID,
		Name:          clean(d.Name),
		Lastname:      clean(d.Lastname),
		Username:      clean(d.Username),
		Email:         clean(d.Email),
		CreatedAt:     clean(d.CreatedAt),
		LocationLabel: locationLabel(d.ProvinciaName, d.CantonName, d.DistritoName),
	}
}

func mapUserDetail(d domain.UserDTO) domain.UserDetail {
	return domain.UserDetail{
		UserListItem: mapUserListItem(d),
		Birthdate:    clean(d.Birthdate),
		Location:     clean(d.Location),
		Zip:          clean(d.Zip),
		Phone:        clean(d.Phone),
		Cellphone:    clean(d.Cellphone),
		IDPais:       d.IDPais,
		IDProvincia:  d.IDProvincia,
		IDCanton:     d.IDCanton,
		IDDistrito:   d.IDDistrito,
		EditedAt:     d.EditedAt,
	}
}

func mapBusinessListItem(d domain.BusinessDTO) domain.BusinessListItem {
	return domain.BusinessListItem{
		ID:            d.ID,
		Name:          clean(d.Name),
		Slug:          clean(d.Slug),
		Short:         clean(d.Short),
		CategoryLabel: clean(d.CategoryName),
		LocationLabel: locationLabel(d.ProvinciaName, d.CantonName, d.DistritoName),
		LogoURL:       clean(d.LogoURL),
		CoverURL:      clean(d.CoverURL),
	}
}

func mapBusinessDetail(d domain.BusinessDTO) domain.BusinessDetail {
	return domain.BusinessDetail{
		BusinessListItem: mapBusinessListItem(d),
		Description:      clean(d.Description),
		Email:            clean(d.Email),
		Phone:            clean(d.Phone),
		Website:          clean(d.Website),
		Social: domain.SocialLinks{
			X:         clean(d.X),
			Instagram: clean(d.Instagram),
			Facebook:  clean(d.Facebook),
			Linkedin:  clean(d.Linkedin),
			Youtube:   clean(d.Youtube),
		},
	}
}

func mapProduct(d domain.OfferingDTO) domain.ProductItem {
	return domain.ProductItem{
		ID:         d.ID,
		BusinessID: d.IDBusiness,
		Name:       clean(d.Name),
		Short:      clean(d.Short),
		Price:      d.Price,
		Currency:   clean(d.Currency),
		ImageURL:   clean(d.ImageURL),
	}
}

func mapService(d domain.OfferingDTO) domain.ServiceItem {
	return domain.ServiceItem(mapProduct(d))
}

func mapOption(c domain.CatalogItem) domain.Option {
	return domain.Option{ID: c.ID, Label: c.Name}
}
