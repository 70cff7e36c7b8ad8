package ports

import (
	"context"
	"encoding/json"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// AuthAPI talks to the backend authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
	Me(ctx context.Context) (*domain.AuthUser, error)
	Refresh(ctx context.Context) (string, error)
	Register(ctx context.Context, payload domain.RegisterPayload) (*domain.RegisterResult, error)
}

type UsersAPI interface {
	Create(ctx context.Context, payload domain.UserPayload) (domain.Confirmation, error)
	List(ctx context.Context, q domain.UserListQuery) (domain.Page[domain.UserListItem], error)
	GetByID(ctx context.Context, id int64) (*domain.UserDetail, error)
	Update(ctx context.Context, payload domain.UserPayload) (domain.Confirmation, error)
	Delete(ctx context.Context, id int64) (domain.Confirmation, error)
}

type EcoguiaAPI interface {
	ListBusinesses(ctx context.Context, q domain.PageQuery) (domain.Page[domain.BusinessListItem], error)
	ListBusinessesByUser(ctx context.Context, userID int64, q domain.PageQuery) (domain.Page[domain.BusinessListItem], error)
	GetBusiness(ctx context.Context, id int64) (*domain.BusinessDetail, error)
	ProductsByBusiness(ctx context.Context, businessID int64, q domain.PageQuery) (domain.Page[domain.ProductItem], error)
	ServicesByBusiness(ctx context.Context, businessID int64, q domain.PageQuery) (domain.Page[domain.ServiceItem], error)
	ListProducts(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ProductItem], error)
	ListServices(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ServiceItem], error)
	GetProduct(ctx context.Context, id int64) (*domain.ProductItem, error)
	GetService(ctx context.Context, id int64) (*domain.ServiceItem, error)
	CreateBusiness(ctx context.Context, payload domain.CreateBusinessPayload) (int64, error)
	SubmitBusinessKyc(ctx context.Context, businessID int64, payload domain.BusinessKycPayload) (domain.Confirmation, error)
}

// CatalogsAPI serves the location cascade used by forms.
type CatalogsAPI interface {
	Paises(ctx context.Context) ([]domain.Option, error)
	ProvinciasByPais(ctx context.Context, paisID int64) ([]domain.Option, error)
	CantonesByProvincia(ctx context.Context, provinciaID int64) ([]domain.Option, error)
	DistritosByCanton(ctx context.Context, cantonID int64) ([]domain.Option, error)
}

type AdminCatalogsAPI interface {
	List(ctx context.Context, t domain.CatalogType, q domain.PageQuery) ([]domain.CatalogItem, error)
	ListAll(ctx context.Context, t domain.CatalogType, pageSize int) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, t domain.CatalogType, id int64) (*domain.CatalogItem, error)
	Create(ctx context.Context, t domain.CatalogType, payload domain.CatalogPayload) (domain.Confirmation, error)
	Update(ctx context.Context, t domain.CatalogType, payload domain.CatalogPayload) (domain.Confirmation, error)
	Delete(ctx context.Context, t domain.CatalogType, id int64) (domain.Confirmation, error)
}

type CategoriesAPI interface {
	List(ctx context.Context, q domain.PageQuery) ([]domain.BusinessCategory, error)
	ListAll(ctx context.Context, pageSize int) ([]domain.BusinessCategory, error)
	GetByID(ctx context.Context, id int64) (*domain.BusinessCategory, error)
	Create(ctx context.Context, payload domain.CategoryPayload) (domain.Confirmation, error)
	Update(ctx context.Context, payload domain.CategoryPayload) (domain.Confirmation, error)
	Delete(ctx context.Context, id int64) (domain.Confirmation, error)
}

type KycAPI interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.UserKyc, error)
	Submit(ctx context.Context, payload domain.KycSubmission) (domain.Confirmation, error)
}

// SocialAPI covers the community feed and the role-specific request forms.
// The role-form endpoints answer with free-form bodies that are passed
// through untouched.
type SocialAPI interface {
	Feed(ctx context.Context, q domain.FeedQuery) ([]domain.Post, error)
	CreatePost(ctx context.Context, post domain.NewPost) (*domain.Post, error)
	Like(ctx context.Context, postID string) (int, error)
	VIPFeed(ctx context.Context, q domain.FeedQuery) ([]domain.Post, error)
	OfferVolunteer(ctx context.Context, offer domain.VolunteerOffer) (json.RawMessage, error)
	RequestVolunteers(ctx context.Context, req domain.VolunteerRequest) (json.RawMessage, error)
	ContactGuide(ctx context.Context, contact domain.GuideContact) (json.RawMessage, error)
	RequestInspection(ctx context.Context, req domain.InspectionRequest) (json.RawMessage, error)
}

// UploadInput is a plaintext file handed to an Uploader.
type UploadInput struct {
	Name string
	Mime string
	Data []byte
}

// Uploader stores files encrypted for their owner.
type Uploader interface {
	UploadEncrypted(ctx context.Context, files []UploadInput, userID int64) ([]domain.EncryptedFile, error)
}

// Searcher runs the global search box query.
type Searcher interface {
	Search(ctx context.Context, term string) ([]domain.SearchResult, error)
}
