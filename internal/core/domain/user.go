package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexID is an identifier the backend sends either as a JSON number or as a
// string.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*id = ""
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	*id = FlexID(raw)
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(id), 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Int64 reports the numeric value of the id. Blank, zero, non-numeric and
// non-finite ids are reported as absent.
func (id FlexID) Int64() (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(id)), 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// CachedUser is the user profile kept in the Session next to the token.
type CachedUser struct {
	ID       FlexID   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Lastname string   `json:"lastname,omitempty"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// UserDTO is a user row as the backend sends it.
type UserDTO struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`

	Birthdate *string `json:"birthdate,omitempty"`
	Location  *string `json:"location,omitempty"`
	Zip       *string `json:"zip,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Cellphone *string `json:"cellphone,omitempty"`

	IDPais      *int64 `json:"id_pais,omitempty"`
	IDProvincia *int64 `json:"id_provincia,omitempty"`
	IDCanton    *int64 `json:"id_canton,omitempty"`
	IDDistrito  *int64 `json:"id_distrito,omitempty"`

	CreatedAt *string `json:"created_at,omitempty"`
	EditedAt  *string `json:"edited_at,omitempty"`

	ProvinciaName *string `json:"provincia_name,omitempty"`
	CantonName    *string `json:"canton_name,omitempty"`
	DistritoName  *string `json:"distrito_name,omitempty"`
}

type UserListItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Lastname      string `json:"lastname"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	LocationLabel string `json:"locationLabel,omitempty"`
}

type UserDetail struct {
	UserListItem

	Birthdate string `json:"birthdate,omitempty"`
	Location  string `json:"location,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Cellphone string `json:"cellphone,omitempty"`

	IDPais      *int64 `json:"idPais,omitempty"`
	IDProvincia *int64 `json:"idProvincia,omitempty"`
	IDCanton    *int64 `json:"idCanton,omitempty"`
	IDDistrito  *int64 `json:"idDistrito,omitempty"`

	EditedAt *string `json:"editedAt"`
}

// UserPayload is the create/update body the /users endpoint expects.
type UserPayload struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Lastname    string `json:"lastname,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Location    string `json:"location,omitempty"`
	IDPais      *int64 `json:"id_pais,omitempty"`
	IDProvincia *int64 `json:"id_provincia,omitempty"`
	IDCanton    *int64 `json:"id_canton,omitempty"`
	IDDistrito  *int64 `json:"id_distrito,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Cellphone   string `json:"cellphone,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Password    string `json:"password,omitempty"`
}

// NormalizeLocation drops location levels whose parent is not selected.
func (p *UserPayload) NormalizeLocation() {
	sel := NewLocationSelection(p.IDPais, p.IDProvincia, p.IDCanton, p.IDDistrito)
	p.IDPais, p.IDProvincia, p.IDCanton, p.IDDistrito = sel.IDs()
}

// UserListQuery carries the parameters of a user listing.
type UserListQuery struct {
	Q      string
	Limit  int
	Offset int
}

// AuthUser is the minimal user returned by the auth endpoints.
type AuthUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token string
	User  CachedUser
	ID    int64
}

// RegisterPayload is the body of a self-registration.
type RegisterPayload struct {
	Name        string `json:"name" validate:"required"`
	Lastname    string `json:"lastname" validate:"required"`
	Birthdate   string `json:"birthdate" validate:"required"`
	Location    string `json:"location" validate:"required"`
	IDPais      int64  `json:"id_pais" validate:"required"`
	IDProvincia int64  `json:"id_provincia" validate:"required"`
	IDCanton    int64  `json:"id_canton" validate:"required"`
	IDDistrito  int64  `json:"id_distrito" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
	Cellphone   string `json:"cellphone" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Password    string `json:"password,omitempty"`
}

// RegisterResult is what a successful registration yields. Token is set only
// when the backend logs the new user in.
type RegisterResult struct {
	Token string
	User  AuthUser
	ID    int64
}
