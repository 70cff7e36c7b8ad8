package domain

import "fmt"

// CatalogType names one of the flat administrative reference tables.
type CatalogType string

const (
	CatalogPais      CatalogType = "pais"
	CatalogProvincia CatalogType = "provincia"
	CatalogCanton    CatalogType = "canton"
	CatalogDistrito  CatalogType = "distrito"
	CatalogIDType    CatalogType = "idtype"
)

var catalogEndpoints = map[CatalogType]string{
	CatalogPais:      "/pais",
	CatalogProvincia: "/provincia",
	CatalogCanton:    "/canton",
	CatalogDistrito:  "/distrito",
	CatalogIDType:    "/idtype",
}

// Endpoint returns the backend path of the catalog.
func (t CatalogType) Endpoint() (string, error) {
	ep, ok := catalogEndpoints[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCatalogType, string(t))
	}
	return ep, nil
}

// CatalogItem is a row of a reference catalog. The parent ids are set on the
// location catalogs that hang off another one.
type CatalogItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IDPais      *int64  `json:"id_pais,omitempty"`
	IDProvincia *int64  `json:"id_provincia,omitempty"`
	IDCanton    *int64  `json:"id_canton,omitempty"`
}

// BusinessCategory is a row of /bcategory.
type BusinessCategory struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Slug        *string `json:"slug,omitempty"`
}

// Option is a select option.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// LocationLevel indexes the country → province → canton → district cascade.
type LocationLevel int

const (
	LevelPais LocationLevel = iota
	LevelProvincia
	LevelCanton
	LevelDistrito
)

// LocationSelection is a cascading country/province/canton/district choice.
// Changing or clearing a level clears every level beneath it, and a level is
// only enabled once its parent is selected.
type LocationSelection struct {
	levels [4]*int64
}

// NewLocationSelection builds a selection from raw ids, dropping any level
// whose parent is missing.
func NewLocationSelection(pais, provincia, canton, distrito *int64) LocationSelection {
	var s LocationSelection
	for i, id := range []*int64{pais, provincia, canton, distrito} {
		if id == nil || *id == 0 || !s.Enabled(LocationLevel(i)) {
			break
		}
		s.Select(LocationLevel(i), *id)
	}
	return s
}

// Select sets level to id and clears every dependent level. Selecting a
// disabled level is a no-op.
func (s *LocationSelection) Select(level LocationLevel, id int64) {
	if !s.Enabled(level) {
		return
	}
	v := id
	s.levels[level] = &v
	s.clearBelow(level)
}

// Clear unsets level and every dependent level.
func (s *LocationSelection) Clear(level LocationLevel) {
	if level < LevelPais || level > LevelDistrito {
		return
	}
	s.levels[level] = nil
	s.clearBelow(level)
}

// Enabled reports whether level can be selected.
func (s LocationSelection) Enabled(level LocationLevel) bool {
	if level == LevelPais {
		return true
	}
	if level < LevelPais || level > LevelDistrito {
		return false
	}
	return s.levels[level-1] != nil
}

// Get returns the selected id of level, nil when unset.
func (s LocationSelection) Get(level LocationLevel) *int64 {
	if level < LevelPais || level > LevelDistrito || s.levels[level] == nil {
		return nil
	}
	v := *s.levels[level]
	return &v
}

// IDs returns the four levels in cascade order.
func (s LocationSelection) IDs() (pais, provincia, canton, distrito *int64) {
	return s.Get(LevelPais), s.Get(LevelProvincia), s.Get(LevelCanton), s.Get(LevelDistrito)
}

func (s *LocationSelection) clearBelow(level LocationLevel) {
	for l := level + 1; l <= LevelDistrito; l++ {
		s.levels[l] = nil
	}
}

// CatalogPayload is the create/update body of an administrative catalog row.
// AddedBy is attributed on creation and omitted when the actor is unknown.
type CatalogPayload struct {
	ID          *int64  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IDPais      *int64  `json:"id_pais,omitempty"`
	IDProvincia *int64  `json:"id_provincia,omitempty"`
	IDCanton    *int64  `json:"id_canton,omitempty"`
	AddedBy     *int64  `json:"added_by,omitempty"`
}

// CategoryPayload is the create/update body of a business category.
type CategoryPayload struct {
	ID          *int64  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	AddedBy     *int64  `json:"added_by,omitempty"`
}
