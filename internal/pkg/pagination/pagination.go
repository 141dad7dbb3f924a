// Package pagination holds page/offset arithmetic for list endpoints.
package pagination

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params is a normalized page request. Build it with NewParams.
type Params struct {
	Page    int
	PerPage int
}

// NewParams clamps page to at least 1 and perPage into [1, MaxPerPage],
// substituting defaults for unset values.
func NewParams(page, perPage int) Params {
	p := Params{Page: page, PerPage: perPage}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

type Info struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewInfo describes the page p within totalItems rows. An empty result still
// has one page. Params that skipped NewParams are normalized first.
func NewInfo(p Params, totalItems int) *Info {
	if p.Page < 1 || p.PerPage < 1 || p.PerPage > MaxPerPage {
		p = NewParams(p.Page, p.PerPage)
	}

	totalPages := (totalItems + p.PerPage - 1) / p.PerPage
	if totalPages == 0 {
		totalPages = 1
	}

	return &Info{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
