package pagination

// DefaultLimit is the page size when none is requested.
const DefaultLimit = 20

// Params embeds into huma input structs for cursor pagination.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque cursor from the previous page's Link header"`
	Limit  int    `query:"limit"  doc:"Maximum items per page"                              default:"20" minimum:"1" maximum:"100"`
}

// PageSize returns Limit, or DefaultLimit when unset.
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}
