package domain

// FilterCriteria is the set of active filter dimensions.
// Empty fields mean "no constraint". Values are immutable: every edit produces
// a new FilterCriteria, and two criteria with equal fields compare equal with ==.
type FilterCriteria struct {
	Query     string
	GenreID   string
	CountryID string
	Year      string
	Type      string
}

// IsEmpty reports whether no dimension is constrained
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

func (c FilterCriteria) WithQuery(q string) FilterCriteria {
	c.Query = q
	return c
}

func (c FilterCriteria) WithGenre(id string) FilterCriteria {
	c.GenreID = id
	return c
}

func (c FilterCriteria) WithCountry(id string) FilterCriteria {
	c.CountryID = id
	return c
}

func (c FilterCriteria) WithYear(year string) FilterCriteria {
	c.Year = year
	return c
}

func (c FilterCriteria) WithType(t string) FilterCriteria {
	c.Type = t
	return c
}
