package teams

// Team is the normalized team reference shared by games, series entrants and rosters.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Color        string `json:"color,omitempty"`
}

// DisplayName prefers the full name and falls back to the short name, then the id.
func (t Team) DisplayName() string {
	switch {
	case t.FullName != "":
		return t.FullName
	case t.City != "" && t.Name != "":
		return t.City + " " + t.Name
	case t.Name != "":
		return t.Name
	default:
		return t.ID
	}
}
