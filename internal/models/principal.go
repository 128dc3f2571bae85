package models

// Principal is the authenticated presenter identity returned by the
// sign-in provider. It only scopes which sessions a presenter may
// create, edit or delete.
type Principal struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
}

// Name returns the best human-readable label for the principal
func (p *Principal) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
