package appointment

import "github.com/BruksfildServices01/barberia/internal/models"

// Actor é o usuário autenticado que dispara a operação.
type Actor struct {
	BarbershopID uint
	UserID       uint
	Role         string
}

func (a Actor) IsManager() bool {
	return a.Role == models.RoleOwner || a.Role == models.RoleAdmin
}

// ScopeBarber resolve de qual agenda se trata: barbeiros sempre enxergam a
// própria; owner/admin escolhem (nil = todas).
func (a Actor) ScopeBarber(requested *uint) *uint {
	if !a.IsManager() {
		id := a.UserID
		return &id
	}
	return requested
}
