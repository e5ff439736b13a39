package entity

import "time"

// Requestor persona o servicio que solicita material (demandeur).
type Requestor struct {
	ID          string
	Nom         string
	Prenom      string
	Departement string
	Poste       string
	Email       string
	Telephone   string
	CreatedAt   time.Time
}

// FullName nombre para mostrar.
func (r *Requestor) FullName() string {
	if r.Prenom == "" {
		return r.Nom
	}
	return r.Prenom + " " + r.Nom
}
