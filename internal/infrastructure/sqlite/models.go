package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// Las fechas se guardan en UTC: SQLite las compara como texto.

type supplierModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Nom       string    `gorm:"size:200;not null;index"`
	Contact   string    `gorm:"size:200"`
	Telephone string    `gorm:"size:50"`
	Email     string    `gorm:"size:200"`
	Adresse   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

func (supplierModel) TableName() string { return "fournisseurs" }

func newSupplierModel(s *entity.Supplier) *supplierModel {
	return &supplierModel{
		ID: s.ID, Nom: s.Nom, Contact: s.Contact, Telephone: s.Telephone,
		Email: s.Email, Adresse: s.Adresse, CreatedAt: s.CreatedAt.UTC(),
	}
}

func (m supplierModel) toEntity() *entity.Supplier {
	return &entity.Supplier{
		ID: m.ID, Nom: m.Nom, Contact: m.Contact, Telephone: m.Telephone,
		Email: m.Email, Adresse: m.Adresse, CreatedAt: m.CreatedAt,
	}
}

type requestorModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Nom         string    `gorm:"size:100;not null;index"`
	Prenom      string    `gorm:"size:100"`
	Departement string    `gorm:"size:100;not null"`
	Poste       string    `gorm:"size:100"`
	Email       string    `gorm:"size:200"`
	Telephone   string    `gorm:"size:50"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (requestorModel) TableName() string { return "demandeurs" }

func newRequestorModel(r *entity.Requestor) *requestorModel {
	return &requestorModel{
		ID: r.ID, Nom: r.Nom, Prenom: r.Prenom, Departement: r.Departement,
		Poste: r.Poste, Email: r.Email, Telephone: r.Telephone, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (m requestorModel) toEntity() *entity.Requestor {
	return &entity.Requestor{
		ID: m.ID, Nom: m.Nom, Prenom: m.Prenom, Departement: m.Departement,
		Poste: m.Poste, Email: m.Email, Telephone: m.Telephone, CreatedAt: m.CreatedAt,
	}
}

type articleModel struct {
	ID            string           `gorm:"primaryKey;size:36"`
	CodeArticle   string           `gorm:"type:varchar(50) COLLATE NOCASE;not null;uniqueIndex"`
	Designation   string           `gorm:"size:200;not null"`
	Categorie     string           `gorm:"size:100;not null;index"`
	Marque        string           `gorm:"size:100"`
	Reference     string           `gorm:"size:100"`
	Unite         string           `gorm:"size:20;not null"`
	PrixUnitaire  *decimal.Decimal `gorm:"type:numeric"`
	SeuilMinimum  *int
	StockInitial  int    `gorm:"not null;check:stock_initial >= 0"`
	StockActuel   int    `gorm:"not null;check:stock_actuel >= 0"`
	FournisseurID string `gorm:"size:36;index"`
	SearchKey     string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (articleModel) TableName() string { return "articles" }

func (m articleModel) toEntity() *entity.Article {
	return &entity.Article{
		ID:            m.ID,
		CodeArticle:   m.CodeArticle,
		Designation:   m.Designation,
		Categorie:     m.Categorie,
		Marque:        m.Marque,
		Reference:     m.Reference,
		Unite:         m.Unite,
		PrixUnitaire:  m.PrixUnitaire,
		SeuilMinimum:  m.SeuilMinimum,
		StockInitial:  m.StockInitial,
		StockActuel:   m.StockActuel,
		FournisseurID: m.FournisseurID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type receptionModel struct {
	ID                 string           `gorm:"primaryKey;size:36"`
	ArticleID          string           `gorm:"size:36;not null;index"`
	FournisseurID      string           `gorm:"size:36;not null"`
	QuantiteRecue      int              `gorm:"not null;check:quantite_recue > 0"`
	PrixUnitaire       *decimal.Decimal `gorm:"type:numeric"`
	NumeroBonLivraison string           `gorm:"size:100"`
	Observations       string           `gorm:"type:text"`
	DateReception      time.Time        `gorm:"not null;index"`
	DemandeAchatID     string           `gorm:"size:36;index"`
	CreatedAt          time.Time
}

func (receptionModel) TableName() string { return "receptions" }

func newReceptionModel(r *entity.Reception) *receptionModel {
	return &receptionModel{
		ID:                 r.ID,
		ArticleID:          r.ArticleID,
		FournisseurID:      r.FournisseurID,
		QuantiteRecue:      r.QuantiteRecue,
		PrixUnitaire:       r.PrixUnitaire,
		NumeroBonLivraison: r.NumeroBonLivraison,
		Observations:       r.Observations,
		DateReception:      r.DateReception.UTC(),
		DemandeAchatID:     r.DemandeAchatID,
		CreatedAt:          r.CreatedAt.UTC(),
	}
}

func (m receptionModel) toEntity() *entity.Reception {
	return &entity.Reception{
		ID:                 m.ID,
		ArticleID:          m.ArticleID,
		FournisseurID:      m.FournisseurID,
		QuantiteRecue:      m.QuantiteRecue,
		PrixUnitaire:       m.PrixUnitaire,
		NumeroBonLivraison: m.NumeroBonLivraison,
		Observations:       m.Observations,
		DateReception:      m.DateReception,
		DemandeAchatID:     m.DemandeAchatID,
		CreatedAt:          m.CreatedAt,
	}
}

type outboundModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	ArticleID      string    `gorm:"size:36;not null;index"`
	DemandeurID    string    `gorm:"size:36;not null"`
	QuantiteSortie int       `gorm:"not null;check:quantite_sortie > 0"`
	MotifSortie    string    `gorm:"size:200"`
	Observations   string    `gorm:"type:text"`
	DateSortie     time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
}

func (outboundModel) TableName() string { return "sorties" }

func newOutboundModel(o *entity.Outbound) *outboundModel {
	return &outboundModel{
		ID: o.ID, ArticleID: o.ArticleID, DemandeurID: o.DemandeurID, QuantiteSortie: o.QuantiteSortie,
		MotifSortie: o.MotifSortie, Observations: o.Observations,
		DateSortie: o.DateSortie.UTC(), CreatedAt: o.CreatedAt.UTC(),
	}
}

func (m outboundModel) toEntity() *entity.Outbound {
	return &entity.Outbound{
		ID: m.ID, ArticleID: m.ArticleID, DemandeurID: m.DemandeurID, QuantiteSortie: m.QuantiteSortie,
		MotifSortie: m.MotifSortie, Observations: m.Observations,
		DateSortie: m.DateSortie, CreatedAt: m.CreatedAt,
	}
}

type requestModel struct {
	ID               string      `gorm:"primaryKey;size:36"`
	DemandeurID      string      `gorm:"size:36;not null"`
	DateDemande      time.Time   `gorm:"not null"`
	Observations     string      `gorm:"type:text"`
	Statut           string      `gorm:"size:20;not null;index"`
	Type             string      `gorm:"size:10;not null"`
	ArticleID        string      `gorm:"size:36"`
	FournisseurID    string      `gorm:"size:36"`
	QuantiteDemandee int
	Items            []itemModel `gorm:"foreignKey:DemandeAchatID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time   `gorm:"index"`
	UpdatedAt        time.Time
}

func (requestModel) TableName() string { return "demandes_achat" }

type itemModel struct {
	ID               string           `gorm:"primaryKey;size:36"`
	DemandeAchatID   string           `gorm:"size:36;not null;index"`
	Position         int              `gorm:"not null"`
	ArticleID        string           `gorm:"size:36;not null"`
	FournisseurID    string           `gorm:"size:36"`
	QuantiteDemandee int              `gorm:"not null;check:quantite_demandee > 0"`
	PrixUnitaire     *decimal.Decimal `gorm:"type:numeric"`
	Observations     string           `gorm:"type:text"`
}

func (itemModel) TableName() string { return "demande_achat_items" }

func newRequestModel(pr *entity.PurchaseRequest) *requestModel {
	m := &requestModel{
		ID:           pr.ID,
		DemandeurID:  pr.DemandeurID,
		DateDemande:  pr.DateDemande.UTC(),
		Observations: pr.Observations,
		Statut:       string(pr.Statut),
		Type:         pr.Lines.Kind(),
		CreatedAt:    pr.CreatedAt.UTC(),
		UpdatedAt:    pr.UpdatedAt.UTC(),
	}
	switch l := pr.Lines.(type) {
	case entity.SingleArticle:
		m.ArticleID = l.ArticleID
		m.FournisseurID = l.FournisseurID
		m.QuantiteDemandee = l.QuantiteDemandee
	case entity.MultiArticle:
		for i, it := range l.Items {
			m.Items = append(m.Items, itemModel{
				ID:               it.ID,
				DemandeAchatID:   pr.ID,
				Position:         i,
				ArticleID:        it.ArticleID,
				FournisseurID:    it.FournisseurID,
				QuantiteDemandee: it.QuantiteDemandee,
				PrixUnitaire:     it.PrixUnitaire,
				Observations:     it.Observations,
			})
		}
	}
	return m
}

func (m requestModel) toEntity() *entity.PurchaseRequest {
	pr := &entity.PurchaseRequest{
		ID:           m.ID,
		DemandeurID:  m.DemandeurID,
		DateDemande:  m.DateDemande,
		Observations: m.Observations,
		Statut:       entity.PurchaseStatus(m.Statut),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Type == entity.LinesMulti {
		items := make([]entity.PurchaseRequestItem, 0, len(m.Items))
		for _, it := range m.Items {
			items = append(items, entity.PurchaseRequestItem{
				ID:               it.ID,
				ArticleID:        it.ArticleID,
				FournisseurID:    it.FournisseurID,
				QuantiteDemandee: it.QuantiteDemandee,
				PrixUnitaire:     it.PrixUnitaire,
				Observations:     it.Observations,
			})
		}
		pr.Lines = entity.MultiArticle{Items: items}
		return pr
	}
	pr.Lines = entity.SingleArticle{
		ArticleID:        m.ArticleID,
		FournisseurID:    m.FournisseurID,
		QuantiteDemandee: m.QuantiteDemandee,
	}
	return pr
}

// movementModel: Seq es la clave primaria autoincremental y da el orden cronológico.
type movementModel struct {
	Seq           int64     `gorm:"primaryKey;autoIncrement"`
	ID            string    `gorm:"size:36;not null;uniqueIndex"`
	ArticleID     string    `gorm:"size:36;not null;index"`
	Type          string    `gorm:"size:10;not null"`
	Quantite      int       `gorm:"not null;check:quantite > 0"`
	QuantiteAvant int       `gorm:"not null"`
	QuantiteApres int       `gorm:"not null;check:quantite_apres >= 0"`
	Reference     string    `gorm:"size:100"`
	DateMouvement time.Time `gorm:"not null"`
	Description   string    `gorm:"type:text"`
}

func (movementModel) TableName() string { return "mouvements_stock" }

func (m movementModel) toEntity() *entity.StockMovement {
	return &entity.StockMovement{
		ID:            m.ID,
		Seq:           m.Seq,
		ArticleID:     m.ArticleID,
		Type:          entity.MovementType(m.Type),
		Quantite:      m.Quantite,
		QuantiteAvant: m.QuantiteAvant,
		QuantiteApres: m.QuantiteApres,
		Reference:     m.Reference,
		DateMovement:  m.DateMouvement,
		Description:   m.Description,
	}
}
