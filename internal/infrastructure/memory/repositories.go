package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/internal/domain/stock"
	"github.com/stockceramique/stockceramique-api/pkg/textnorm"
)

var (
	_ repository.ArticleRepository         = (*ArticleRepo)(nil)
	_ repository.SupplierRepository        = (*SupplierRepo)(nil)
	_ repository.RequestorRepository       = (*RequestorRepo)(nil)
	_ repository.ReceptionRepository       = (*ReceptionRepo)(nil)
	_ repository.OutboundRepository        = (*OutboundRepo)(nil)
	_ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepo)(nil)
)

// ArticleRepo artículos en memoria.
type ArticleRepo struct{ a *access }

func (r *ArticleRepo) Create(_ context.Context, article *entity.Article) error {
	var err error
	r.a.do(func(st *state) {
		if _, ok := st.articles[article.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		for _, existing := range st.articles {
			if strings.EqualFold(existing.CodeArticle, article.CodeArticle) {
				err = domain.ErrDuplicate
				return
			}
		}
		st.articles[article.ID] = *article
	})
	return err
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	var out *entity.Article
	r.a.do(func(st *state) {
		if a, ok := st.articles[id]; ok {
			out = &a
		}
	})
	return out, nil
}

func (r *ArticleRepo) GetByCode(_ context.Context, code string) (*entity.Article, error) {
	var out *entity.Article
	r.a.do(func(st *state) {
		for _, a := range st.articles {
			if strings.EqualFold(a.CodeArticle, code) {
				a := a
				out = &a
				return
			}
		}
	})
	return out, nil
}

func (r *ArticleRepo) Update(_ context.Context, article *entity.Article) error {
	var err error
	r.a.do(func(st *state) {
		cur, ok := st.articles[article.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		for id, existing := range st.articles {
			if id != article.ID && strings.EqualFold(existing.CodeArticle, article.CodeArticle) {
				err = domain.ErrDuplicate
				return
			}
		}
		updated := *article
		updated.StockInitial = cur.StockInitial
		updated.StockActuel = cur.StockActuel
		updated.CreatedAt = cur.CreatedAt
		st.articles[article.ID] = updated
	})
	return err
}

func (r *ArticleRepo) AdjustStock(_ context.Context, id string, delta int) (int, int, error) {
	var avant, apres int
	var err error
	r.a.do(func(st *state) {
		a, ok := st.articles[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		next := a.StockActuel
		if delta != 0 {
			t, q := entity.MovementEntree, delta
			if delta < 0 {
				t, q = entity.MovementSortie, -delta
			}
			if next, err = stock.Apply(a.StockActuel, t, q); err != nil {
				return
			}
		}
		avant = a.StockActuel
		a.StockActuel = next
		a.UpdatedAt = time.Now()
		st.articles[id] = a
		apres = a.StockActuel
	})
	return avant, apres, err
}

func (r *ArticleRepo) List(_ context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	search := textnorm.Fold(filter.Search)
	var list []*entity.Article
	r.a.do(func(st *state) {
		for _, a := range st.articles {
			if filter.Categorie != "" && !strings.EqualFold(a.Categorie, filter.Categorie) {
				continue
			}
			if search != "" && !strings.Contains(textnorm.SearchKey(a.CodeArticle, a.Designation, a.Reference, a.Marque), search) {
				continue
			}
			a := a
			list = append(list, &a)
		}
	})
	sortArticles(list)
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *ArticleRepo) ListLowStock(_ context.Context) ([]*entity.Article, error) {
	var list []*entity.Article
	r.a.do(func(st *state) {
		for _, a := range st.articles {
			if a.IsLowStock() {
				a := a
				list = append(list, &a)
			}
		}
	})
	sortArticles(list)
	return list, nil
}

func (r *ArticleRepo) Count(_ context.Context) (int, error) {
	var n int
	r.a.do(func(st *state) { n = len(st.articles) })
	return n, nil
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	var err error
	r.a.do(func(st *state) {
		if _, ok := st.articles[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.articles, id)
	})
	return err
}

func sortArticles(list []*entity.Article) {
	sort.Slice(list, func(i, j int) bool { return list[i].CodeArticle < list[j].CodeArticle })
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ a *access }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.a.do(func(st *state) { st.suppliers[s.ID] = *s })
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.a.do(func(st *state) {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	r.a.do(func(st *state) {
		for _, s := range st.suppliers {
			s := s
			list = append(list, &s)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nom < list[j].Nom })
	return list, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	var err error
	r.a.do(func(st *state) {
		cur, ok := st.suppliers[s.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		updated := *s
		updated.CreatedAt = cur.CreatedAt
		st.suppliers[s.ID] = updated
	})
	return err
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	var err error
	r.a.do(func(st *state) {
		if _, ok := st.suppliers[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.suppliers, id)
	})
	return err
}

// RequestorRepo demandeurs en memoria.
type RequestorRepo struct{ a *access }

func (r *RequestorRepo) Create(_ context.Context, req *entity.Requestor) error {
	r.a.do(func(st *state) { st.requestors[req.ID] = *req })
	return nil
}

func (r *RequestorRepo) GetByID(_ context.Context, id string) (*entity.Requestor, error) {
	var out *entity.Requestor
	r.a.do(func(st *state) {
		if req, ok := st.requestors[id]; ok {
			out = &req
		}
	})
	return out, nil
}

func (r *RequestorRepo) List(_ context.Context) ([]*entity.Requestor, error) {
	var list []*entity.Requestor
	r.a.do(func(st *state) {
		for _, req := range st.requestors {
			req := req
			list = append(list, &req)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nom < list[j].Nom })
	return list, nil
}

func (r *RequestorRepo) Update(_ context.Context, req *entity.Requestor) error {
	var err error
	r.a.do(func(st *state) {
		cur, ok := st.requestors[req.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		updated := *req
		updated.CreatedAt = cur.CreatedAt
		st.requestors[req.ID] = updated
	})
	return err
}

func (r *RequestorRepo) Delete(_ context.Context, id string) error {
	var err error
	r.a.do(func(st *state) {
		if _, ok := st.requestors[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.requestors, id)
	})
	return err
}

// ReceptionRepo recepciones en memoria.
type ReceptionRepo struct{ a *access }

func (r *ReceptionRepo) Create(_ context.Context, rec *entity.Reception) error {
	r.a.do(func(st *state) { st.receptions = append(st.receptions, *rec) })
	return nil
}

func (r *ReceptionRepo) GetByID(_ context.Context, id string) (*entity.Reception, error) {
	var out *entity.Reception
	r.a.do(func(st *state) {
		for _, rec := range st.receptions {
			if rec.ID == id {
				rec := rec
				out = &rec
				return
			}
		}
	})
	return out, nil
}

func (r *ReceptionRepo) List(_ context.Context, filter repository.ListFilter) ([]*entity.Reception, error) {
	var list []*entity.Reception
	r.a.do(func(st *state) {
		// Recorrido inverso: más recientes primero.
		for i := len(st.receptions) - 1; i >= 0; i-- {
			rec := st.receptions[i]
			if filter.ArticleID != "" && rec.ArticleID != filter.ArticleID {
				continue
			}
			list = append(list, &rec)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].DateReception.After(list[j].DateReception) })
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *ReceptionRepo) ListByPurchaseRequest(_ context.Context, purchaseRequestID string) ([]*entity.Reception, error) {
	var list []*entity.Reception
	r.a.do(func(st *state) {
		for _, rec := range st.receptions {
			if rec.DemandeAchatID == purchaseRequestID {
				rec := rec
				list = append(list, &rec)
			}
		}
	})
	return list, nil
}

func (r *ReceptionRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	r.a.do(func(st *state) {
		for _, rec := range st.receptions {
			if !rec.DateReception.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

// OutboundRepo salidas en memoria.
type OutboundRepo struct{ a *access }

func (r *OutboundRepo) Create(_ context.Context, out *entity.Outbound) error {
	r.a.do(func(st *state) { st.outbounds = append(st.outbounds, *out) })
	return nil
}

func (r *OutboundRepo) GetByID(_ context.Context, id string) (*entity.Outbound, error) {
	var out *entity.Outbound
	r.a.do(func(st *state) {
		for _, o := range st.outbounds {
			if o.ID == id {
				o := o
				out = &o
				return
			}
		}
	})
	return out, nil
}

func (r *OutboundRepo) List(_ context.Context, filter repository.ListFilter) ([]*entity.Outbound, error) {
	var list []*entity.Outbound
	r.a.do(func(st *state) {
		for i := len(st.outbounds) - 1; i >= 0; i-- {
			o := st.outbounds[i]
			if filter.ArticleID != "" && o.ArticleID != filter.ArticleID {
				continue
			}
			list = append(list, &o)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].DateSortie.After(list[j].DateSortie) })
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *OutboundRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	r.a.do(func(st *state) {
		for _, o := range st.outbounds {
			if !o.DateSortie.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

// PurchaseRequestRepo demandas de compra en memoria.
type PurchaseRequestRepo struct{ a *access }

func (r *PurchaseRequestRepo) Create(_ context.Context, pr *entity.PurchaseRequest) error {
	if multi, ok := pr.Lines.(entity.MultiArticle); ok {
		items := make([]entity.PurchaseRequestItem, len(multi.Items))
		copy(items, multi.Items)
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = uuid.New().String()
			}
		}
		pr.Lines = entity.MultiArticle{Items: items}
	}
	r.a.do(func(st *state) { st.requests[pr.ID] = *pr })
	return nil
}

func (r *PurchaseRequestRepo) GetByID(_ context.Context, id string) (*entity.PurchaseRequest, error) {
	var out *entity.PurchaseRequest
	r.a.do(func(st *state) {
		if pr, ok := st.requests[id]; ok {
			out = copyRequest(pr)
		}
	})
	return out, nil
}

// GetForUpdate: dentro de Run el estado ya está bloqueado por el mutex del store.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRequestRepo) List(_ context.Context, statuses ...entity.PurchaseStatus) ([]*entity.PurchaseRequest, error) {
	var list []*entity.PurchaseRequest
	r.a.do(func(st *state) {
		for _, pr := range st.requests {
			if len(statuses) > 0 && !hasStatus(statuses, pr.Statut) {
				continue
			}
			list = append(list, copyRequest(pr))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *PurchaseRequestRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseStatus, updatedAt time.Time) error {
	var err error
	r.a.do(func(st *state) {
		pr, ok := st.requests[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		pr.Statut = status
		pr.UpdatedAt = updatedAt
		st.requests[id] = pr
	})
	return err
}

func (r *PurchaseRequestRepo) Delete(_ context.Context, id string) error {
	var err error
	r.a.do(func(st *state) {
		if _, ok := st.requests[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.requests, id)
	})
	return err
}

func copyRequest(pr entity.PurchaseRequest) *entity.PurchaseRequest {
	if multi, ok := pr.Lines.(entity.MultiArticle); ok {
		items := make([]entity.PurchaseRequestItem, len(multi.Items))
		copy(items, multi.Items)
		pr.Lines = entity.MultiArticle{Items: items}
	}
	return &pr
}

func hasStatus(statuses []entity.PurchaseStatus, s entity.PurchaseStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// StockMovementRepo historial en memoria, solo inserción.
type StockMovementRepo struct{ a *access }

func (r *StockMovementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	r.a.do(func(st *state) {
		st.seq++
		m.Seq = st.seq
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		st.movements = append(st.movements, *m)
	})
	return nil
}

func (r *StockMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.a.do(func(st *state) {
		// movements se guarda en orden de Seq.
		for _, m := range st.movements {
			if filter.ArticleID != "" && m.ArticleID != filter.ArticleID {
				continue
			}
			if filter.From != nil && m.DateMovement.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.DateMovement.After(*filter.To) {
				continue
			}
			m := m
			list = append(list, &m)
		}
	})
	return paginate(list, filter.Limit, 0), nil
}

func (r *StockMovementRepo) ListRecent(_ context.Context, limit int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.a.do(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if limit > 0 && len(list) >= limit {
				break
			}
			m := st.movements[i]
			list = append(list, &m)
		}
	})
	return list, nil
}
