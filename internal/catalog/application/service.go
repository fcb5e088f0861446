package application

import (
	"context"
	"log/slog"

	"github.com/webshop-go/storefront/internal/catalog/domain"
	"github.com/webshop-go/storefront/internal/store"
	"github.com/webshop-go/storefront/internal/store/page"
	"github.com/webshop-go/storefront/pkg/apperr"
)

// Service owns catalog reads and writes. Every operation runs on a fresh
// unit of work so repository caches stay request-scoped.
type Service struct {
	log *slog.Logger
	uow func() *store.UnitOfWork
}

func NewService(log *slog.Logger, uow func() *store.UnitOfWork) *Service {
	return &Service{log: log, uow: uow}
}

func (s *Service) List(ctx context.Context, p domain.SearchParams) (page.Result[*domain.Product], error) {
	repo := store.Repo[*domain.Product](s.uow())
	return page.Build(ctx, repo, domain.Search(p), p.PageIndex, p.PageSize)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Product, error) {
	p, ok, err := store.Repo[*domain.Product](s.uow()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("catalog.get", "product not found")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, p *domain.Product) error {
	u := s.uow()
	store.Repo[*domain.Product](u).Add(p)

	ok, err := u.Complete(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Storef("catalog.create", "product not persisted")
	}
	return nil
}

// Update replaces a product. Mutating an id that does not exist is rejected.
func (s *Service) Update(ctx context.Context, p *domain.Product) error {
	u := s.uow()
	repo := store.Repo[*domain.Product](u)

	exists, err := repo.Exists(ctx, p.ID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("catalog.update", "product not found")
	}

	repo.Update(p)

	ok, err := u.Complete(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Storef("catalog.update", "product not updated")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	u := s.uow()
	repo := store.Repo[*domain.Product](u)

	p, ok, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("catalog.delete", "product not found")
	}

	repo.Remove(p)

	done, err := u.Complete(ctx)
	if err != nil {
		return err
	}
	if !done {
		return apperr.Storef("catalog.delete", "product not deleted")
	}
	return nil
}

// Product and DeliveryMethod are the point lookups other contexts consume;
// absence is reported in the result, not as an error.
func (s *Service) Product(ctx context.Context, id int) (*domain.Product, bool, error) {
	return store.Repo[*domain.Product](s.uow()).GetByID(ctx, id)
}

func (s *Service) DeliveryMethod(ctx context.Context, id int) (*domain.DeliveryMethod, bool, error) {
	return store.Repo[*domain.DeliveryMethod](s.uow()).GetByID(ctx, id)
}

func (s *Service) Brands(ctx context.Context) ([]string, error) {
	repo := store.Repo[*domain.Product](s.uow())
	return store.ListProjected(ctx, repo, domain.BrandList())
}

func (s *Service) Types(ctx context.Context) ([]string, error) {
	repo := store.Repo[*domain.Product](s.uow())
	return store.ListProjected(ctx, repo, domain.TypeList())
}

func (s *Service) DeliveryMethods(ctx context.Context) ([]*domain.DeliveryMethod, error) {
	repo := store.Repo[*domain.DeliveryMethod](s.uow())
	return repo.ListWithSpec(ctx, domain.DeliveryMethodsByPrice())
}
