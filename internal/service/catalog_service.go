package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/authz"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// Sort directions accepted by FilterAndSort.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// CatalogItemInput carries the editable fields of a catalog item.
type CatalogItemInput struct {
	Article      string
	Name         string
	Unit         string
	Price        decimal.Decimal
	Discount     *decimal.Decimal
	Count        int
	Provider     *string
	Manufacturer *string
	Category     *string
	Description  *string
	Image        *string
}

// FilterOptions narrows and orders the catalog listing.
type FilterOptions struct {
	// Provider is an exact-match filter; empty means any provider.
	Provider string
	// Sort orders by stock count: SortAsc, SortDesc, or empty for store order.
	Sort string
	// Query is a whitespace-separated list of search tokens.
	Query string
}

// CatalogService manages catalog items, their search and their prices.
type CatalogService interface {
	GetAll(ctx context.Context) ([]*domain.CatalogItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error)

	// Search matches query against the text fields of every item. Manager or Admin only.
	Search(ctx context.Context, query string, acct *domain.Account) ([]*domain.CatalogItem, error)

	// FilterAndSort applies provider, token and sort options. Manager or Admin only.
	FilterAndSort(ctx context.Context, opts FilterOptions, acct *domain.Account) ([]*domain.CatalogItem, error)

	Create(ctx context.Context, in CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error)
	Update(ctx context.Context, item *domain.CatalogItem, acct *domain.Account) (*domain.CatalogItem, error)

	// UpdateByID replaces the fields of item id. A nil Image keeps the stored image.
	UpdateByID(ctx context.Context, id uuid.UUID, in CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error)

	// Delete removes an item that no order line references.
	Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error

	// AdjustStock sets the stock count of an item. It performs no authorization.
	AdjustStock(ctx context.Context, id uuid.UUID, newCount int) (*domain.CatalogItem, error)

	PriceWithDiscount(price decimal.Decimal, discount *decimal.Decimal) decimal.Decimal

	Providers(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Manufacturers(ctx context.Context) ([]string, error)
}

// CatalogServiceImpl implements CatalogService.
type CatalogServiceImpl struct {
	items  store.CatalogStore
	orders store.OrderStore
	logger *slog.Logger
}

var _ CatalogService = (*CatalogServiceImpl)(nil)

// NewCatalogService creates a CatalogService. orders is consulted before
// deleting an item.
func NewCatalogService(items store.CatalogStore, orders store.OrderStore, logger *slog.Logger) *CatalogServiceImpl {
	if items == nil || orders == nil {
		panic("catalog service requires item and order stores")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServiceImpl{
		items:  items,
		orders: orders,
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

func (s *CatalogServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// GetAll implements CatalogService.
func (s *CatalogServiceImpl) GetAll(ctx context.Context) ([]*domain.CatalogItem, error) {
	items, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list catalog items", err, "catalog item not found")
	}
	return items, nil
}

// GetByID implements CatalogService.
func (s *CatalogServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get catalog item", err,
			"catalog item "+id.String()+" not found")
	}
	return item, nil
}

// GetByArticle implements CatalogService.
func (s *CatalogServiceImpl) GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error) {
	item, err := s.items.GetByArticle(ctx, strings.TrimSpace(article))
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get catalog item", err,
			"catalog item with article "+article+" not found")
	}
	return item, nil
}

// Search implements CatalogService.
func (s *CatalogServiceImpl) Search(ctx context.Context, query string, acct *domain.Account) ([]*domain.CatalogItem, error) {
	if !authz.CanSearchCatalog(acct) {
		return nil, domain.Forbidden("only managers and administrators may search the catalog")
	}

	if strings.TrimSpace(query) == "" {
		return s.GetAll(ctx)
	}

	items, err := s.items.Search(ctx, query)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "search catalog", err, "catalog item not found")
	}
	return items, nil
}

// FilterAndSort implements CatalogService.
func (s *CatalogServiceImpl) FilterAndSort(ctx context.Context, opts FilterOptions, acct *domain.Account) ([]*domain.CatalogItem, error) {
	if !authz.CanSearchCatalog(acct) {
		return nil, domain.Forbidden("only managers and administrators may filter the catalog")
	}

	direction := strings.ToLower(strings.TrimSpace(opts.Sort))
	if direction != "" && direction != SortAsc && direction != SortDesc {
		return nil, domain.InvalidArgument("sort must be %q or %q", SortAsc, SortDesc)
	}

	all, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list catalog items", err, "catalog item not found")
	}

	matcher := newQueryMatcher(opts.Query)
	result := make([]*domain.CatalogItem, 0, len(all))
	for _, item := range all {
		if opts.Provider != "" && domain.StringValue(item.Provider) != opts.Provider {
			continue
		}
		if !matcher.matches(item) {
			continue
		}
		result = append(result, item)
	}

	if direction != "" {
		sortByCount(result, direction == SortDesc)
	}

	return result, nil
}

// sortByCount orders items by stock count, breaking ties by id in the same direction.
func sortByCount(items []*domain.CatalogItem, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Count != b.Count {
			if desc {
				return a.Count > b.Count
			}
			return a.Count < b.Count
		}
		c := strings.Compare(a.ID.String(), b.ID.String())
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// genderPrefix is a search token prefix that only matches the category.
type genderPrefix struct {
	prefix string
	// wordStart requires the prefix at the start of a category word
	// instead of anywhere in it, so "men" does not match "women".
	wordStart bool
}

var genderPrefixes = []genderPrefix{
	{prefix: "муж"},
	{prefix: "жен"},
	{prefix: "women", wordStart: true},
	{prefix: "men", wordStart: true},
}

func findGenderPrefix(token string) (genderPrefix, bool) {
	for _, g := range genderPrefixes {
		if strings.HasPrefix(token, g.prefix) {
			return g, true
		}
	}
	return genderPrefix{}, false
}

func (g genderPrefix) matchesCategory(category string) bool {
	if !g.wordStart {
		return strings.Contains(category, g.prefix)
	}
	for _, word := range strings.FieldsFunc(category, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if strings.HasPrefix(word, g.prefix) {
			return true
		}
	}
	return false
}

// queryMatcher holds a tokenized FilterAndSort query.
type queryMatcher struct {
	genders []genderPrefix
	terms   []string
}

func newQueryMatcher(query string) queryMatcher {
	var m queryMatcher
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if g, ok := findGenderPrefix(token); ok {
			m.genders = append(m.genders, g)
			continue
		}
		m.terms = append(m.terms, token)
	}
	return m
}

// matches reports whether every gender token matches the category and
// every other token matches the name or the category.
func (m queryMatcher) matches(item *domain.CatalogItem) bool {
	name := strings.ToLower(item.Name)
	category := strings.ToLower(domain.StringValue(item.Category))

	for _, g := range m.genders {
		if !g.matchesCategory(category) {
			return false
		}
	}
	for _, term := range m.terms {
		if !strings.Contains(name, term) && !strings.Contains(category, term) {
			return false
		}
	}
	return true
}

func itemFromInput(id uuid.UUID, in CatalogItemInput) *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:           id,
		Article:      strings.TrimSpace(in.Article),
		Name:         strings.TrimSpace(in.Name),
		Unit:         strings.TrimSpace(in.Unit),
		Price:        in.Price,
		Discount:     in.Discount,
		Count:        in.Count,
		Provider:     in.Provider,
		Manufacturer: in.Manufacturer,
		Category:     in.Category,
		Description:  in.Description,
		Image:        in.Image,
	}
}

// Create implements CatalogService.
func (s *CatalogServiceImpl) Create(ctx context.Context, in CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error) {
	if _, err := authz.RequireAdmin(acct, "create catalog items"); err != nil {
		return nil, err
	}

	item := itemFromInput(uuid.New(), in)
	if err := item.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, classifyStoreError(s.log(ctx), "create catalog item", err, "catalog item not found")
	}

	s.log(ctx).Info("catalog item created",
		slog.String("item_id", item.ID.String()),
		slog.String("article", item.Article))
	return item, nil
}

// Update implements CatalogService.
func (s *CatalogServiceImpl) Update(ctx context.Context, item *domain.CatalogItem, acct *domain.Account) (*domain.CatalogItem, error) {
	if _, err := authz.RequireAdmin(acct, "edit catalog items"); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.InvalidArgument("item is required")
	}

	return s.save(ctx, item)
}

// UpdateByID implements CatalogService.
func (s *CatalogServiceImpl) UpdateByID(ctx context.Context, id uuid.UUID, in CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error) {
	if _, err := authz.RequireAdmin(acct, "edit catalog items"); err != nil {
		return nil, err
	}

	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get catalog item", err,
			"catalog item "+id.String()+" not found")
	}

	item := itemFromInput(id, in)
	if item.Image == nil {
		item.Image = existing.Image
	}

	return s.save(ctx, item)
}

func (s *CatalogServiceImpl) save(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	if err := item.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, classifyStoreError(s.log(ctx), "update catalog item", err,
			"catalog item "+item.ID.String()+" not found")
	}

	s.log(ctx).Info("catalog item updated", slog.String("item_id", item.ID.String()))
	return item, nil
}

// Delete implements CatalogService.
func (s *CatalogServiceImpl) Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error {
	if _, err := authz.RequireAdmin(acct, "delete catalog items"); err != nil {
		return err
	}

	log := s.log(ctx)
	notFound := "catalog item " + id.String() + " not found"

	if _, err := s.items.GetByID(ctx, id); err != nil {
		return classifyStoreError(log, "get catalog item", err, notFound)
	}

	referenced, err := s.orders.IsItemReferenced(ctx, id)
	if err != nil {
		return classifyStoreError(log, "check item references", err, notFound)
	}
	if referenced {
		return domain.Conflict("item referenced by an order cannot be deleted")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return classifyStoreError(log, "delete catalog item", err, notFound)
	}

	log.Info("catalog item deleted", slog.String("item_id", id.String()))
	return nil
}

// AdjustStock implements CatalogService.
func (s *CatalogServiceImpl) AdjustStock(ctx context.Context, id uuid.UUID, newCount int) (*domain.CatalogItem, error) {
	if newCount < 0 {
		return nil, domain.InvalidArgument("count cannot be negative")
	}

	notFound := "catalog item " + id.String() + " not found"
	if err := s.items.UpdateCount(ctx, id, newCount); err != nil {
		return nil, classifyStoreError(s.log(ctx), "update stock count", err, notFound)
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get catalog item", err, notFound)
	}
	return item, nil
}

// PriceWithDiscount implements CatalogService.
func (s *CatalogServiceImpl) PriceWithDiscount(price decimal.Decimal, discount *decimal.Decimal) decimal.Decimal {
	return domain.PriceWithDiscount(price, discount)
}

// Providers implements CatalogService.
func (s *CatalogServiceImpl) Providers(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "list providers", s.items.DistinctProviders)
}

// Categories implements CatalogService.
func (s *CatalogServiceImpl) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "list categories", s.items.DistinctCategories)
}

// Manufacturers implements CatalogService.
func (s *CatalogServiceImpl) Manufacturers(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "list manufacturers", s.items.DistinctManufacturers)
}

func (s *CatalogServiceImpl) distinct(ctx context.Context, op string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	values, err := fetch(ctx)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), op, err, "no values found")
	}
	sort.Strings(values)
	return values, nil
}
