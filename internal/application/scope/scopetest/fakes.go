// Package scopetest provides in-memory repository fakes and a pre-wired
// transaction scope for application-layer tests. The fakes keep aggregates in
// maps, hand out copies so mutations only stick after Save, and honor the
// repository contracts the services rely on (expiry ordering, classification
// refresh on load, optimistic locking).
package scopetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
)

// Fixture bundles the fakes behind one transaction scope
type Fixture struct {
	Locations    *LocationRepo
	StockItems   *StockItemRepo
	Thresholds   *ThresholdRepo
	Consignments *ConsignmentRepo
	Allocations  *AllocationRepo
	Adjustments  *AdjustmentRepo
	Movements    *MovementRepo
	Restocks     *RestockRepo
	Products     *ProductCatalog
	Publisher    *CapturingPublisher
	Scope        *scope.NoOpTransactionScope
}

// NewFixture wires fresh fakes into a no-op transaction scope
func NewFixture() *Fixture {
	f := &Fixture{
		Locations:    NewLocationRepo(),
		StockItems:   NewStockItemRepo(),
		Thresholds:   NewThresholdRepo(),
		Consignments: NewConsignmentRepo(),
		Allocations:  NewAllocationRepo(),
		Adjustments:  NewAdjustmentRepo(),
		Movements:    NewMovementRepo(),
		Restocks:     NewRestockRepo(),
		Products:     NewProductCatalog(),
		Publisher:    NewCapturingPublisher(),
	}
	f.Scope = &scope.NoOpTransactionScope{
		LocationRepo:    f.Locations,
		StockItemRepo:   f.StockItems,
		ThresholdRepo:   f.Thresholds,
		ConsignmentRepo: f.Consignments,
		AllocationRepo:  f.Allocations,
		AdjustmentRepo:  f.Adjustments,
		MovementRepo:    f.Movements,
		RestockRepo:     f.Restocks,
		Publisher:       f.Publisher,
	}
	return f
}

// CapturingPublisher records every published event
type CapturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

// NewCapturingPublisher creates a new CapturingPublisher
func NewCapturingPublisher() *CapturingPublisher {
	return &CapturingPublisher{}
}

// Publish records the events, or fails when Err is set
func (p *CapturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, events...)
	return nil
}

// Events returns a copy of the recorded events
func (p *CapturingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsByType returns the recorded events of one type
func (p *CapturingPublisher) EventsByType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, 0)
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the recorded events
func (p *CapturingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// LocationRepo is an in-memory location.LocationRepository
type LocationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]location.Location
	// Err fails every call when set, for exercising persistence failures
	Err error
}

// NewLocationRepo creates an empty LocationRepo
func NewLocationRepo() *LocationRepo {
	return &LocationRepo{items: make(map[uuid.UUID]location.Location)}
}

func (r *LocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	loc, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &loc, nil
}

func (r *LocationRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.Location, error) {
	loc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return loc, nil
}

func (r *LocationRepo) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, loc := range r.items {
		if loc.TenantID == tenantID && loc.Barcode == barcode {
			out := loc
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *LocationRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, loc := range r.items {
		if loc.TenantID == tenantID && loc.Code == code {
			out := loc
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *LocationRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]location.Location, 0, len(ids))
	for _, id := range ids {
		if loc, ok := r.items[id]; ok && loc.TenantID == tenantID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (r *LocationRepo) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]location.Location, 0)
	for _, loc := range r.items {
		if loc.TenantID == tenantID && loc.ParentLocationID != nil && *loc.ParentLocationID == parentID {
			out = append(out, loc)
		}
	}
	sortLocations(out)
	return out, nil
}

func (r *LocationRepo) FindByType(ctx context.Context, tenantID uuid.UUID, locationType location.LocationType, filter shared.Filter) ([]location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]location.Location, 0)
	for _, loc := range r.items {
		if loc.TenantID == tenantID && loc.Type == locationType {
			out = append(out, loc)
		}
	}
	sortLocations(out)
	return out, nil
}

func (r *LocationRepo) FindAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]location.Location, 0)
	for _, loc := range r.items {
		if loc.TenantID != tenantID || !loc.IsBin() {
			continue
		}
		if loc.Status != location.LocationStatusAvailable && loc.Status != location.LocationStatusReserved {
			continue
		}
		out = append(out, loc)
	}
	sortLocations(out)
	return out, nil
}

func (r *LocationRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]location.Location, 0)
	for _, loc := range r.items {
		if loc.TenantID == tenantID {
			out = append(out, loc)
		}
	}
	sortLocations(out)
	return out, nil
}

func (r *LocationRepo) Save(ctx context.Context, loc *location.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *loc
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[loc.ID] = stored
	loc.MarkPersisted()
	return nil
}

func (r *LocationRepo) SaveWithLock(ctx context.Context, loc *location.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing, ok := r.items[loc.ID]
	if !ok || existing.Version != loc.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	stored := *loc
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[loc.ID] = stored
	loc.MarkPersisted()
	return nil
}

func (r *LocationRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	locs, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(locs)), nil
}

func (r *LocationRepo) ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	_, err := r.FindByBarcode(ctx, tenantID, barcode)
	if err == nil {
		return true, nil
	}
	if err == shared.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (r *LocationRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, tenantID, code)
	if err == nil {
		return true, nil
	}
	if err == shared.ErrNotFound {
		return false, nil
	}
	return false, err
}

func sortLocations(locs []location.Location) {
	sort.Slice(locs, func(i, j int) bool { return locs[i].Barcode < locs[j].Barcode })
}

// StockItemRepo is an in-memory stock.StockItemRepository. Loaded items get
// their classification refreshed against Now, matching the repository
// contract.
type StockItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]stock.StockItem
	Now   func() time.Time
	Err   error
}

// NewStockItemRepo creates an empty StockItemRepo
func NewStockItemRepo() *StockItemRepo {
	return &StockItemRepo{items: make(map[uuid.UUID]stock.StockItem), Now: time.Now}
}

func (r *StockItemRepo) load(id uuid.UUID) (stock.StockItem, bool) {
	item, ok := r.items[id]
	if ok {
		item.RefreshClassification(r.Now())
	}
	return item, ok
}

func (r *StockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	item, ok := r.load(id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *StockItemRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockItem, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *StockItemRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.load(id); ok && item.TenantID == tenantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *StockItemRepo) filtered(tenantID uuid.UUID, keep func(stock.StockItem) bool) []stock.StockItem {
	out := make([]stock.StockItem, 0)
	for id := range r.items {
		item, _ := r.load(id)
		if item.TenantID == tenantID && keep(item) {
			out = append(out, item)
		}
	}
	sortByExpiry(out)
	return out
}

func (r *StockItemRepo) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.ProductID == productID }), nil
}

func (r *StockItemRepo) FindByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool {
		return i.ProductID == productID && i.LocationID != nil && *i.LocationID == locationID
	}), nil
}

func (r *StockItemRepo) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool {
		return i.LocationID != nil && *i.LocationID == locationID
	}), nil
}

func (r *StockItemRepo) FindByConsignment(ctx context.Context, tenantID, consignmentID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.ConsignmentID == consignmentID }), nil
}

func (r *StockItemRepo) FindByClassification(ctx context.Context, tenantID uuid.UUID, classification stock.Classification, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.Classification == classification }), nil
}

func (r *StockItemRepo) FindUnassigned(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.LocationID == nil }), nil
}

func (r *StockItemRepo) FindPickable(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool {
		if i.ProductID != productID || !i.CanBePicked() {
			return false
		}
		if locationID != nil {
			return i.LocationID != nil && *i.LocationID == *locationID
		}
		return true
	}), nil
}

func (r *StockItemRepo) FindExpiringWithin(ctx context.Context, tenantID uuid.UUID, withinDays int, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	now := r.Now()
	return r.filtered(tenantID, func(i stock.StockItem) bool {
		if i.ExpirationDate == nil {
			return false
		}
		days := stock.DaysUntil(*i.ExpirationDate, now)
		return days >= 0 && days <= withinDays
	}), nil
}

func (r *StockItemRepo) FindExpired(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.IsExpired() }), nil
}

func (r *StockItemRepo) FindWithExpiration(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(i stock.StockItem) bool { return i.ExpirationDate != nil }), nil
}

func (r *StockItemRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(stock.StockItem) bool { return true }), nil
}

func (r *StockItemRepo) Save(ctx context.Context, item *stock.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *item
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[item.ID] = stored
	item.MarkPersisted()
	return nil
}

func (r *StockItemRepo) SaveWithLock(ctx context.Context, item *stock.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing, ok := r.items[item.ID]
	if !ok || existing.Version != item.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	stored := *item
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[item.ID] = stored
	item.MarkPersisted()
	return nil
}

func (r *StockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.items, id)
	return nil
}

func (r *StockItemRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if item, ok := r.items[id]; ok && item.TenantID == tenantID {
		delete(r.items, id)
		return nil
	}
	return shared.ErrNotFound
}

func (r *StockItemRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	items, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (r *StockItemRepo) CountByClassification(ctx context.Context, tenantID uuid.UUID, classification stock.Classification) (int64, error) {
	items, err := r.FindByClassification(ctx, tenantID, classification, shared.Filter{})
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (r *StockItemRepo) SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	items, err := r.FindByProduct(ctx, tenantID, productID, shared.Filter{})
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Quantity)
	}
	return sum, nil
}

func (r *StockItemRepo) SumQuantityByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	items, err := r.FindByProductAndLocation(ctx, tenantID, productID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Quantity)
	}
	return sum, nil
}

func sortByExpiry(items []stock.StockItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].ExpirationDate, items[j].ExpirationDate
		if a != nil && b != nil {
			if !a.Equal(*b) {
				return a.Before(*b)
			}
			return items[i].ID.String() < items[j].ID.String()
		}
		if a != nil {
			return true
		}
		if b != nil {
			return false
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// ThresholdRepo is an in-memory stock.StockThresholdRepository
type ThresholdRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]stock.StockThreshold
	Err   error
}

// NewThresholdRepo creates an empty ThresholdRepo
func NewThresholdRepo() *ThresholdRepo {
	return &ThresholdRepo{items: make(map[uuid.UUID]stock.StockThreshold)}
}

func (r *ThresholdRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockThreshold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (r *ThresholdRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockThreshold, error) {
	t, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *ThresholdRepo) FindByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*stock.StockThreshold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, t := range r.items {
		if t.TenantID != tenantID || t.ProductID != productID {
			continue
		}
		if (t.LocationID == nil) != (locationID == nil) {
			continue
		}
		if t.LocationID == nil || *t.LocationID == *locationID {
			out := t
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *ThresholdRepo) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]stock.StockThreshold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockThreshold, 0)
	for _, t := range r.items {
		if t.TenantID == tenantID && t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ThresholdRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockThreshold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockThreshold, 0)
	for _, t := range r.items {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ThresholdRepo) Save(ctx context.Context, threshold *stock.StockThreshold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *threshold
	stored.ClearDomainEvents()
	r.items[threshold.ID] = stored
	return nil
}

func (r *ThresholdRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.items, id)
	return nil
}

func (r *ThresholdRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if t, ok := r.items[id]; ok && t.TenantID == tenantID {
		delete(r.items, id)
		return nil
	}
	return shared.ErrNotFound
}

func (r *ThresholdRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	ts, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(ts)), nil
}

// ConsignmentRepo is an in-memory stock.ConsignmentRepository
type ConsignmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]stock.Consignment
	Err   error
}

// NewConsignmentRepo creates an empty ConsignmentRepo
func NewConsignmentRepo() *ConsignmentRepo {
	return &ConsignmentRepo{items: make(map[uuid.UUID]stock.Consignment)}
}

func (r *ConsignmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.Consignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *ConsignmentRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.Consignment, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *ConsignmentRepo) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*stock.Consignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.items {
		if c.TenantID == tenantID && c.Reference == reference {
			out := c
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *ConsignmentRepo) FindByStatus(ctx context.Context, tenantID uuid.UUID, status stock.ConsignmentStatus, filter shared.Filter) ([]stock.Consignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.Consignment, 0)
	for _, c := range r.items {
		if c.TenantID == tenantID && c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ConsignmentRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Consignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.Consignment, 0)
	for _, c := range r.items {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ConsignmentRepo) Save(ctx context.Context, consignment *stock.Consignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *consignment
	stored.ClearDomainEvents()
	r.items[consignment.ID] = stored
	return nil
}

func (r *ConsignmentRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	cs, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(cs)), nil
}

func (r *ConsignmentRepo) ExistsByReference(ctx context.Context, tenantID uuid.UUID, reference string) (bool, error) {
	_, err := r.FindByReference(ctx, tenantID, reference)
	if err == nil {
		return true, nil
	}
	if err == shared.ErrNotFound {
		return false, nil
	}
	return false, err
}

// AllocationRepo is an in-memory stock.StockAllocationRepository
type AllocationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]stock.StockAllocation
	Err   error
}

// NewAllocationRepo creates an empty AllocationRepo
func NewAllocationRepo() *AllocationRepo {
	return &AllocationRepo{items: make(map[uuid.UUID]stock.StockAllocation)}
}

func (r *AllocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r *AllocationRepo) FindByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]stock.StockAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAllocation, 0)
	for _, a := range r.items {
		if a.StockItemID == stockItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) FindActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]stock.StockAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAllocation, 0)
	for _, a := range r.items {
		if a.StockItemID == stockItemID && a.Status == stock.AllocationStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]stock.StockAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAllocation, 0)
	for _, a := range r.items {
		if a.TenantID == tenantID && a.Reference == reference {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) Save(ctx context.Context, allocation *stock.StockAllocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *allocation
	stored.ClearDomainEvents()
	r.items[allocation.ID] = stored
	return nil
}

func (r *AllocationRepo) SumActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error) {
	active, err := r.FindActiveByStockItem(ctx, stockItemID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, a := range active {
		sum = sum.Add(a.Quantity)
	}
	return sum, nil
}

// AdjustmentRepo is an in-memory stock.StockAdjustmentRepository
type AdjustmentRepo struct {
	mu    sync.Mutex
	items []stock.StockAdjustment
	Err   error
}

// NewAdjustmentRepo creates an empty AdjustmentRepo
func NewAdjustmentRepo() *AdjustmentRepo {
	return &AdjustmentRepo{}
}

func (r *AdjustmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, a := range r.items {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *AdjustmentRepo) FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]stock.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAdjustment, 0)
	for _, a := range r.items {
		if a.StockItemID == stockItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AdjustmentRepo) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAdjustment, 0)
	for _, a := range r.items {
		if a.TenantID == tenantID && !a.CreatedAt.Before(start) && !a.CreatedAt.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AdjustmentRepo) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]stock.StockAdjustment, 0)
	for _, a := range r.items {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AdjustmentRepo) Create(ctx context.Context, adjustment *stock.StockAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *adjustment
	stored.ClearDomainEvents()
	r.items = append(r.items, stored)
	return nil
}

func (r *AdjustmentRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	as, err := r.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(as)), nil
}

// MovementRepo is an in-memory movement.StockMovementRepository
type MovementRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]movement.StockMovement
	Err   error
}

// NewMovementRepo creates an empty MovementRepo
func NewMovementRepo() *MovementRepo {
	return &MovementRepo{items: make(map[uuid.UUID]movement.StockMovement)}
}

func (r *MovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *MovementRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*movement.StockMovement, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (r *MovementRepo) filtered(tenantID uuid.UUID, keep func(movement.StockMovement) bool) []movement.StockMovement {
	out := make([]movement.StockMovement, 0)
	for _, m := range r.items {
		if m.TenantID == tenantID && keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InitiatedAt.Before(out[j].InitiatedAt) })
	return out
}

func (r *MovementRepo) FindByStockItem(ctx context.Context, tenantID, stockItemID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(m movement.StockMovement) bool { return m.StockItemID == stockItemID }), nil
}

func (r *MovementRepo) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(m movement.StockMovement) bool {
		return m.SourceLocationID == locationID || m.DestinationLocationID == locationID
	}), nil
}

func (r *MovementRepo) FindByStatus(ctx context.Context, tenantID uuid.UUID, status movement.MovementStatus, filter shared.Filter) ([]movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(m movement.StockMovement) bool { return m.Status == status }), nil
}

func (r *MovementRepo) FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	return r.FindByStatus(ctx, tenantID, movement.MovementStatusInitiated, filter)
}

func (r *MovementRepo) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(m movement.StockMovement) bool {
		return !m.InitiatedAt.Before(start) && !m.InitiatedAt.After(end)
	}), nil
}

func (r *MovementRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filtered(tenantID, func(movement.StockMovement) bool { return true }), nil
}

func (r *MovementRepo) Save(ctx context.Context, m *movement.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *m
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[m.ID] = stored
	m.MarkPersisted()
	return nil
}

func (r *MovementRepo) SaveWithLock(ctx context.Context, m *movement.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing, ok := r.items[m.ID]
	if !ok || existing.Version != m.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	stored := *m
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[m.ID] = stored
	m.MarkPersisted()
	return nil
}

func (r *MovementRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	ms, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(ms)), nil
}

func (r *MovementRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID, status movement.MovementStatus) (int64, error) {
	ms, err := r.FindByStatus(ctx, tenantID, status, shared.Filter{})
	if err != nil {
		return 0, err
	}
	return int64(len(ms)), nil
}

// RestockRepo is an in-memory restock.RestockRequestRepository
type RestockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]restock.RestockRequest
	Err   error
}

// NewRestockRepo creates an empty RestockRepo
func NewRestockRepo() *RestockRepo {
	return &RestockRepo{items: make(map[uuid.UUID]restock.RestockRequest)}
}

func (r *RestockRepo) FindByID(ctx context.Context, id uuid.UUID) (*restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	req, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &req, nil
}

func (r *RestockRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*restock.RestockRequest, error) {
	req, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return req, nil
}

func (r *RestockRepo) FindActiveByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, req := range r.items {
		if req.TenantID != tenantID || req.ProductID != productID || !req.IsActive() {
			continue
		}
		if (req.LocationID == nil) != (locationID == nil) {
			continue
		}
		if req.LocationID == nil || *req.LocationID == *locationID {
			out := req
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *RestockRepo) FindByStatus(ctx context.Context, tenantID uuid.UUID, status restock.RestockStatus, filter shared.Filter) ([]restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]restock.RestockRequest, 0)
	for _, req := range r.items {
		if req.TenantID == tenantID && req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *RestockRepo) FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	out, err := r.FindByStatus(ctx, tenantID, restock.RestockStatusPending, filter)
	if err != nil {
		return nil, err
	}
	rank := map[restock.RestockPriority]int{
		restock.RestockPriorityHigh:   0,
		restock.RestockPriorityMedium: 1,
		restock.RestockPriorityLow:    2,
	}
	sort.SliceStable(out, func(i, j int) bool {
		if rank[out[i].Priority] != rank[out[j].Priority] {
			return rank[out[i].Priority] < rank[out[j].Priority]
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RestockRepo) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]restock.RestockRequest, 0)
	for _, req := range r.items {
		if req.TenantID == tenantID && req.ProductID == productID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *RestockRepo) FindByOrderReference(ctx context.Context, tenantID uuid.UUID, orderReference string) (*restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, req := range r.items {
		if req.TenantID == tenantID && req.OrderReference == orderReference {
			out := req
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *RestockRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]restock.RestockRequest, 0)
	for _, req := range r.items {
		if req.TenantID == tenantID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *RestockRepo) Save(ctx context.Context, req *restock.RestockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored := *req
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[req.ID] = stored
	req.MarkPersisted()
	return nil
}

func (r *RestockRepo) SaveWithLock(ctx context.Context, req *restock.RestockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing, ok := r.items[req.ID]
	if !ok || existing.Version != req.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	stored := *req
	stored.ClearDomainEvents()
	stored.MarkPersisted()
	r.items[req.ID] = stored
	req.MarkPersisted()
	return nil
}

func (r *RestockRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	reqs, err := r.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(reqs)), nil
}

func (r *RestockRepo) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	reqs, err := r.FindAllForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return 0, err
	}
	var n int64
	for _, req := range reqs {
		if req.IsActive() {
			n++
		}
	}
	return n, nil
}

// ProductCatalog is an in-memory stock.ProductCatalog. Register metadata
// with Add; set Err to simulate an unreachable catalog.
type ProductCatalog struct {
	mu       sync.Mutex
	products map[uuid.UUID]stock.ProductMetadata
	Err      error
}

// NewProductCatalog creates an empty ProductCatalog
func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{products: make(map[uuid.UUID]stock.ProductMetadata)}
}

// Add registers catalog metadata for a product
func (c *ProductCatalog) Add(meta stock.ProductMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[meta.ProductID] = meta
}

func (c *ProductCatalog) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*stock.ProductMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	meta, ok := c.products[productID]
	if !ok {
		return nil, nil
	}
	out := meta
	return &out, nil
}

func (c *ProductCatalog) GetProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*stock.ProductMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	out := make(map[uuid.UUID]*stock.ProductMetadata, len(productIDs))
	for _, id := range productIDs {
		if meta, ok := c.products[id]; ok {
			m := meta
			out[id] = &m
		}
	}
	return out, nil
}

// Interface assertions
var (
	_ location.LocationRepository      = (*LocationRepo)(nil)
	_ stock.StockItemRepository        = (*StockItemRepo)(nil)
	_ stock.StockThresholdRepository   = (*ThresholdRepo)(nil)
	_ stock.ConsignmentRepository      = (*ConsignmentRepo)(nil)
	_ stock.StockAllocationRepository  = (*AllocationRepo)(nil)
	_ stock.StockAdjustmentRepository  = (*AdjustmentRepo)(nil)
	_ movement.StockMovementRepository = (*MovementRepo)(nil)
	_ restock.RestockRequestRepository = (*RestockRepo)(nil)
	_ stock.ProductCatalog             = (*ProductCatalog)(nil)
	_ shared.EventPublisher            = (*CapturingPublisher)(nil)
)
