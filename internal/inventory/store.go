package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"estoque/internal/adapter"
	"estoque/internal/domain"
	"estoque/internal/errors"
)

// Store owns the in-memory product collection. Every mutation is applied to
// the snapshot under the lock and then handed to the write-behind persister;
// the snapshot is the source of truth for all subsequent reads, the backend
// is a mirror that catches up asynchronously.
type Store struct {
	mu       sync.Mutex
	products []*domain.Product
	index    map[string]int

	// latest persist sequence enqueued per product; results for older
	// sequences must not overwrite the sync status.
	seq       uint64
	latestSeq map[string]uint64

	backend   adapter.Adapter
	persister *persister
	logger    *zap.Logger
	now       func() time.Time
}

func NewStore(backend adapter.Adapter, logger *zap.Logger, opts PersistOptions) *Store {
	s := &Store{
		products:  []*domain.Product{},
		index:     make(map[string]int),
		latestSeq: make(map[string]uint64),
		backend:   backend,
		logger:    logger,
		now:       time.Now,
	}
	s.persister = newPersister(backend, logger, opts, s.applySyncResult)
	return s
}

// Close drains and stops the write-behind persister.
func (s *Store) Close() {
	s.persister.Close()
}

// Load replaces the in-memory state wholesale with the backend's contents.
// An empty backend is seeded with the demo catalog, matching the behavior of
// first launch against empty device storage.
func (s *Store) Load(ctx context.Context) error {
	recs, err := s.backend.List(ctx)
	if err != nil {
		return errors.NewUnavailableError("loading products", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = s.products[:0]
	s.index = make(map[string]int)

	if len(recs) == 0 {
		for _, seeded := range seedProducts() {
			p := seeded.Clone()
			p.SyncStatus = domain.SyncPending
			s.appendLocked(p)
			s.enqueueLocked(opCreate, p)
		}
		s.logger.Info("backend empty, seeded demo catalog", zap.Int("count", len(s.products)))
		return nil
	}

	loaded := make([]*domain.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := productFromRecord(rec)
		if err != nil {
			return errors.NewInternalError("corrupt record in backend", err)
		}
		p.SyncStatus = domain.SyncSynced
		loaded = append(loaded, p)
	}
	// Backends do not guarantee listing order; keep the collection stable.
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].ID < loaded[j].ID })
	for _, p := range loaded {
		s.appendLocked(p)
	}

	s.logger.Info("catalog loaded", zap.Int("count", len(s.products)))
	return nil
}

// Products returns a deep-copied snapshot in insertion order.
func (s *Store) Products() []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// GetProductByID returns a copy of the product, or ok=false if absent.
func (s *Store) GetProductByID(id string) (*domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.products[i].Clone(), true
}

// AddProduct appends a new product. A missing id is synthesized from the
// clock, with retry on collision. Duplicate ids leave the collection
// unchanged.
func (s *Store) AddProduct(p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked("SKU%d")
	} else if _, exists := s.index[p.ID]; exists {
		return nil, errors.NewDuplicateIDError(p.ID)
	}

	if p.Variations == nil {
		p.Variations = []domain.Variation{}
	}
	if len(p.Variations) > 0 {
		p.Stock = p.VariationStockSum()
	}
	p.SyncStatus = domain.SyncPending

	stored := p.Clone()
	s.appendLocked(stored)
	s.enqueueLocked(opCreate, stored)
	return stored.Clone(), nil
}

// UpdateProduct shallow-merges the partial update into the matching product.
func (s *Store) UpdateProduct(id string, upd domain.ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", id))
	}

	p := s.products[i]
	upd.Apply(p)
	p.SyncStatus = domain.SyncPending
	s.enqueueLocked(opUpdate, p)
	return p.Clone(), nil
}

// AddVariation appends a variation to the parent's sequence. Price and image
// URL fall back to the parent's values when unset. The parent's stock is
// recomputed from the variation sum.
func (s *Store) AddVariation(productID string, v domain.Variation) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", productID))
	}
	p := s.products[i]

	if v.ID == "" {
		v.ID = s.nextVariationIDLocked(p)
	} else if p.HasVariation(v.ID) {
		return nil, errors.NewDuplicateIDError(v.ID)
	}

	if v.Price == 0 {
		v.Price = p.Price
	}
	if v.ImageURL == "" {
		v.ImageURL = p.ImageURL
	}

	p.Variations = append(p.Variations, v)
	p.Stock = p.VariationStockSum()
	p.SyncStatus = domain.SyncPending
	s.enqueueLocked(opUpdate, p)
	return p.Clone(), nil
}

// UpdateVariation shallow-merges the partial update into the matching
// variation and recomputes the parent's derived stock.
func (s *Store) UpdateVariation(productID, variationID string, upd domain.VariationUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", productID))
	}
	p := s.products[i]

	vi := -1
	for j := range p.Variations {
		if p.Variations[j].ID == variationID {
			vi = j
			break
		}
	}
	if vi < 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("variation %q not found on product %q", variationID, productID))
	}

	upd.Apply(&p.Variations[vi])
	p.Stock = p.VariationStockSum()
	p.SyncStatus = domain.SyncPending
	s.enqueueLocked(opUpdate, p)
	return p.Clone(), nil
}

// AdjustStock applies a stock delta, clamped at zero. With a variation id the
// delta hits the variation and the parent's stock is recomputed from the sum;
// without one the delta hits the parent directly (only meaningful for
// products without variations).
func (s *Store) AdjustStock(productID, variationID string, delta int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", productID))
	}
	p := s.products[i]

	if variationID != "" {
		vi := -1
		for j := range p.Variations {
			if p.Variations[j].ID == variationID {
				vi = j
				break
			}
		}
		if vi < 0 {
			return nil, errors.NewNotFoundError(fmt.Sprintf("variation %q not found on product %q", variationID, productID))
		}
		p.Variations[vi].Stock = clampStock(p.Variations[vi].Stock + delta)
		p.Stock = p.VariationStockSum()
	} else {
		p.Stock = clampStock(p.Stock + delta)
	}

	p.SyncStatus = domain.SyncPending
	s.enqueueLocked(opUpdate, p)
	return p.Clone(), nil
}

// DeleteProduct removes the product and its variations. Deleting an absent id
// is a no-op, matching the adapter's delete semantics.
func (s *Store) DeleteProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}

	s.products = append(s.products[:i], s.products[i+1:]...)
	delete(s.index, id)
	delete(s.latestSeq, id)
	for j := i; j < len(s.products); j++ {
		s.index[s.products[j].ID] = j
	}

	s.seq++
	s.persister.Enqueue(persistOp{kind: opDelete, id: id, seq: s.seq})
}

// DeleteVariation removes the variation from the parent's sequence and
// recomputes the parent's derived stock.
func (s *Store) DeleteVariation(productID, variationID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", productID))
	}
	p := s.products[i]

	vi := -1
	for j := range p.Variations {
		if p.Variations[j].ID == variationID {
			vi = j
			break
		}
	}
	if vi < 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("variation %q not found on product %q", variationID, productID))
	}

	p.Variations = append(p.Variations[:vi], p.Variations[vi+1:]...)
	if len(p.Variations) > 0 {
		p.Stock = p.VariationStockSum()
	} else {
		p.Stock = 0
	}
	p.SyncStatus = domain.SyncPending
	s.enqueueLocked(opUpdate, p)
	return p.Clone(), nil
}

func (s *Store) appendLocked(p *domain.Product) {
	s.index[p.ID] = len(s.products)
	s.products = append(s.products, p)
}

func (s *Store) enqueueLocked(kind opKind, p *domain.Product) {
	rec, err := productToRecord(p)
	if err != nil {
		// Products are plain data; this only fires on a programming error.
		s.logger.Error("encoding product for persistence", zap.String("productId", p.ID), zap.Error(err))
		p.SyncStatus = domain.SyncFailed
		return
	}

	s.seq++
	s.latestSeq[p.ID] = s.seq
	s.persister.Enqueue(persistOp{kind: kind, id: p.ID, seq: s.seq, rec: rec})
}

// applySyncResult is called from the persister goroutine once a write lands
// or is given up on. Results for superseded writes and deleted products are
// dropped.
func (s *Store) applySyncResult(id string, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestSeq[id] != seq {
		return
	}
	i, exists := s.index[id]
	if !exists {
		return
	}

	if ok {
		s.products[i].SyncStatus = domain.SyncSynced
	} else {
		s.products[i].SyncStatus = domain.SyncFailed
	}
}

func (s *Store) nextIDLocked(format string) string {
	millis := s.now().UnixMilli()
	for {
		id := fmt.Sprintf(format, millis)
		if _, exists := s.index[id]; !exists {
			return id
		}
		millis++
	}
}

func (s *Store) nextVariationIDLocked(p *domain.Product) string {
	millis := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-VAR%d", p.ID, millis)
		if !p.HasVariation(id) {
			return id
		}
		millis++
	}
}

func clampStock(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}
