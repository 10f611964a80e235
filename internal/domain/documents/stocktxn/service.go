package stocktxn

import (
	"context"
	"time"

	"bakeops/internal/core/apperror"
	appctx "bakeops/internal/core/context"
	"bakeops/internal/core/id"
	"bakeops/internal/core/tx"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/registers/inventory"
	"bakeops/pkg/logger"
	"bakeops/pkg/numerator"
)

// ProductResolver maps a product choice (id or name) within a type to the
// full catalog entry. Implemented by the product catalog service.
type ProductResolver interface {
	Resolve(ctx context.Context, productType product.Type, choice string) (*product.Product, error)
}

// Register applies committed movements to the balance register.
// Implemented by the inventory service.
type Register interface {
	CheckAvailability(ctx context.Context, key inventory.Key, required types.Quantity) (*inventory.Balance, error)
	Increase(ctx context.Context, key inventory.Key, qty types.Quantity) error
	Decrease(ctx context.Context, key inventory.Key, qty types.Quantity) error
}

// CommitListener is notified after a stock transaction commits.
// Listeners are registered explicitly at wiring time; the pipeline never
// discovers them by convention.
//
// Listener errors are logged and absorbed: a committed movement stands
// regardless of what downstream consumers do with it.
type CommitListener interface {
	// Name identifies the listener in logs.
	Name() string

	// OnStockCommitted receives the committed movement and the resolved
	// catalog entry it was recorded against.
	OnStockCommitted(ctx context.Context, txn *StockTransaction, p *product.Product) error
}

// RecordInput carries one stock movement request.
type RecordInput struct {
	BranchID    id.ID
	ProductType product.Type

	// ProductChoice is a catalog entry id or name within ProductType.
	ProductChoice string

	Direction Direction
	Quantity  types.Quantity
	Note      *string
}

// Service runs the stock movement pipeline: resolve, validate, commit,
// notify.
type Service struct {
	repo      Repository
	products  ProductResolver
	register  Register
	txm       tx.Manager
	numerator numerator.Generator

	listeners []CommitListener
}

// NewService creates a new stock transaction service.
func NewService(
	repo Repository,
	products ProductResolver,
	register Register,
	txm tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		register:  register,
		txm:       txm,
		numerator: gen,
	}
}

// Subscribe registers a commit listener. Not safe for concurrent use;
// call during wiring, before the service handles requests.
func (s *Service) Subscribe(l CommitListener) {
	s.listeners = append(s.listeners, l)
}

// Record validates and commits one stock movement.
//
// The write path runs in a single transaction: for stock-out the balance
// row is locked and checked first, so a movement that would overdraw the
// balance is rejected before anything is written. Validation failures
// leave both the log and the register untouched.
func (s *Service) Record(ctx context.Context, input RecordInput) (*StockTransaction, error) {
	p, err := s.products.Resolve(ctx, input.ProductType, input.ProductChoice)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnresolvedProduct(string(input.ProductType), input.ProductChoice)
		}
		return nil, err
	}

	txn := &StockTransaction{
		ID:          id.New(),
		BranchID:    input.BranchID,
		ProductType: input.ProductType,
		ProductID:   p.ID,
		ProductName: p.Name,
		Direction:   input.Direction,
		Quantity:    input.Quantity,
		Note:        input.Note,
		CreatedBy:   appctx.GetUserID(ctx),
		CreatedAt:   time.Now().UTC(),
	}

	if err := txn.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ST"), nil, txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	txn.Number = number

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		key := txn.BalanceKey()

		if txn.Direction == DirectionOut {
			if _, err := s.register.CheckAvailability(ctx, key, txn.Quantity); err != nil {
				return err
			}
		}

		if err := s.repo.Insert(ctx, txn); err != nil {
			return err
		}

		if txn.Direction == DirectionIn {
			return s.register.Increase(ctx, key, txn.Quantity)
		}
		return s.register.Decrease(ctx, key, txn.Quantity)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transaction committed",
		"number", txn.Number,
		"branch_id", txn.BranchID,
		"product", txn.ProductName,
		"direction", txn.Direction,
		"quantity", txn.Quantity,
	)

	s.notify(ctx, txn, p)

	return txn, nil
}

// notify delivers the committed movement to every listener.
// A failing listener does not affect the movement or other listeners.
func (s *Service) notify(ctx context.Context, txn *StockTransaction, p *product.Product) {
	for _, l := range s.listeners {
		if err := l.OnStockCommitted(ctx, txn, p); err != nil {
			logger.Error(ctx, "commit listener failed",
				"listener", l.Name(),
				"number", txn.Number,
				"error", err,
			)
		}
	}
}

// GetByID retrieves one movement from the log.
func (s *Service) GetByID(ctx context.Context, txnID id.ID) (*StockTransaction, error) {
	return s.repo.GetByID(ctx, txnID)
}

// List returns movements matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*StockTransaction, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Count returns the number of movements matching the filter.
func (s *Service) Count(ctx context.Context, filter Filter) (int64, error) {
	return s.repo.Count(ctx, filter)
}
