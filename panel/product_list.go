package panel

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
)

const (
	actionLoadProducts  = "load products"
	actionSearchProduct = "search product"
)

// ProductList shows the products the session account currently owns.
type ProductList struct {
	base
	products []contract.Product
}

func NewProductList(env Env, sc session.Context) *ProductList {
	return &ProductList{base: newBase(env, sc, "products")}
}

func (p *ProductList) Products() []contract.Product {
	return append([]contract.Product(nil), p.products...)
}

// Load rediscovers the owned products and replaces the displayed set.
// Per token failures are dropped; Load itself only fails without a
// session.
func (p *ProductList) Load(ctx context.Context) error {
	return p.run(actionLoadProducts, func() error {
		if err := p.requireSession(); err != nil {
			return err
		}
		ids := p.discover(ctx)
		products := make([]contract.Product, 0, len(ids))
		for _, id := range ids {
			owner, err := p.contract.OwnerOf(ctx, id)
			if err != nil {
				p.logger.Warn("couldn't read owner", zap.Stringer("tokenId", id), zap.Error(err))
				continue
			}
			if owner != p.account() {
				p.logger.Debug("token no longer owned", zap.Stringer("tokenId", id), zap.String("owner", owner.Hex()))
				continue
			}
			product, err := p.fetch(ctx, id)
			if err != nil {
				p.logger.Warn("couldn't read product", zap.Stringer("tokenId", id), zap.Error(err))
				continue
			}
			products = append(products, product)
		}
		p.products = products
		return nil
	})
}

// discover lists candidate token ids, enumerating first and falling back
// to the Transfer history when enumeration yields nothing.
func (p *ProductList) discover(ctx context.Context) []*big.Int {
	ids := p.enumerate(ctx)
	if len(ids) == 0 {
		transfers, err := p.contract.TransfersTo(ctx, p.account())
		if err != nil {
			p.logger.Warn("couldn't scan transfers", zap.Error(err))
		}
		for _, t := range transfers {
			ids = append(ids, t.TokenID)
		}
	}
	return distinctIDs(ids)
}

// enumerate walks tokenOfOwnerByIndex and stops at the first failure,
// which means the contract does not support enumeration.
func (p *ProductList) enumerate(ctx context.Context) []*big.Int {
	balance, err := p.contract.BalanceOf(ctx, p.account())
	if err != nil {
		p.logger.Debug("balanceOf failed", zap.Error(err))
		return nil
	}
	var ids []*big.Int
	for i := big.NewInt(0); i.Cmp(balance) < 0; i = new(big.Int).Add(i, big.NewInt(1)) {
		id, err := p.contract.TokenOfOwnerByIndex(ctx, p.account(), i)
		if err != nil {
			p.logger.Debug("enumeration stopped", zap.Stringer("index", i), zap.Error(err))
			break
		}
		ids = append(ids, id)
	}
	return ids
}

// distinctIDs drops zero and repeated ids, keeping first seen order.
func distinctIDs(ids []*big.Int) []*big.Int {
	seen := map[string]bool{}
	var out []*big.Int
	for _, id := range ids {
		if pcommon.IsZero(id) {
			continue
		}
		key := id.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, id)
	}
	return out
}

// Search adds one product by id, provided the session account owns it.
func (p *ProductList) Search(ctx context.Context, idText string) error {
	return p.run(actionSearchProduct, func() error {
		if err := p.requireSession(); err != nil {
			return err
		}
		id, err := pcommon.ParsePositive("product ID", idText)
		if err != nil {
			return err
		}
		owner, err := p.contract.OwnerOf(ctx, id)
		if err != nil {
			return err
		}
		if owner != p.account() {
			return pcommon.Denied("This is not your product")
		}
		product, err := p.fetch(ctx, id)
		if err != nil {
			return err
		}
		for _, existing := range p.products {
			if existing.TokenID.Cmp(id) == 0 {
				return nil
			}
		}
		p.products = append(p.products, product)
		return nil
	})
}

func (p *ProductList) Show() {
	u := p.ui()
	u.Section("My Products")
	if len(p.products) == 0 {
		u.Info("You don't have any products yet")
		return
	}
	showProducts(u, p.products, p.env.Now())
}

// Find returns the displayed product with id, if any.
func (p *ProductList) Find(id *big.Int) (contract.Product, bool) {
	for _, product := range p.products {
		if product.TokenID.Cmp(id) == 0 {
			return product, true
		}
	}
	return contract.Product{}, false
}

// ShowDetails prints every field of a displayed product. It reports
// false when id is not displayed.
func (p *ProductList) ShowDetails(id *big.Int) bool {
	product, ok := p.Find(id)
	if !ok {
		return false
	}
	p.ui().Section("Product #" + id.String())
	showProduct(p.ui(), product, p.env.Now())
	return true
}
