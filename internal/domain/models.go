package domain

// Category is the fixed set of product groups the shop stocks.
type Category string

const (
	CategoryRod       Category = "ROD"
	CategoryReel      Category = "REEL"
	CategoryHook      Category = "HOOK"
	CategoryLine      Category = "LINE"
	CategoryBait      Category = "BAIT"
	CategoryAccessory Category = "ACCESSORY"
)

var categoryLabels = map[Category]string{
	CategoryRod:       "Rod",
	CategoryReel:      "Reel",
	CategoryHook:      "Hook",
	CategoryLine:      "Line",
	CategoryBait:      "Bait",
	CategoryAccessory: "Accessory",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryRod, CategoryReel, CategoryHook, CategoryLine, CategoryBait, CategoryAccessory}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Unit is a display label only; it never takes part in arithmetic.
type Unit string

const (
	UnitPiece    Unit = "PCS"
	UnitBox      Unit = "BOX"
	UnitPack     Unit = "PACK"
	UnitSet      Unit = "SET"
	UnitKilogram Unit = "KG"
)

var unitLabels = map[Unit]string{
	UnitPiece:    "Pcs",
	UnitBox:      "Box",
	UnitPack:     "Pack",
	UnitSet:      "Set",
	UnitKilogram: "Kg",
}

func Units() []Unit {
	return []Unit{UnitPiece, UnitBox, UnitPack, UnitSet, UnitKilogram}
}

func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

func (u Unit) Label() string {
	if l, ok := unitLabels[u]; ok {
		return l
	}
	return string(u)
}

// Product is a catalog entry. Prices are whole currency units.
type Product struct {
	ID            string   `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	SKU           string   `db:"sku" json:"sku"`
	Category      Category `db:"category" json:"category"`
	Unit          Unit     `db:"unit" json:"unit"`
	Stock         int      `db:"stock" json:"stock"`
	PriceBuy      int64    `db:"price_buy" json:"priceBuy"`
	PriceSell     int64    `db:"price_sell" json:"priceSell"`
	MinStockAlert int      `db:"min_stock_alert" json:"minStockAlert"`
	Description   string   `db:"description" json:"description,omitempty"`
}

// LowStock reports stock at or below the alert threshold.
func (p Product) LowStock() bool { return p.Stock <= p.MinStockAlert }

// CartItem is a point-in-time copy of a product plus the quantity being bought.
type CartItem struct {
	Product
	Quantity int `db:"quantity" json:"quantity"`
}

func (i CartItem) Subtotal() int64 { return i.PriceSell * int64(i.Quantity) }

// Transaction is a completed sale. Never mutated after checkout.
type Transaction struct {
	ID    string     `db:"id" json:"id"`
	Date  string     `db:"date" json:"date"` // YYYY-MM-DD
	Total int64      `db:"total" json:"total"`
	Items []CartItem `db:"-" json:"items"`
}

// StockUnderflow flags a product left with negative stock after a sale.
type StockUnderflow struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

type Availability struct {
	Status string `json:"status"`
	Qty    int    `json:"qty"`
}
