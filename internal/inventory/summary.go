package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/elgranjm3000/previewInventario/internal/domain"
)

type Summary struct {
	TotalProductos  int             `json:"total_productos"`
	TotalCategorias int             `json:"total_categorias"`
	ValorTotal      decimal.Decimal `json:"valor_total"`
	StockBajo       int             `json:"stock_bajo"`
}

func Summarize(productos []domain.Producto, categorias []domain.Categoria) Summary {
	s := Summary{
		TotalProductos:  len(productos),
		TotalCategorias: len(categorias),
		ValorTotal:      InventoryValue(productos),
	}
	for _, p := range productos {
		if p.LowStock() {
			s.StockBajo++
		}
	}
	return s
}

// InventoryValue is the sum of precio × stock over productos.
func InventoryValue(productos []domain.Producto) decimal.Decimal {
	total := decimal.Zero
	for _, p := range productos {
		total = total.Add(decimal.NewFromFloat(p.Precio).Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total
}

func countByCategoria(productos []domain.Producto, categoriaID int) int {
	n := 0
	for _, p := range productos {
		if p.CategoriaID == categoriaID {
			n++
		}
	}
	return n
}
