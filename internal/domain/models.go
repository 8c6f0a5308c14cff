package domain

// Producto is owned by the upstream API. ID is zero until the upstream assigns it.
type Producto struct {
	ID          int     `json:"id,omitempty"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Stock       int     `json:"stock"`
	CategoriaID int     `json:"categoria_id"`
}

type Categoria struct {
	ID     int    `json:"id,omitempty"`
	Nombre string `json:"nombre"`
}

// ProductoDetalle is a producto with its categoria resolved from the loaded list.
type ProductoDetalle struct {
	Producto
	Categoria *Categoria `json:"categoria,omitempty"`
}

// LowStockThreshold marks products whose stock is below it as running low.
const LowStockThreshold = 10

func (p Producto) LowStock() bool {
	return p.Stock < LowStockThreshold
}
