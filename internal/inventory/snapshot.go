package inventory

import "github.com/elgranjm3000/previewInventario/internal/domain"

// Snapshot is one consistent pair of lists from a single Load. It is never
// mutated after construction, so it can be read without locking.
type Snapshot struct {
	productos  []domain.Producto
	categorias []domain.Categoria
}

func newSnapshot(productos []domain.Producto, categorias []domain.Categoria) Snapshot {
	if productos == nil {
		productos = []domain.Producto{}
	}
	if categorias == nil {
		categorias = []domain.Categoria{}
	}
	return Snapshot{productos: productos, categorias: categorias}
}

func (s Snapshot) Productos() []domain.Producto {
	out := make([]domain.Producto, len(s.productos))
	copy(out, s.productos)
	return out
}

func (s Snapshot) Categorias() []domain.Categoria {
	out := make([]domain.Categoria, len(s.categorias))
	copy(out, s.categorias)
	return out
}

func (s Snapshot) Summary() Summary {
	return Summarize(s.productos, s.categorias)
}

func (s Snapshot) ProductCountByCategory(categoriaID int) int {
	return countByCategoria(s.productos, categoriaID)
}

// Search matches productos whose nombre or descripcion contains term, ignoring case.
func (s Snapshot) Search(term string) []domain.Producto {
	out := []domain.Producto{}
	for _, p := range s.productos {
		if domain.ContainsFold(p.Nombre, term) || domain.ContainsFold(p.Descripcion, term) {
			out = append(out, p)
		}
	}
	return out
}

func (s Snapshot) SearchCategorias(term string) []domain.Categoria {
	out := []domain.Categoria{}
	for _, c := range s.categorias {
		if domain.ContainsFold(c.Nombre, term) {
			out = append(out, c)
		}
	}
	return out
}

// Detalle returns the producto with its categoria resolved. Categoria is nil
// when the id matches no loaded categoria.
func (s Snapshot) Detalle(id int) (domain.ProductoDetalle, bool) {
	for _, p := range s.productos {
		if p.ID != id {
			continue
		}
		det := domain.ProductoDetalle{Producto: p}
		for _, c := range s.categorias {
			if c.ID == p.CategoriaID {
				cat := c
				det.Categoria = &cat
				break
			}
		}
		return det, true
	}
	return domain.ProductoDetalle{}, false
}
