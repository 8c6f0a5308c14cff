package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/elgranjm3000/previewInventario/internal/domain"
	"github.com/elgranjm3000/previewInventario/internal/facade"
)

// ErrCategoriaEnUso blocks deleting a categoria that productos still reference.
var ErrCategoriaEnUso = errors.New("no se puede eliminar una categoría que tiene productos asociados")

// ErrProductosNoDisponibles blocks deleting a categoria when its references cannot be counted.
var ErrProductosNoDisponibles = errors.New("no se pudieron cargar los productos para verificar la categoría")

// DataSource is the part of the facade the dashboard consumes.
type DataSource interface {
	ListCategorias(ctx context.Context) facade.ReadResult[[]domain.Categoria]
	ListProductos(ctx context.Context) facade.ReadResult[[]domain.Producto]

	CreateCategoria(ctx context.Context, cat domain.Categoria) (*domain.Categoria, error)
	UpdateCategoria(ctx context.Context, id int, cat domain.Categoria) (*domain.Categoria, error)
	DeleteCategoria(ctx context.Context, id int) error

	CreateProducto(ctx context.Context, p domain.Producto) (*domain.Producto, error)
	UpdateProducto(ctx context.Context, id int, p domain.Producto) (*domain.Producto, error)
	DeleteProducto(ctx context.Context, id int) error
}

// Dashboard holds the last loaded Snapshot. Every derived value is recomputed
// from the full lists on each call.
type Dashboard struct {
	source DataSource
	log    *logrus.Logger

	mu   sync.RWMutex
	last Snapshot
}

func NewDashboard(source DataSource, logger *logrus.Logger) *Dashboard {
	return &Dashboard{
		source: source,
		log:    logger,
		last:   newSnapshot(nil, nil),
	}
}

// Load fetches productos and categorias concurrently and replaces both lists
// once both calls have returned. Failed reads leave an empty list; their causes
// are joined into the returned error.
func (d *Dashboard) Load(ctx context.Context) error {
	_, err := d.LoadSnapshot(ctx)
	return err
}

// LoadSnapshot is Load returning the Snapshot it installed, so a caller can
// render from exactly the data it fetched even if another Load follows.
func (d *Dashboard) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var (
		productos  facade.ReadResult[[]domain.Producto]
		categorias facade.ReadResult[[]domain.Categoria]
		g          errgroup.Group
	)
	g.Go(func() error {
		productos = d.source.ListProductos(ctx)
		return nil
	})
	g.Go(func() error {
		categorias = d.source.ListCategorias(ctx)
		return nil
	})
	_ = g.Wait()

	snap := newSnapshot(productos.Data, categorias.Data)
	d.mu.Lock()
	d.last = snap
	d.mu.Unlock()

	d.log.Debugf("Dashboard: Loaded %d productos and %d categorias", len(snap.productos), len(snap.categorias))
	return snap, errors.Join(productos.Err, categorias.Err)
}

// Snapshot returns the lists installed by the last Load.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

func (d *Dashboard) Productos() []domain.Producto {
	return d.Snapshot().Productos()
}

func (d *Dashboard) Categorias() []domain.Categoria {
	return d.Snapshot().Categorias()
}

func (d *Dashboard) Summary() Summary {
	return d.Snapshot().Summary()
}

func (d *Dashboard) ProductCountByCategory(categoriaID int) int {
	return d.Snapshot().ProductCountByCategory(categoriaID)
}

func (d *Dashboard) Search(term string) []domain.Producto {
	return d.Snapshot().Search(term)
}

func (d *Dashboard) SearchCategorias(term string) []domain.Categoria {
	return d.Snapshot().SearchCategorias(term)
}

func (d *Dashboard) Detalle(id int) (domain.ProductoDetalle, bool) {
	return d.Snapshot().Detalle(id)
}

func (d *Dashboard) CreateProducto(ctx context.Context, p domain.Producto) error {
	if _, err := d.source.CreateProducto(ctx, p); err != nil {
		return fmt.Errorf("error al crear el producto: %w", err)
	}
	d.reload(ctx)
	return nil
}

func (d *Dashboard) UpdateProducto(ctx context.Context, id int, p domain.Producto) error {
	if _, err := d.source.UpdateProducto(ctx, id, p); err != nil {
		return fmt.Errorf("error al actualizar el producto: %w", err)
	}
	d.reload(ctx)
	return nil
}

func (d *Dashboard) DeleteProducto(ctx context.Context, id int) error {
	if err := d.source.DeleteProducto(ctx, id); err != nil {
		return fmt.Errorf("error al eliminar el producto: %w", err)
	}
	d.reload(ctx)
	return nil
}

func (d *Dashboard) CreateCategoria(ctx context.Context, cat domain.Categoria) error {
	if _, err := d.source.CreateCategoria(ctx, cat); err != nil {
		return fmt.Errorf("error al crear la categoría: %w", err)
	}
	d.reload(ctx)
	return nil
}

func (d *Dashboard) UpdateCategoria(ctx context.Context, id int, cat domain.Categoria) error {
	if _, err := d.source.UpdateCategoria(ctx, id, cat); err != nil {
		return fmt.Errorf("error al actualizar la categoría: %w", err)
	}
	d.reload(ctx)
	return nil
}

// DeleteCategoria counts references on a fresh productos read and refuses,
// without calling delete, while any producto references the categoria or
// when that read fails.
func (d *Dashboard) DeleteCategoria(ctx context.Context, id int) error {
	productos := d.source.ListProductos(ctx)
	if productos.Failed() {
		d.log.Warnf("Dashboard: Refusing to delete categoria %d, productos unavailable: %v", id, productos.Err)
		return fmt.Errorf("%w: %w", ErrProductosNoDisponibles, productos.Err)
	}
	if n := countByCategoria(productos.Data, id); n > 0 {
		d.log.Warnf("Dashboard: Refusing to delete categoria %d referenced by %d productos", id, n)
		return ErrCategoriaEnUso
	}
	if err := d.source.DeleteCategoria(ctx, id); err != nil {
		return fmt.Errorf("error al eliminar la categoría: %w", err)
	}
	d.reload(ctx)
	return nil
}

func (d *Dashboard) reload(ctx context.Context) {
	if err := d.Load(ctx); err != nil {
		d.log.Warnf("Dashboard: Reload after mutation left empty lists: %v", err)
	}
}
