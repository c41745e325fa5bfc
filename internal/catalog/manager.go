package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/profile"
)

// Manager resolves catalogued layers to loaded grids. Grids are read once
// and shared between requests.
type Manager struct {
	client  *Client
	gridDir string

	mu    sync.RWMutex
	grids map[string]*grid.Grid
}

func NewManager(client *Client) *Manager {
	return &Manager{
		client:  client,
		gridDir: client.config.GridDir,
		grids:   make(map[string]*grid.Grid),
	}
}

func (m *Manager) Queries() *Queries { return m.client.Queries }

// Seed stores the default layers when the catalog is empty.
func (m *Manager) Seed(ctx context.Context) error {
	existing, err := m.client.Queries.ListLayers(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return InsertLayers(ctx, m.client.DB, DefaultLayers())
}

// Grid loads the grid for the named layer.
func (m *Manager) Grid(ctx context.Context, name string) (*grid.Grid, Layer, error) {
	layer, err := m.client.Queries.GetLayer(ctx, name)
	if err != nil {
		return nil, Layer{}, err
	}
	g, err := m.load(ctx, layer)
	return g, layer, err
}

// Put caches an in-memory grid under path, bypassing the filesystem.
func (m *Manager) Put(path string, g *grid.Grid) {
	m.mu.Lock()
	m.grids[m.resolve(path)] = g
	m.mu.Unlock()
}

func (m *Manager) resolve(path string) string {
	if filepath.IsAbs(path) || m.gridDir == "" {
		return path
	}
	return filepath.Join(m.gridDir, path)
}

func (m *Manager) load(ctx context.Context, layer Layer) (*grid.Grid, error) {
	path := m.resolve(layer.Path)

	m.mu.RLock()
	g, ok := m.grids[path]
	m.mu.RUnlock()
	if ok {
		return g, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.grids[path]; ok {
		return g, nil
	}

	start := time.Now()
	g, err := grid.LoadASCII(path)
	if err != nil {
		return nil, fmt.Errorf("loading layer %s: %w", layer.Name, err)
	}
	m.grids[path] = g

	logging.LogOperation(logging.FromContext(ctx), "grid_loaded",
		slog.String("layer", layer.Name),
		slog.String("path", path),
		slog.Int("nx", g.NX),
		slog.Int("ny", g.NY),
		slog.Duration("duration", time.Since(start)))
	return g, nil
}

// LayerSpecs returns sampling specs for the named layers in the order given.
// With no names it returns every layer of kind, in catalogue order.
func (m *Manager) LayerSpecs(ctx context.Context, kind string, names []string) ([]profile.LayerSpec, error) {
	var layers []Layer
	if len(names) == 0 {
		var err error
		if layers, err = m.client.Queries.ListLayers(ctx, kind); err != nil {
			return nil, err
		}
	} else {
		for _, name := range names {
			l, err := m.client.Queries.GetLayer(ctx, name)
			if err != nil {
				return nil, err
			}
			layers = append(layers, l)
		}
	}

	specs := make([]profile.LayerSpec, 0, len(layers))
	for _, l := range layers {
		g, err := m.load(ctx, l)
		if err != nil {
			return nil, err
		}
		method, err := grid.ParseInterpolation(l.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.Name, err)
		}
		specs = append(specs, profile.LayerSpec{
			Name:  l.Name,
			Grid:  g.WithInterpolation(method),
			Color: l.Color,
			Axis:  l.Axis,
		})
	}
	return specs, nil
}
