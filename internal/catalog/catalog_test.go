package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarprofile.org/internal/appconf"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/region"
)

func newTestClient(t *testing.T, gridDir string) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", gridDir, appconf.Test, false))
	require.NoError(t, err, "NewClient should succeed")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClientRejectsFileDBInTests(t *testing.T) {
	_, err := NewClient(Config{DBPath: filepath.Join(t.TempDir(), "catalog.db"), Env: appconf.Test})
	assert.Error(t, err)
}

func TestLayerQueries(t *testing.T) {
	ctx := context.Background()
	q := newTestClient(t, "").Queries

	require.NoError(t, q.CreateLayer(ctx, Layer{Name: "bed", Path: "bed.asc", Color: "lightbrown", Position: 2}))
	require.NoError(t, q.CreateLayer(ctx, Layer{Name: "gravity", Path: "grav.asc", Color: "red", Kind: KindData, Axis: 1}))

	t.Run("get applies defaults", func(t *testing.T) {
		l, err := q.GetLayer(ctx, "bed")
		require.NoError(t, err)
		assert.Equal(t, KindLayer, l.Kind)
		assert.Equal(t, "c", l.Interpolation)
		assert.Equal(t, 2, l.Position)
	})

	t.Run("missing layer", func(t *testing.T) {
		_, err := q.GetLayer(ctx, "nope")
		assert.ErrorIs(t, err, ErrLayerNotFound)
	})

	t.Run("list by kind", func(t *testing.T) {
		data, err := q.ListLayers(ctx, KindData)
		require.NoError(t, err)
		require.Len(t, data, 1)
		assert.Equal(t, "gravity", data[0].Name)
		assert.Equal(t, 1, data[0].Axis)

		all, err := q.ListLayers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, q.CreateLayer(ctx, Layer{Name: "bed", Path: "bed2.asc", Color: "brown"}))
		l, err := q.GetLayer(ctx, "bed")
		require.NoError(t, err)
		assert.Equal(t, "bed2.asc", l.Path)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, q.DeleteLayer(ctx, "gravity"))
		assert.ErrorIs(t, q.DeleteLayer(ctx, "gravity"), ErrLayerNotFound)
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		assert.Error(t, q.CreateLayer(ctx, Layer{Name: "x", Path: "x.asc", Kind: "other"}))
	})
}

func TestInsertLayers(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "")

	require.NoError(t, InsertLayers(ctx, client.DB, DefaultLayers()))
	layers, err := client.Queries.ListLayers(ctx, KindLayer)
	require.NoError(t, err)
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"surface", "icebase", "bed"}, names)

	t.Run("bad batch rolls back", func(t *testing.T) {
		err := InsertLayers(ctx, client.DB, []Layer{
			{Name: "ok", Path: "ok.asc"},
			{Name: "", Path: "missing-name.asc"},
		})
		require.Error(t, err)
		_, err = client.Queries.GetLayer(ctx, "ok")
		assert.ErrorIs(t, err, ErrLayerNotFound)
	})
}

func writeGrid(t *testing.T, dir, name string, value float64) {
	t.Helper()
	g, err := grid.FromFunc(region.Region{XMin: 0, XMax: 10, YMin: 0, YMax: 10}, 1, grid.Gridline,
		func(x, y float64) float64 { return value })
	require.NoError(t, err)
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, g.WriteASCII(f))
	require.NoError(t, f.Close())
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeGrid(t, dir, "surface.asc", 100)
	writeGrid(t, dir, "icebase.asc", -200)
	writeGrid(t, dir, "bed.asc", -500)

	m := NewManager(newTestClient(t, dir))
	require.NoError(t, m.Seed(ctx))
	require.NoError(t, m.Seed(ctx), "seeding twice is a no-op")

	t.Run("grid is cached", func(t *testing.T) {
		g1, layer, err := m.Grid(ctx, "bed")
		require.NoError(t, err)
		assert.Equal(t, "lightbrown", layer.Color)
		g2, _, err := m.Grid(ctx, "bed")
		require.NoError(t, err)
		assert.Same(t, g1, g2)
	})

	t.Run("layer specs in catalogue order", func(t *testing.T) {
		specs, err := m.LayerSpecs(ctx, KindLayer, nil)
		require.NoError(t, err)
		require.Len(t, specs, 3)
		assert.Equal(t, "surface", specs[0].Name)
		vals, err := specs[2].Grid.Sample([]float64{5}, []float64{5})
		require.NoError(t, err)
		assert.InDelta(t, -500, vals[0], 1e-9)
	})

	t.Run("named specs", func(t *testing.T) {
		specs, err := m.LayerSpecs(ctx, "", []string{"bed", "surface"})
		require.NoError(t, err)
		assert.Equal(t, "bed", specs[0].Name)
		assert.Equal(t, "surface", specs[1].Name)

		_, err = m.LayerSpecs(ctx, "", []string{"moho"})
		assert.ErrorIs(t, err, ErrLayerNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		require.NoError(t, m.Queries().CreateLayer(ctx, Layer{Name: "ghost", Path: "ghost.asc"}))
		_, _, err := m.Grid(ctx, "ghost")
		assert.Error(t, err)
	})

	t.Run("put bypasses disk", func(t *testing.T) {
		g, err := grid.FromFunc(region.Region{XMin: 0, XMax: 1, YMin: 0, YMax: 1}, 1, grid.Gridline,
			func(x, y float64) float64 { return 7 })
		require.NoError(t, err)
		m.Put("ghost.asc", g)
		got, _, err := m.Grid(ctx, "ghost")
		require.NoError(t, err)
		assert.Same(t, g, got)
	})
}
