package tiles

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name string
		want TileCoord
		ok   bool
	}{
		{"125_44.png", TileCoord{125, 44}, true},
		{"0_0.png", TileCoord{0, 0}, true},
		{"-3_+7.png", TileCoord{-3, 7}, true},
		{"12_5.PNG", TileCoord{12, 5}, true},
		{"12_5.Png", TileCoord{12, 5}, true},
		{"abc.png", TileCoord{}, false},
		{"1_2_3.png", TileCoord{}, false},
		{"1.png", TileCoord{}, false},
		{"1_x.png", TileCoord{}, false},
		{"_1.png", TileCoord{}, false},
		{"1_.png", TileCoord{}, false},
		{"1_2_.png", TileCoord{}, false},
		{"1_2.jpg", TileCoord{}, false},
		{"1_2.png.bak", TileCoord{}, false},
		{".png", TileCoord{}, false},
		{"1.5_2.png", TileCoord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFileName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileNameRoundTrip(t *testing.T) {
	c := TileCoord{Col: -4, Row: 19}
	assert.Equal(t, "-4_19.png", c.FileName())

	got, ok := ParseFileName(c.FileName())
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestMinCoord(t *testing.T) {
	_, ok := MinCoord(nil)
	assert.False(t, ok, "empty set has no minimum")

	lowest, ok := MinCoord([]TileCoord{{130, 40}, {125, 50}, {127, 44}})
	require.True(t, ok)
	assert.Equal(t, TileCoord{125, 40}, lowest, "minima are taken per axis")
}

func TestLayoutPlaceScenario(t *testing.T) {
	coords := []TileCoord{{125, 44}, {126, 44}, {125, 45}}

	flat := Layout{TileSize: TileSize}
	placed := flat.PlaceAll(coords)
	assert.Equal(t, image.Pt(0, 0), placed[TileCoord{125, 44}])
	assert.Equal(t, image.Pt(256, 0), placed[TileCoord{126, 44}])
	assert.Equal(t, image.Pt(0, 256), placed[TileCoord{125, 45}])

	shifted := DefaultLayout().PlaceAll(coords)
	origin := image.Pt(-125*TileSize, -44*TileSize)
	assert.Equal(t, origin, shifted[TileCoord{125, 44}])
	assert.Equal(t, origin.Add(image.Pt(256, 0)), shifted[TileCoord{126, 44}])
	assert.Equal(t, origin.Add(image.Pt(0, 256)), shifted[TileCoord{125, 45}])
}

func TestLayoutPlaceMonotonic(t *testing.T) {
	layout := DefaultLayout()
	coords := []TileCoord{{-2, 5}, {0, 3}, {4, -1}, {7, 7}, {1, 0}}
	placed := layout.PlaceAll(coords)

	for _, a := range coords {
		for _, b := range coords {
			if a.Col < b.Col {
				assert.Less(t, placed[a].X, placed[b].X, "%v vs %v", a, b)
			}
			if a.Row < b.Row {
				assert.Less(t, placed[a].Y, placed[b].Y, "%v vs %v", a, b)
			}
		}
	}
}

func TestLayoutPlaceOrderInvariant(t *testing.T) {
	layout := DefaultLayout()
	coords := []TileCoord{{10, 3}, {11, 3}, {12, 4}, {9, 8}, {15, 2}, {10, 10}}
	want := layout.PlaceAll(coords)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]TileCoord(nil), coords...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, layout.PlaceAll(shuffled))
	}
}

func TestPlaceAllEmpty(t *testing.T) {
	assert.Empty(t, DefaultLayout().PlaceAll(nil))
}
