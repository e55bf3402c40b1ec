package maplayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/khankhulgun/khanstyle/models"
	"github.com/khankhulgun/khanstyle/style"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStyleNotFound = errors.New("layer style not found")

const styleTTL = 60 * time.Minute

// StyleRepository loads and stores layer style descriptors. Parsed styles are
// cached per layer so icon previews stay memoized between requests.
type StyleRepository struct {
	db    *gorm.DB
	cache *ristretto.Cache
}

func NewStyleRepository(db *gorm.DB) (*StyleRepository, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,     // number of keys to track frequency of
		MaxCost:     1 << 14, // one unit per cached style
		BufferItems: 64,      // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("init style cache: %w", err)
	}
	return &StyleRepository{db: db, cache: cache}, nil
}

// Style returns the parsed style of layerID.
func (r *StyleRepository) Style(ctx context.Context, layerID string) (*style.VectorStyle, error) {
	layerID = strings.TrimSpace(layerID)

	if cached, found := r.cache.Get(layerID); found {
		if s, ok := cached.(*style.VectorStyle); ok {
			return s, nil
		}
	}

	var row models.LayerStyle
	err := r.db.WithContext(ctx).Where("layer_id = ?", layerID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrStyleNotFound, layerID)
	}
	if err != nil {
		return nil, fmt.Errorf("load style of layer %s: %w", layerID, err)
	}

	s, err := style.Parse([]byte(row.Style))
	if err != nil {
		return nil, fmt.Errorf("stored style of layer %s: %w", layerID, err)
	}
	r.remember(layerID, s)
	return s, nil
}

// Save validates d and upserts it as the style of layerID.
func (r *StyleRepository) Save(ctx context.Context, layerID string, d style.Descriptor) (*style.VectorStyle, error) {
	layerID = strings.TrimSpace(layerID)

	s, err := style.FromDescriptor(d)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(s.Descriptor())
	if err != nil {
		return nil, fmt.Errorf("encode style: %w", err)
	}

	row := models.LayerStyle{LayerID: layerID, Style: string(data)}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "layer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"style", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("save style of layer %s: %w", layerID, err)
	}

	r.remember(layerID, s)
	return s, nil
}

// UpdateProperty replaces a single property of the stored style.
func (r *StyleRepository) UpdateProperty(ctx context.Context, layerID string, name style.PropertyName, spec *style.PropertySpec) (*style.VectorStyle, error) {
	current, err := r.Style(ctx, layerID)
	if err != nil {
		return nil, err
	}
	d, err := current.WithProperty(name, spec)
	if err != nil {
		return nil, err
	}
	return r.Save(ctx, layerID, d)
}

// Forget drops the cached style of layerID, e.g. after an out of band update.
func (r *StyleRepository) Forget(layerID string) {
	r.cache.Del(strings.TrimSpace(layerID))
}

func (r *StyleRepository) remember(layerID string, s *style.VectorStyle) {
	r.cache.SetWithTTL(layerID, s, 1, styleTTL)
	r.cache.Wait()
}
