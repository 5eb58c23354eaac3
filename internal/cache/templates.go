package cache

import (
	"context"
	"encoding/json"

	"github.com/2beens/periodize/internal/training/periodization"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024

	// freecache refuses entries larger than 1/1024 of its size, so 8MB keeps
	// entries up to 8KB, which holds the whole serialized catalog.
	MinTemplateCacheSizeMB = 8

	templatesListKey  = "templates::all"
	templateKeyPrefix = "template::"
)

type templateRepo interface {
	GetTemplate(ctx context.Context, id string) (*periodization.Template, error)
	ListTemplates(ctx context.Context) ([]periodization.Template, error)
}

// TemplateCache keeps serialized templates in an in-process freecache in front of
// another template repository. Entries are decoded on every hit, so callers never
// share template slices.
type TemplateCache struct {
	cache        *freecache.Cache
	next         templateRepo
	expireSecond int
}

func NewTemplateCache(next templateRepo, sizeMB, expireSecond int) *TemplateCache {
	if sizeMB < MinTemplateCacheSizeMB {
		sizeMB = MinTemplateCacheSizeMB
	}
	return &TemplateCache{
		cache:        freecache.NewCache(sizeMB * megabyte),
		next:         next,
		expireSecond: expireSecond,
	}
}

func (c *TemplateCache) GetTemplate(ctx context.Context, id string) (*periodization.Template, error) {
	key := []byte(templateKeyPrefix + id)
	if b, err := c.cache.Get(key); err == nil {
		t := &periodization.Template{}
		if err := json.Unmarshal(b, t); err == nil {
			return t, nil
		} else {
			log.Errorf("unmarshal cached template %s: %s", id, err)
		}
	}

	t, err := c.next.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(key, t)
	return t, nil
}

func (c *TemplateCache) ListTemplates(ctx context.Context) ([]periodization.Template, error) {
	key := []byte(templatesListKey)
	if b, err := c.cache.Get(key); err == nil {
		var templates []periodization.Template
		if err := json.Unmarshal(b, &templates); err == nil {
			return templates, nil
		} else {
			log.Errorf("unmarshal cached template list: %s", err)
		}
	}

	templates, err := c.next.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	c.set(key, templates)
	return templates, nil
}

func (c *TemplateCache) set(key []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal template cache entry %s: %s", key, err)
		return
	}
	if err := c.cache.Set(key, b, c.expireSecond); err != nil {
		log.Errorf("set template cache entry %s: %s", key, err)
	}
}
