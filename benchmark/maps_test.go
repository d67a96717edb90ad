package benchmark

import (
	"sync"

	"github.com/Snawoot/lfmap"
	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
	"github.com/fufuok/cmap"
	"github.com/llxisdsh/intmap"
	"github.com/llxisdsh/pb"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	orcaman_map "github.com/orcaman/concurrent-map/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zhangyunhao116/skipmap"
)

// ============================================================================
// Map Adapters
// ============================================================================

// MapInterface is the common surface every compared map is driven through.
// Keys and values are always positive so intmap accepts them.
type MapInterface interface {
	Store(key, value int)
	Load(key int) (int, bool)
	Delete(key int)
}

type intmapAdapter struct{ m *intmap.Map }

func (a *intmapAdapter) Store(k, v int) { _, _ = a.m.Put(int64(k), int64(v)) }
func (a *intmapAdapter) Load(k int) (int, bool) {
	v, ok := a.m.Load(int64(k))
	return int(v), ok
}
func (a *intmapAdapter) Delete(k int) { _, _ = a.m.Remove(int64(k)) }

type syncMapAdapter struct{ m *sync.Map }

func (a *syncMapAdapter) Store(k, v int) { a.m.Store(k, v) }
func (a *syncMapAdapter) Load(k int) (int, bool) {
	v, ok := a.m.Load(k)
	if ok {
		return v.(int), true
	}
	return 0, false
}
func (a *syncMapAdapter) Delete(k int) { a.m.Delete(k) }

// funcMap adapts third-party maps whose method names differ from
// MapInterface.
type funcMap struct {
	store func(k, v int)
	load  func(k int) (int, bool)
	del   func(k int)
}

func (a *funcMap) Store(k, v int)         { a.store(k, v) }
func (a *funcMap) Load(k int) (int, bool) { return a.load(k) }
func (a *funcMap) Delete(k int)           { a.del(k) }

// RWLockMap is a plain map behind one sync.RWMutex, the baseline every
// concurrent map has to beat.
type RWLockMap struct {
	mu sync.RWMutex
	m  map[int]int
}

func NewRWLockMap() *RWLockMap {
	return &RWLockMap{m: make(map[int]int)}
}

func (gm *RWLockMap) Load(key int) (int, bool) {
	gm.mu.RLock()
	v, ok := gm.m[key]
	gm.mu.RUnlock()
	return v, ok
}

func (gm *RWLockMap) Store(key, value int) {
	gm.mu.Lock()
	gm.m[key] = value
	gm.mu.Unlock()
}

func (gm *RWLockMap) Delete(key int) {
	gm.mu.Lock()
	delete(gm.m, key)
	gm.mu.Unlock()
}

// ============================================================================
// Registry
// ============================================================================

type mapImpl struct {
	name string
	make func() MapInterface
}

// impls lists every compared map. intmap comes first so filtered runs such
// as -bench 'Store/intmap' stay short.
var impls = []mapImpl{
	{"intmap_Map", func() MapInterface {
		return &intmapAdapter{intmap.NewMap()}
	}},
	{"pb_MapOf", func() MapInterface {
		return pb.NewMapOf[int, int]()
	}},
	{"pb_FlatMapOf", func() MapInterface {
		return pb.NewFlatMapOf[int, int]()
	}},
	{"original_syncMap", func() MapInterface {
		return &syncMapAdapter{&sync.Map{}}
	}},
	{"xsync_Map", func() MapInterface {
		return xsync.NewMap[int, int]()
	}},
	{"alphadose_haxmap", func() MapInterface {
		m := haxmap.New[int, int]()
		return &funcMap{
			store: func(k, v int) { m.Set(k, v) },
			load:  func(k int) (int, bool) { return m.Get(k) },
			del:   func(k int) { m.Del(k) },
		}
	}},
	{"zhangyunhao116_skipmap", func() MapInterface {
		m := skipmap.New[int, int]()
		return &funcMap{
			store: func(k, v int) { m.Store(k, v) },
			load:  func(k int) (int, bool) { return m.Load(k) },
			del:   func(k int) { m.Delete(k) },
		}
	}},
	{"fufuok_cmap", func() MapInterface {
		m := cmap.NewOf[int, int]()
		return &funcMap{
			store: func(k, v int) { m.Set(k, v) },
			load:  func(k int) (int, bool) { return m.Get(k) },
			del:   func(k int) { m.Remove(k) },
		}
	}},
	{"mhmtszr_concurrent_swiss_map", func() MapInterface {
		m := csmap.New(csmap.WithShardCount[int, int](32))
		return &funcMap{
			store: func(k, v int) { m.Store(k, v) },
			load:  func(k int) (int, bool) { return m.Load(k) },
			del:   func(k int) { m.Delete(k) },
		}
	}},
	{"orcaman_concurrent_map", func() MapInterface {
		m := orcaman_map.NewWithCustomShardingFunction[int, int](
			func(key int) uint32 {
				return uint32(key)
			},
		)
		return &funcMap{
			store: func(k, v int) { m.Set(k, v) },
			load:  func(k int) (int, bool) { return m.Get(k) },
			del:   func(k int) { m.Remove(k) },
		}
	}},
	{"snawoot_lfmap", func() MapInterface {
		m := lfmap.New[int, int]()
		return &funcMap{
			store: func(k, v int) { m.Set(k, v) },
			load:  func(k int) (int, bool) { return m.Get(k) },
			del:   func(k int) { m.Delete(k) },
		}
	}},
	{"cornelk_hashmap", func() MapInterface {
		m := hashmap.New[int, int]()
		return &funcMap{
			store: func(k, v int) { m.Set(k, v) },
			load:  func(k int) (int, bool) { return m.Get(k) },
			del:   func(k int) { m.Del(k) },
		}
	}},
	{"RWLockMap", func() MapInterface {
		return NewRWLockMap()
	}},
}
