// Package partdb provides read-only lookups into the packaged part
// catalog: per-category versioned bit-widths and ordered asset lists,
// balance-short-name to English-name, and balance-path to part-category
// ("inventory key"). It is a process-wide cache, lazily populated on
// first use and safe to share across save/profile instances (spec
// section 5) — the same role internal/data plays for the teacher's
// static game tables, here made concurrency-safe for first-touch
// loading via golang.org/x/sync/singleflight rather than the teacher's
// simple load-at-startup call.
package partdb

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// versionBits is one row of a category's bit-width table: Bits applies
// to any serial version >= Version, until a later row supersedes it.
type versionBits struct {
	Version int `json:"version"`
	Bits    int `json:"bits"`
}

type categoryRaw struct {
	Versions []versionBits `json:"versions"`
	Assets   []string      `json:"assets"`
}

// DB is the parsed, ready-to-query part catalog. Every lookup method
// is nil-safe against missing entries: they return a zero value plus
// false rather than panicking or erroring, per spec section 4.5.
type DB struct {
	serial     map[string]categoryRaw // category name -> versions/assets
	maxVersion int

	balanceToName   map[string]string // lowercased short balance name -> English name
	balanceToInvKey map[string]string // normalized, lowercased full balance path -> part category

	mu       sync.Mutex
	idxCache map[string]map[string]int // category -> asset name -> 1-based index
}

var (
	cached  *DB
	loadErr error
	once    sync.Once
	group   singleflight.Group
)

// Load returns the process-wide DB, parsing the packaged resources on
// first call. Concurrent first callers collapse into a single parse
// via singleflight; later callers get the cached result for free.
func Load() (*DB, error) {
	v, err, _ := group.Do("partdb.Load", func() (any, error) {
		var result *DB
		var loadOnceErr error
		once.Do(func() {
			result, loadOnceErr = load()
			cached, loadErr = result, loadOnceErr
		})
		if cached != nil || loadErr != nil {
			return cached, loadErr
		}
		return result, loadOnceErr
	})
	if err != nil {
		return nil, err
	}
	return v.(*DB), nil
}

func load() (*DB, error) {
	var rawSerial map[string]categoryRaw
	if err := loadResource("inventoryserialdb", &rawSerial); err != nil {
		return nil, err
	}
	var balanceToName map[string]string
	if err := loadResource("balancetoname", &balanceToName); err != nil {
		return nil, err
	}
	var balanceToInvKey map[string]string
	if err := loadResource("balancetoinvkey", &balanceToInvKey); err != nil {
		return nil, err
	}

	db := &DB{
		serial:          rawSerial,
		balanceToName:   balanceToName,
		balanceToInvKey: balanceToInvKey,
		idxCache:        make(map[string]map[string]int),
	}
	for cat, raw := range rawSerial {
		sort.Slice(raw.Versions, func(i, j int) bool {
			return raw.Versions[i].Version < raw.Versions[j].Version
		})
		rawSerial[cat] = raw
		for _, vb := range raw.Versions {
			if vb.Version > db.maxVersion {
				db.maxVersion = vb.Version
			}
		}
	}
	return db, nil
}

// MaxVersion is the highest serial version any category's bit-width
// table declares — the version new/rewritten items are encoded at.
func (db *DB) MaxVersion() int {
	return db.maxVersion
}

// GetNumBits returns the bit-width for category at serial version,
// implementing the "largest Version <= v, defaulting to the first row"
// step function. Versions is kept sorted ascending at load time, so
// the step is a binary search rather than a linear scan. Returns
// (0, false) if the category is unknown.
func (db *DB) GetNumBits(category string, version int) (int, bool) {
	cat, ok := db.serial[category]
	if !ok || len(cat.Versions) == 0 {
		return 0, false
	}
	// i is the first index whose Version > version; the row just
	// before it is the largest Version <= version.
	i := sort.Search(len(cat.Versions), func(i int) bool {
		return cat.Versions[i].Version > version
	})
	if i == 0 {
		return cat.Versions[0].Bits, true
	}
	return cat.Versions[i-1].Bits, true
}

// GetPart returns the asset name at the given 1-based index within
// category. Returns ("", false) for an unknown category or an index
// outside [1, len(assets)].
func (db *DB) GetPart(category string, index int) (string, bool) {
	cat, ok := db.serial[category]
	if !ok || index < 1 || index > len(cat.Assets) {
		return "", false
	}
	return cat.Assets[index-1], true
}

// GetPartIndex is the reverse of GetPart: the 1-based index of name
// within category, memoized per category on first lookup.
func (db *DB) GetPartIndex(category, name string) (int, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx, ok := db.idxCache[category]
	if !ok {
		cat, known := db.serial[category]
		idx = make(map[string]int, len(cat.Assets))
		if known {
			for i, asset := range cat.Assets {
				idx[asset] = i + 1
			}
		}
		db.idxCache[category] = idx
	}
	i, ok := idx[name]
	return i, ok
}

// BalanceEnglishName looks up the English display name for a lowercased
// short balance name (the last dotted segment of a balance path).
func (db *DB) BalanceEnglishName(shortName string) (string, bool) {
	name, ok := db.balanceToName[strings.ToLower(shortName)]
	return name, ok
}

// BalanceInvKey returns the part category a given full balance path
// uses for its functional parts, after lowercasing and normalizing a
// dot-free path "Foo" to "Foo.Foo" (Unreal object references without an
// explicit class suffix repeat the object name as the class).
func (db *DB) BalanceInvKey(fullBalancePath string) (string, bool) {
	key := strings.ToLower(fullBalancePath)
	if !strings.Contains(key, ".") {
		last := key
		if i := strings.LastIndexByte(key, '/'); i >= 0 {
			last = key[i+1:]
		}
		key = key + "." + last
	}
	invKey, ok := db.balanceToInvKey[key]
	return invKey, ok
}

// ShortBalanceName returns the last dotted/slashed path segment of a
// balance asset path, lowercased — the form BalanceEnglishName expects.
func ShortBalanceName(fullBalancePath string) string {
	s := fullBalancePath
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
