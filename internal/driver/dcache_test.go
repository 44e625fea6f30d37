package driver

import (
	"bytes"
	"testing"

	"rebind/internal/bind"
	"rebind/internal/remap"
)

func testCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := OpenDiskCache("rebind-test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	key := CacheKey([]byte("container"), nil, remap.TargetDirect3D12, "1.5")

	in := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		ToolVersion: "1.5",
		Target:      "d3d12",
		Bytecode:    []byte("patched"),
		Changed:     true,
		Stage:       uint8(bind.StagePixel),
	}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out DiskPayload
	hit, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("want a cache hit")
	}
	if !bytes.Equal(out.Bytecode, in.Bytecode) || !out.Changed || out.StageOf() != bind.StagePixel {
		t.Errorf("payload = %+v", out)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	c := testCache(t)
	var out DiskPayload
	hit, err := c.Get(CacheKey([]byte("absent"), nil, remap.TargetDirect3D12, "1.5"), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("want a miss for an unknown key")
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	c := testCache(t)
	key := CacheKey([]byte("container"), nil, remap.TargetDirect3D12, "1.5")
	if err := c.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1, Bytecode: []byte("stale")}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	hit, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("a foreign schema version must read as a miss")
	}
}

func TestDiskCacheNilSafe(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if hit, err := c.Get(Digest{}, &DiskPayload{}); err != nil || hit {
		t.Errorf("nil Get = (%v, %v)", hit, err)
	}
	if err := c.DropAll(); err != nil {
		t.Errorf("nil DropAll: %v", err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c := testCache(t)
	key := CacheKey([]byte("container"), nil, remap.TargetDirect3D12, "1.5")
	if err := c.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var out DiskPayload
	if hit, _ := c.Get(key, &out); hit {
		t.Error("cache must be empty after DropAll")
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	base := func() Digest {
		return CacheKey([]byte("container"),
			[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
			remap.TargetDirect3D12, "1.5")
	}
	if base() != base() {
		t.Fatal("CacheKey must be deterministic")
	}

	variants := []Digest{
		CacheKey([]byte("other"),
			[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
			remap.TargetDirect3D12, "1.5"),
		CacheKey([]byte("container"),
			[]bind.Request{{Name: "g_Tex", Space: 0, Register: 4, Kind: bind.KindTextureRead, Count: 1}},
			remap.TargetDirect3D12, "1.5"),
		CacheKey([]byte("container"),
			[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
			remap.TargetVulkan, "1.5"),
		CacheKey([]byte("container"),
			[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
			remap.TargetDirect3D12, "1.6"),
	}
	for i, v := range variants {
		if v == base() {
			t.Errorf("variant %d must change the key", i)
		}
	}
	if base().IsZero() {
		t.Error("computed key must not be zero")
	}
}
