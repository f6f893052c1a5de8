package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"Prism3D/internal/logger"

	"go.uber.org/zap"
)

// TextureKind is the semantic role of a texture in a material.
type TextureKind int

const (
	KindUnknown TextureKind = iota
	KindDiffuse
	KindSpecular
	KindAmbient
	KindEmissive
	KindHeight
	KindNormal
)

func (k TextureKind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindSpecular:
		return "specular"
	case KindAmbient:
		return "ambient"
	case KindEmissive:
		return "emissive"
	case KindHeight:
		return "height"
	case KindNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ParseTextureKind maps a config name to a kind; unrecognized names are KindUnknown.
func ParseTextureKind(name string) TextureKind {
	for k := KindDiffuse; k <= KindNormal; k++ {
		if k.String() == name {
			return k
		}
	}
	return KindUnknown
}

// Texture is a GPU texture owned by a TextureCache. CPU pixel data is dropped after upload.
type Texture struct {
	Filename    string
	ID          uint32
	Kind        TextureKind
	Flipped     bool
	Width       int
	Height      int
	Format      PixelFormat
	Target      TextureTarget
	Placeholder bool
}

// Bind attaches the texture to a texture unit.
func (t *Texture) Bind(device Device, unit uint32) {
	device.BindTexture(unit, t.Target, t.ID)
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	Textures int
	Cubemaps int
	Hits     int
	Misses   int
	Failures int
}

type cacheEntry struct {
	texture *Texture
	err     error
}

// TextureCache loads each file at most once and hands out the same texture for every
// later request of that filename.
type TextureCache struct {
	device Device
	decode DecodeFunc

	mu              sync.Mutex
	entries         map[string]cacheEntry
	cubemaps        []*Texture
	placeholder     *Texture
	placeholderCube *Texture
	stats           TextureStats
}

type TextureCacheOption func(*TextureCache)

// WithDecoder replaces LoadImage, mostly for tests.
func WithDecoder(decode DecodeFunc) TextureCacheOption {
	return func(tc *TextureCache) {
		tc.decode = decode
	}
}

func NewTextureCache(device Device, opts ...TextureCacheOption) *TextureCache {
	tc := &TextureCache{
		device:  device,
		decode:  LoadImage,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

var (
	placeholderA = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	placeholderB = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

const (
	placeholderSize = 64
	placeholderCell = 8
)

// GetOrLoad returns the cached texture for filename or loads it. A hit returns the stored
// entry as is, whatever kind or flip the caller passes now. A failed load is remembered:
// the caller gets the placeholder and a *TextureLoadError, now and on every later call.
func (tc *TextureCache) GetOrLoad(filename string, kind TextureKind, flip bool) (*Texture, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.entries[filename]; exists {
		tc.stats.Hits++
		logger.Log.Debug("Texture cache hit",
			zap.String("path", filename),
			zap.Uint32("textureID", entry.texture.ID))
		return entry.texture, entry.err
	}

	tc.stats.Misses++
	img, err := tc.decode(filename, flip)
	if err != nil {
		loadErr := &TextureLoadError{Path: filename, Err: err}
		logger.Log.Error("Texture failed to load", zap.String("path", filename), zap.Error(err))
		tc.stats.Failures++
		placeholder := tc.placeholder2D()
		tc.entries[filename] = cacheEntry{texture: placeholder, err: loadErr}
		return placeholder, loadErr
	}

	texture := tc.upload(filename, img, kind)
	tc.entries[filename] = cacheEntry{texture: texture}

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filename),
		zap.Uint32("textureID", texture.ID),
		zap.Stringer("kind", kind),
		zap.Stringer("format", img.Format),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return texture, nil
}

// GetOrCreate uploads an in-memory image under name, or returns what name already holds.
func (tc *TextureCache) GetOrCreate(name string, src image.Image, kind TextureKind) (*Texture, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.entries[name]; exists {
		tc.stats.Hits++
		return entry.texture, entry.err
	}

	tc.stats.Misses++
	img, err := FromImage(src, false)
	if err != nil {
		var unsupported *UnsupportedFormatError
		if errors.As(err, &unsupported) {
			unsupported.Path = name
		}
		loadErr := &TextureLoadError{Path: name, Err: err}
		logger.Log.Error("Texture could not be created from image", zap.String("name", name), zap.Error(err))
		tc.stats.Failures++
		placeholder := tc.placeholder2D()
		tc.entries[name] = cacheEntry{texture: placeholder, err: loadErr}
		return placeholder, loadErr
	}

	texture := tc.upload(name, img, kind)
	tc.entries[name] = cacheEntry{texture: texture}
	logger.Log.Info("Texture created from image",
		zap.String("name", name),
		zap.Uint32("textureID", texture.ID))
	return texture, nil
}

// CreateRaw uploads already-prepared pixels under name (procedural textures).
func (tc *TextureCache) CreateRaw(name string, img *Image, kind TextureKind) *Texture {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.entries[name]; exists {
		tc.stats.Hits++
		return entry.texture
	}
	tc.stats.Misses++
	texture := tc.upload(name, img, kind)
	tc.entries[name] = cacheEntry{texture: texture}
	return texture
}

// upload must be called with tc.mu held.
func (tc *TextureCache) upload(name string, img *Image, kind TextureKind) *Texture {
	id := tc.device.CreateTexture2D(img)
	tc.stats.Textures++
	return &Texture{
		Filename: name,
		ID:       id,
		Kind:     kind,
		Flipped:  img.Flipped,
		Width:    img.Width,
		Height:   img.Height,
		Format:   img.Format,
		Target:   Target2D,
	}
}

func (tc *TextureCache) placeholder2D() *Texture {
	if tc.placeholder == nil {
		img := CheckerImage(placeholderSize, placeholderCell, placeholderA, placeholderB)
		tc.placeholder = &Texture{
			Filename:    "<placeholder>",
			ID:          tc.device.CreateTexture2D(img),
			Width:       img.Width,
			Height:      img.Height,
			Format:      img.Format,
			Target:      Target2D,
			Placeholder: true,
		}
	}
	return tc.placeholder
}

func (tc *TextureCache) placeholderCubemap() *Texture {
	if tc.placeholderCube == nil {
		img := CheckerImage(placeholderSize, placeholderCell, placeholderA, placeholderB)
		tc.placeholderCube = &Texture{
			Filename:    "<placeholder-cubemap>",
			ID:          tc.device.CreateCubemap([6]*Image{img, img, img, img, img, img}),
			Width:       img.Width,
			Height:      img.Height,
			Format:      img.Format,
			Target:      TargetCubemap,
			Placeholder: true,
		}
	}
	return tc.placeholderCube
}

// LoadCubemap builds a cubemap from six faces in +X, -X, +Y, -Y, +Z, -Z order. Every face
// is decoded before anything is uploaded; on any failure nothing is uploaded and the
// placeholder cubemap comes back with the error.
func (tc *TextureCache) LoadCubemap(paths []string) (*Texture, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if len(paths) != 6 {
		err := fmt.Errorf("cubemap needs 6 faces, got %d", len(paths))
		logger.Log.Error("Cubemap failed to load", zap.Strings("faces", paths), zap.Error(err))
		tc.stats.Failures++
		return tc.placeholderCubemap(), err
	}

	var faces [6]*Image
	for i, path := range paths {
		img, err := tc.decode(path, false)
		if err != nil {
			loadErr := &TextureLoadError{Path: path, Err: err}
			logger.Log.Error("Cubemap texture failed to load at path",
				zap.String("path", path),
				zap.Int("face", i),
				zap.Error(err))
			tc.stats.Failures++
			return tc.placeholderCubemap(), loadErr
		}
		faces[i] = img
	}

	id := tc.device.CreateCubemap(faces)
	texture := &Texture{
		Filename: paths[0],
		ID:       id,
		Width:    faces[0].Width,
		Height:   faces[0].Height,
		Format:   faces[0].Format,
		Target:   TargetCubemap,
	}
	tc.cubemaps = append(tc.cubemaps, texture)
	tc.stats.Cubemaps++

	logger.Log.Info("Cubemap loaded",
		zap.Strings("faces", paths),
		zap.Uint32("textureID", id))
	return texture, nil
}

// Len is the number of cached filenames, failed ones included.
func (tc *TextureCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.entries)
}

// Stats returns current texture cache statistics
func (tc *TextureCache) Stats() TextureStats {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.stats
}

// LogStats logs current texture statistics
func (tc *TextureCache) LogStats() {
	stats := tc.Stats()
	hitRate := 0.0
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		hitRate = float64(stats.Hits) / float64(lookups)
	}
	logger.Log.Info("Texture Cache Stats",
		zap.Int("textures", stats.Textures),
		zap.Int("cubemaps", stats.Cubemaps),
		zap.Int("cacheHits", stats.Hits),
		zap.Int("cacheMisses", stats.Misses),
		zap.Int("failures", stats.Failures),
		zap.Float64("hitRate", hitRate))
}

// Clear deletes every GPU texture the cache created and forgets all entries.
func (tc *TextureCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	for _, entry := range tc.entries {
		if !entry.texture.Placeholder {
			tc.device.DeleteTexture(entry.texture.ID)
		}
	}
	for _, cube := range tc.cubemaps {
		tc.device.DeleteTexture(cube.ID)
	}
	if tc.placeholder != nil {
		tc.device.DeleteTexture(tc.placeholder.ID)
	}
	if tc.placeholderCube != nil {
		tc.device.DeleteTexture(tc.placeholderCube.ID)
	}

	tc.entries = make(map[string]cacheEntry)
	tc.cubemaps = nil
	tc.placeholder = nil
	tc.placeholderCube = nil
	tc.stats = TextureStats{}

	logger.Log.Info("Texture cache cleared")
}
