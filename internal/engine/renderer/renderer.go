// Package renderer draws the heightmap-displaced terrain cube with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/engine/camera"
	"github.com/Faultbox/terrainview/internal/engine/geometry"
	"github.com/Faultbox/terrainview/internal/engine/shader"
	"github.com/Faultbox/terrainview/internal/engine/shader/shaders"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/pkg/math"
)

// Texture units, fixed by the terrain program.
const (
	unitGrass = iota
	unitRock
	unitSnow
	unitHeightMap
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	HeightScale float32
}

// Textures are the decoded images bound to the terrain program. Images must
// already be flipped for GL (row 0 at the bottom).
type Textures struct {
	Grass     *image.RGBA
	Rock      *image.RGBA
	Snow      *image.RGBA
	HeightMap *image.RGBA
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config     Config
	projection math.Mat4

	program        uint32
	locMVP         int32
	locHeightScale int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	textures [4]uint32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, mesh *geometry.Mesh, tex Textures) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.ClearColor(0, 0, 0, 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	program, err := shader.CompileProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	r.program = program
	r.bindUniforms()

	if err := r.uploadMesh(mesh); err != nil {
		r.Close()
		return nil, err
	}

	images := [4]*image.RGBA{
		unitGrass:     tex.Grass,
		unitRock:      tex.Rock,
		unitSnow:      tex.Snow,
		unitHeightMap: tex.HeightMap,
	}
	for unit, img := range images {
		if img == nil || len(img.Pix) == 0 {
			r.Close()
			return nil, fmt.Errorf("texture unit %d: empty image", unit)
		}
		r.textures[unit] = uploadTexture(img)
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) bindUniforms() {
	gl.UseProgram(r.program)

	r.locMVP = shader.GetUniform(r.program, shaders.UniformMVP)
	r.locHeightScale = shader.GetUniform(r.program, shaders.UniformHeightScale)

	// Sampler units never change, set them once
	gl.Uniform1i(shader.GetUniform(r.program, shaders.UniformGrass), unitGrass)
	gl.Uniform1i(shader.GetUniform(r.program, shaders.UniformRock), unitRock)
	gl.Uniform1i(shader.GetUniform(r.program, shaders.UniformSnow), unitSnow)
	gl.Uniform1i(shader.GetUniform(r.program, shaders.UniformHeightMap), unitHeightMap)

	logger.Debug("terrain program ready",
		zap.Uint32("program", r.program),
		zap.Int32("mvp", r.locMVP),
	)
}

func (r *Renderer) uploadMesh(mesh *geometry.Mesh) error {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return fmt.Errorf("upload mesh: empty mesh")
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	vertexSize := int(unsafe.Sizeof(geometry.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	r.indexCount = int32(len(mesh.Indices))

	logger.Debug("terrain mesh uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
	)
	return nil
}

// uploadTexture uploads img with nearest minification, linear
// magnification and repeat wrapping.
func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	return texID
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for i := range r.textures {
		if r.textures[i] != 0 {
			gl.DeleteTextures(1, &r.textures[i])
			r.textures[i] = 0
		}
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize and rebuilds the projection.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.projection = camera.Projection(width, height)
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() math.Mat4 {
	return r.projection
}

// Draw clears the frame and draws the terrain with the given
// model-view-projection matrix.
func (r *Renderer) Draw(mvp math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())
	gl.Uniform1f(r.locHeightScale, r.config.HeightScale)

	for unit, tex := range r.textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
