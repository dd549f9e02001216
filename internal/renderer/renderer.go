package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/paulmach/orb"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tileviewer/internal/camera"
	"tileviewer/internal/tilestore"
)

var errNoSwapChain = errors.New("renderer: no swap chain")

// Vertex represents a vertex with position and texture coordinates
type Vertex struct {
	Position [2]float32
	TexCoord [2]float32
}

// TileInfo matches the shader uniform
type TileInfo struct {
	OffsetX float32
	OffsetY float32
	ScaleX  float32
	ScaleY  float32
}

// TileTexture holds GPU resources for a single tile
type TileTexture struct {
	Tile      *tilestore.Tile
	Texture   *wgpu.Texture
	View      *wgpu.TextureView
	Uniform   *wgpu.Buffer
	BindGroup *wgpu.BindGroup
}

func (t *TileTexture) release() {
	t.BindGroup.Release()
	t.Uniform.Release()
	t.View.Release()
	t.Texture.Release()
}

// Renderer handles all WebGPU rendering
type Renderer struct {
	device          *wgpu.Device
	queue           *wgpu.Queue
	surface         *wgpu.Surface
	adapter         *wgpu.Adapter
	swapChain       *wgpu.SwapChain
	swapChainFormat wgpu.TextureFormat
	pipeline        *wgpu.RenderPipeline
	sampler         *wgpu.Sampler
	bindGroupLayout *wgpu.BindGroupLayout
	vertexBuffer    *wgpu.Buffer
	indexBuffer     *wgpu.Buffer

	textures []*TileTexture
	log      zerolog.Logger

	newSwapChain func(width, height uint32) (*wgpu.SwapChain, error)

	// Framebuffer size in pixels
	width  uint32
	height uint32
}

// NewRenderer creates a new WebGPU renderer
func NewRenderer(adapter *wgpu.Adapter, device *wgpu.Device, queue *wgpu.Queue, surface *wgpu.Surface, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		adapter: adapter,
		device:  device,
		queue:   queue,
		surface: surface,
		width:   width,
		height:  height,
		log:     log.With().Str("module", "renderer").Logger(),
	}
	r.newSwapChain = r.createSwapChain

	if err := r.init(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) init() error {
	r.swapChainFormat = r.surface.GetPreferredFormat(r.adapter)

	var err error
	r.swapChain, err = r.newSwapChain(r.width, r.height)
	if err != nil {
		return fmt.Errorf("swap chain creation failed: %w", err)
	}

	shader, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "tile_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: TileShader},
	})
	if err != nil {
		return fmt.Errorf("shader creation failed: %w", err)
	}
	defer shader.Release()

	// Linear filtering, tiles are bilinearly interpolated when scaled
	r.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:   wgpu.AddressMode_ClampToEdge,
		AddressModeV:   wgpu.AddressMode_ClampToEdge,
		AddressModeW:   wgpu.AddressMode_ClampToEdge,
		MagFilter:      wgpu.FilterMode_Linear,
		MinFilter:      wgpu.FilterMode_Linear,
		MipmapFilter:   wgpu.MipmapFilterMode_Nearest,
		MaxAnisotrophy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler creation failed: %w", err)
	}

	r.bindGroupLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "tile_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Vertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingType_Uniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStage_Fragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingType_Filtering},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStage_Fragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleType_Float,
					ViewDimension: wgpu.TextureViewDimension_2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout creation failed: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "tile_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout creation failed: %w", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "tile_pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
				StepMode:    wgpu.VertexStepMode_Vertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormat_Float32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormat_Float32x2, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.swapChainFormat,
				Blend:     &wgpu.BlendState_PremultipliedAlphaBlending,
				WriteMask: wgpu.ColorWriteMask_All,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopology_TriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline creation failed: %w", err)
	}

	// Unit quad (0-1 range), shared by every tile
	vertices := []Vertex{
		{Position: [2]float32{0, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [2]float32{1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [2]float32{1, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [2]float32{0, 1}, TexCoord: [2]float32{0, 1}},
	}
	r.vertexBuffer, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "vertex_buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsage_Vertex,
	})
	if err != nil {
		return fmt.Errorf("vertex buffer creation failed: %w", err)
	}

	indices := []uint16{0, 1, 2, 0, 2, 3}
	r.indexBuffer, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "index_buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsage_Index,
	})
	if err != nil {
		return fmt.Errorf("index buffer creation failed: %w", err)
	}

	return nil
}

func (r *Renderer) createSwapChain(width, height uint32) (*wgpu.SwapChain, error) {
	return r.device.CreateSwapChain(r.surface, &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      r.swapChainFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentMode_Fifo,
	})
}

// UploadTiles creates a texture for every tile in the collection
func (r *Renderer) UploadTiles(c *tilestore.Collection) error {
	for _, t := range c.Tiles() {
		tex, err := r.createTileTexture(t)
		if err != nil {
			return fmt.Errorf("upload tile %s: %w", t.Coord, err)
		}
		r.textures = append(r.textures, tex)
	}
	r.log.Debug().Int("tiles", len(r.textures)).Msg("Tiles uploaded")
	return nil
}

func (r *Renderer) createTileTexture(t *tilestore.Tile) (*TileTexture, error) {
	img := t.Image
	size := wgpu.Extent3D{
		Width:              uint32(img.Bounds().Dx()),
		Height:             uint32(img.Bounds().Dy()),
		DepthOrArrayLayers: 1,
	}

	texture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "tile_texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        wgpu.TextureFormat_RGBA8UnormSrgb,
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return nil, err
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspect_All},
		img.Pix,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: uint32(img.Stride), RowsPerImage: size.Height},
		&size,
	)

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          wgpu.TextureFormat_RGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimension_2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspect_All,
	})
	if err != nil {
		texture.Release()
		return nil, err
	}

	uniform, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "tile_uniform",
		Size:  uint64(unsafe.Sizeof(TileInfo{})),
		Usage: wgpu.BufferUsage_Uniform | wgpu.BufferUsage_CopyDst,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, err
	}

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "tile_bind_group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniform, Size: uint64(unsafe.Sizeof(TileInfo{}))},
			{Binding: 1, Sampler: r.sampler},
			{Binding: 2, TextureView: view},
		},
	})
	if err != nil {
		uniform.Release()
		view.Release()
		texture.Release()
		return nil, err
	}

	return &TileTexture{Tile: t, Texture: texture, View: view, Uniform: uniform, BindGroup: bindGroup}, nil
}

// tileInfo converts a screen rectangle in window coordinates to the NDC
// offset/scale of the unit quad. NDC y grows upwards.
func tileInfo(rect orb.Bound, viewW, viewH float64) TileInfo {
	return TileInfo{
		OffsetX: float32(rect.Min.X()/viewW*2 - 1),
		OffsetY: float32(1 - rect.Min.Y()/viewH*2),
		ScaleX:  float32((rect.Max.X() - rect.Min.X()) / viewW * 2),
		ScaleY:  float32(-(rect.Max.Y() - rect.Min.Y()) / viewH * 2),
	}
}

// Render draws every tile with the camera's view applied
func (r *Renderer) Render(cam *camera.Camera) error {
	if cam.ViewportWidth <= 0 || cam.ViewportHeight <= 0 {
		return nil
	}
	if r.swapChain == nil {
		return errNoSwapChain
	}

	frame, err := r.swapChain.GetCurrentTextureView()
	if err != nil {
		return err
	}
	defer frame.Release()

	encoder, err := r.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{})
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame,
			LoadOp:     wgpu.LoadOp_Clear,
			StoreOp:    wgpu.StoreOp_Store,
			ClearValue: wgpu.Color{R: 0.933, G: 0.933, B: 0.933, A: 1.0},
		}},
	})

	pass.SetPipeline(r.pipeline)
	pass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormat_Uint16, 0, wgpu.WholeSize)

	view := cam.View()
	w := float64(cam.ViewportWidth)
	h := float64(cam.ViewportHeight)
	screen := orb.Bound{Max: orb.Point{w, h}}

	drawn := 0
	for _, tex := range r.textures {
		rect := view.TileRect(tex.Tile.Placement, tex.Tile.Size())
		if !rect.Intersects(screen) {
			continue
		}

		r.queue.WriteBuffer(tex.Uniform, 0, wgpu.ToBytes([]TileInfo{tileInfo(rect, w, h)}))
		pass.SetBindGroup(0, tex.BindGroup, nil)
		pass.DrawIndexed(6, 1, 0, 0, 0)
		drawn++
	}

	pass.End()

	cmdBuffer, err := encoder.Finish(&wgpu.CommandBufferDescriptor{})
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	r.queue.Submit(cmdBuffer)
	r.swapChain.Present()

	r.log.Trace().Int("drawn", drawn).Float64("scale", view.Scale).Msg("Frame rendered")
	return nil
}

// Resize handles framebuffer size changes. The current swap chain is kept
// when the replacement cannot be created.
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}

	sc, err := r.newSwapChain(width, height)
	if err != nil {
		r.log.Error().Err(err).Uint32("width", width).Uint32("height", height).Msg("Failed to recreate swap chain")
		return
	}

	if r.swapChain != nil {
		r.swapChain.Release()
	}
	r.swapChain = sc
	r.width = width
	r.height = height
}

// Release frees all GPU resources
func (r *Renderer) Release() {
	for _, tex := range r.textures {
		tex.release()
	}
	r.textures = nil

	r.vertexBuffer.Release()
	r.indexBuffer.Release()
	r.bindGroupLayout.Release()
	r.pipeline.Release()
	r.sampler.Release()
	if r.swapChain != nil {
		r.swapChain.Release()
	}
}
