//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/graphview"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// initialInstanceCapacity is the instance count the edge and node buffers
// start with. They double when a frame needs more.
const initialInstanceCapacity = 1024

// GraphRenderer draws edges and nodes with two instanced render pipelines
// that share one bind group: the camera uniform at binding 0 and the style
// uniform at binding 1.
//
// The pipelines and static buffers are created on the first Prepare.
// Prepare must not be called while draws recorded by a previous
// RecordDraws are still executing on the GPU.
//
// GraphRenderer is NOT safe for concurrent use.
type GraphRenderer struct {
	device hal.Device
	queue  hal.Queue
	cfg    config

	edgeShader    hal.ShaderModule
	nodeShader    hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	edgePipeline  hal.RenderPipeline
	nodePipeline  hal.RenderPipeline

	edgeQuad  hal.Buffer
	nodeQuad  hal.Buffer
	cameraBuf hal.Buffer
	styleBuf  hal.Buffer
	bindGroup hal.BindGroup

	edges instanceBuffer
	nodes instanceBuffer

	encoded   graphview.EncodedFrame
	edgeCount uint32
	nodeCount uint32
}

// NewGraphRenderer creates a renderer on the given device and queue. No
// GPU objects are created until Prepare.
func NewGraphRenderer(device hal.Device, queue hal.Queue, opts ...Option) *GraphRenderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GraphRenderer{
		device: device,
		queue:  queue,
		cfg:    cfg,
		edges:  instanceBuffer{label: "graph_edge_instances", stride: graphview.EdgeInstanceStride},
		nodes:  instanceBuffer{label: "graph_node_instances", stride: graphview.NodeInstanceStride},
	}
}

// Style returns the shading constants the renderer uploads.
func (r *GraphRenderer) Style() graphview.Style { return r.cfg.style }

// Format returns the color target format of both pipelines.
func (r *GraphRenderer) Format() gputypes.TextureFormat { return r.cfg.format }

// SampleCount returns the MSAA sample count of both pipelines.
func (r *GraphRenderer) SampleCount() uint32 { return r.cfg.samples }

// Counts returns the instance counts uploaded by the last Prepare.
func (r *GraphRenderer) Counts() (edges, nodes int) {
	return int(r.edgeCount), int(r.nodeCount)
}

// Prepare validates and uploads a frame: the camera and style uniforms and
// both instance buffers. Malformed edge normals are logged, not rejected.
func (r *GraphRenderer) Prepare(frame *graphview.Frame) error {
	if err := r.ensurePipelines(); err != nil {
		return err
	}
	if err := frame.Encode(r.cfg.style, &r.encoded); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := r.edges.reserve(r.device, r.encoded.EdgeCount); err != nil {
		return err
	}
	if err := r.nodes.reserve(r.device, r.encoded.NodeCount); err != nil {
		return err
	}

	// The camera is written before any draw that reads it is recorded.
	r.queue.WriteBuffer(r.cameraBuf, 0, r.encoded.Camera)
	r.queue.WriteBuffer(r.styleBuf, 0, r.encoded.Style)
	if r.encoded.EdgeCount > 0 {
		r.queue.WriteBuffer(r.edges.buf, 0, r.encoded.Edges)
	}
	if r.encoded.NodeCount > 0 {
		r.queue.WriteBuffer(r.nodes.buf, 0, r.encoded.Nodes)
	}
	r.edgeCount = uint32(r.encoded.EdgeCount) //nolint:gosec // instance count fits uint32
	r.nodeCount = uint32(r.encoded.NodeCount) //nolint:gosec // instance count fits uint32

	slogger().Debug("graph frame uploaded",
		"edges", r.edgeCount, "nodes", r.nodeCount,
		"edge_bytes", len(r.encoded.Edges), "node_bytes", len(r.encoded.Nodes))
	return nil
}

// RecordDraws records the edge draw and then the node draw into a render
// pass owned by the caller. Nodes blend over edges in submission order.
// A primitive with no instances is skipped.
func (r *GraphRenderer) RecordDraws(rp hal.RenderPassEncoder) {
	if r.edgePipeline == nil || r.nodePipeline == nil {
		return
	}
	if r.edgeCount > 0 {
		rp.SetPipeline(r.edgePipeline)
		rp.SetBindGroup(0, r.bindGroup, nil)
		rp.SetVertexBuffer(0, r.edgeQuad, 0)
		rp.SetVertexBuffer(1, r.edges.buf, 0)
		rp.Draw(uint32(graphview.QuadVertexCount), r.edgeCount, 0, 0)
	}
	if r.nodeCount > 0 {
		rp.SetPipeline(r.nodePipeline)
		rp.SetBindGroup(0, r.bindGroup, nil)
		rp.SetVertexBuffer(0, r.nodeQuad, 0)
		rp.SetVertexBuffer(1, r.nodes.buf, 0)
		rp.Draw(uint32(graphview.QuadVertexCount), r.nodeCount, 0, 0)
	}
}

// Destroy releases all GPU resources. Safe to call multiple times.
func (r *GraphRenderer) Destroy() {
	r.edges.destroy(r.device)
	r.nodes.destroy(r.device)
	r.destroyBuffers()
	r.destroyPipelines()
	r.edgeCount, r.nodeCount = 0, 0
}

func (r *GraphRenderer) ensurePipelines() error {
	if r.edgePipeline != nil && r.nodePipeline != nil && r.bindGroup != nil {
		return nil
	}
	if err := r.cfg.style.Validate(); err != nil {
		return err
	}
	if err := r.createPipelines(); err != nil {
		r.destroyPipelines()
		return err
	}
	if err := r.createBuffers(); err != nil {
		r.destroyBuffers()
		r.destroyPipelines()
		return err
	}
	return nil
}

func (r *GraphRenderer) createPipelines() error {
	layouts := map[string]gputypes.VertexBufferLayout{
		"quad": graphview.QuadVertexLayout(),
		"edge": graphview.EdgeInstanceLayout(),
		"node": graphview.NodeInstanceLayout(),
	}
	for name, l := range layouts {
		if err := graphview.CheckLayout(l); err != nil {
			return fmt.Errorf("%s layout: %w", name, err)
		}
	}

	var err error
	if r.edgeShader, err = r.createShader("graph_edge_shader", edgeShaderSource); err != nil {
		return err
	}
	if r.nodeShader, err = r.createShader("graph_node_shader", nodeShaderSource); err != nil {
		return err
	}

	r.uniformLayout, err = r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "graph_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	r.pipeLayout, err = r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "graph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	// Edges overwrite: no blending.
	r.edgePipeline, err = r.createPipeline("graph_edge_pipeline", r.edgeShader,
		graphview.EdgeInstanceLayout(), nil)
	if err != nil {
		return fmt.Errorf("create edge pipeline: %w", err)
	}

	blend := straightAlphaBlend()
	r.nodePipeline, err = r.createPipeline("graph_node_pipeline", r.nodeShader,
		graphview.NodeInstanceLayout(), &blend)
	if err != nil {
		return fmt.Errorf("create node pipeline: %w", err)
	}

	slogger().Debug("graph pipelines created",
		"format", r.cfg.format, "samples", r.cfg.samples, "spirv", r.cfg.spirv)
	return nil
}

func (r *GraphRenderer) createShader(label, wgsl string) (hal.ShaderModule, error) {
	src, err := shaderSource(wgsl, r.cfg.spirv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return shader, nil
}

func (r *GraphRenderer) createPipeline(
	label string, shader hal.ShaderModule,
	instances gputypes.VertexBufferLayout, blend *gputypes.BlendState,
) (hal.RenderPipeline, error) {
	return r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{graphview.QuadVertexLayout(), instances},
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.cfg.format,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: r.cfg.samples,
			Mask:  0xFFFFFFFF,
		},
	})
}

// straightAlphaBlend composites a straight-alpha fragment over the target:
// color SrcAlpha / OneMinusSrcAlpha, alpha One / OneMinusSrcAlpha.
func straightAlphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

func (r *GraphRenderer) createBuffers() error {
	var err error
	r.edgeQuad, err = r.createAndUploadBuffer("graph_edge_quad",
		graphview.EncodeQuad(graphview.EdgeQuadVertices()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.nodeQuad, err = r.createAndUploadBuffer("graph_node_quad",
		graphview.EncodeQuad(graphview.NodeQuadVertices()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.cameraBuf, err = r.createAndUploadBuffer("graph_camera_uniform",
		make([]byte, graphview.CameraUniformSize),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.styleBuf, err = r.createAndUploadBuffer("graph_style_uniform",
		r.cfg.style.UniformBytes(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	r.bindGroup, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "graph_uniform_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.cameraBuf.NativeHandle(), Offset: 0, Size: graphview.CameraUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: r.styleBuf.NativeHandle(), Offset: 0, Size: graphview.StyleUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *GraphRenderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// destroyBuffers releases the bind group and static buffers.
func (r *GraphRenderer) destroyBuffers() {
	if r.device == nil {
		return
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, b := range []*hal.Buffer{&r.styleBuf, &r.cameraBuf, &r.nodeQuad, &r.edgeQuad} {
		if *b != nil {
			r.device.DestroyBuffer(*b)
			*b = nil
		}
	}
}

// destroyPipelines releases pipeline resources in reverse creation order.
func (r *GraphRenderer) destroyPipelines() {
	if r.device == nil {
		return
	}
	if r.nodePipeline != nil {
		r.device.DestroyRenderPipeline(r.nodePipeline)
		r.nodePipeline = nil
	}
	if r.edgePipeline != nil {
		r.device.DestroyRenderPipeline(r.edgePipeline)
		r.edgePipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.nodeShader != nil {
		r.device.DestroyShaderModule(r.nodeShader)
		r.nodeShader = nil
	}
	if r.edgeShader != nil {
		r.device.DestroyShaderModule(r.edgeShader)
		r.edgeShader = nil
	}
}

// instanceBuffer is a growable per-instance vertex buffer.
type instanceBuffer struct {
	label    string
	stride   uint64
	buf      hal.Buffer
	capacity int
}

// reserve makes room for count instances. Growth starts at
// initialInstanceCapacity and doubles; the old contents are discarded.
func (b *instanceBuffer) reserve(device hal.Device, count int) error {
	if b.buf != nil && count <= b.capacity {
		return nil
	}
	capacity := max(b.capacity, initialInstanceCapacity)
	for capacity < count {
		capacity *= 2
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  uint64(capacity) * b.stride, //nolint:gosec // capacity is positive
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", b.label, err)
	}
	b.destroy(device)
	b.buf = buf
	b.capacity = capacity
	slogger().Debug("instance buffer allocated", "label", b.label, "capacity", capacity)
	return nil
}

func (b *instanceBuffer) destroy(device hal.Device) {
	if b.buf != nil && device != nil {
		device.DestroyBuffer(b.buf)
	}
	b.buf = nil
	b.capacity = 0
}
