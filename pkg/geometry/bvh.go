package geometry

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Leaf threshold: ranges with this many or fewer shapes become leaf nodes
const leafThreshold = 8

// Ranges at least this large hand their left subtree to a separate goroutine
const parallelBuildThreshold = 2048

// bvhNode is one node in the arena. Internal nodes carry child indices and
// the split axis; leaves carry a range into the reordered shape slice.
type bvhNode struct {
	box         core.AABB
	left, right int32 // Child arena indices, -1 for leaves
	start       int32 // First shape of a leaf's range
	count       int32 // Number of shapes in a leaf, 0 for internal nodes
	axis        uint8 // Split axis, used for near-child traversal ordering
}

// BVH is a bounding volume hierarchy over a set of shapes. All nodes live in
// one contiguous arena addressed by index. The structure is immutable after
// construction and safe for any number of concurrent readers.
type BVH struct {
	nodes  []bvhNode
	shapes []Shape // Reordered copy of the input shapes
	root   int32   // Arena index of the root, -1 for an empty BVH
}

// bvhPrim pairs a shape with its cached bounds and centroid during build
type bvhPrim struct {
	shape    Shape
	box      core.AABB
	centroid core.Vec3
}

// bvhBuilder owns the build state. Arena slots are claimed through an atomic
// counter so parallel subtree builds write disjoint indices.
type bvhBuilder struct {
	nodes []bvhNode
	next  atomic.Int32
	prims []bvhPrim
}

// NewBVH constructs a BVH from a slice of shapes. An empty or nil slice
// produces a valid empty BVH whose Hit never reports an intersection.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{root: -1}
	}

	// Cache boxes and centroids once; the input slice itself is never reordered
	prims := make([]bvhPrim, len(shapes))
	for i, shape := range shapes {
		box := shape.BoundingBox()
		prims[i] = bvhPrim{shape: shape, box: box, centroid: box.Center()}
	}

	builder := &bvhBuilder{
		// A binary tree over n leaves needs at most 2n-1 nodes. Preallocating
		// the arena keeps node addresses stable for concurrent builders.
		nodes: make([]bvhNode, 2*len(shapes)-1),
		prims: prims,
	}

	root := builder.build(0, int32(len(prims)))

	ordered := make([]Shape, len(prims))
	for i := range prims {
		ordered[i] = prims[i].shape
	}

	return &BVH{
		nodes:  builder.nodes[:builder.next.Load()],
		shapes: ordered,
		root:   root,
	}
}

// alloc claims the next free arena slot
func (b *bvhBuilder) alloc() int32 {
	return b.next.Add(1) - 1
}

// build constructs the subtree for prims[start:end) and returns its arena index
func (b *bvhBuilder) build(start, end int32) int32 {
	idx := b.alloc()
	node := &b.nodes[idx]
	count := end - start

	// Centroid bounds determine the split axis
	centroidBounds := core.EmptyAABB()
	for i := start; i < end; i++ {
		c := b.prims[i].centroid
		centroidBounds = centroidBounds.Union(core.NewAABB(c, c))
	}
	axis := centroidBounds.LongestAxis()
	extent := centroidBounds.Size().Axis(axis)

	// Small ranges and ranges whose centroids coincide become leaves
	if count <= leafThreshold || extent <= 0 {
		node.left, node.right = -1, -1
		node.start, node.count = start, count
		node.box = core.EmptyAABB()
		for i := start; i < end; i++ {
			node.box = node.box.Union(b.prims[i].box)
		}
		return idx
	}

	// Median split: order the range along the chosen axis and halve it
	segment := b.prims[start:end]
	sort.Slice(segment, func(i, j int) bool {
		return segment[i].centroid.Axis(axis) < segment[j].centroid.Axis(axis)
	})
	mid := start + count/2

	var leftIdx, rightIdx int32
	if count >= parallelBuildThreshold {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			leftIdx = b.build(start, mid)
		}()
		rightIdx = b.build(mid, end)
		wg.Wait()
	} else {
		leftIdx = b.build(start, mid)
		rightIdx = b.build(mid, end)
	}

	node.left, node.right = leftIdx, rightIdx
	node.start, node.count = 0, 0
	node.axis = uint8(axis)

	// Children are complete here, so the parent box is their tight union
	node.box = b.nodes[leftIdx].box.Union(b.nodes[rightIdx].box)

	return idx
}

// Hit tests if a ray intersects any shape in the BVH, keeping the nearest hit
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	if bvh.root < 0 {
		return false
	}

	// Iterative traversal; median splits keep the tree balanced so the
	// stack depth is bounded by log2 of the shape count
	var stack [64]int32
	stackSize := 1
	stack[0] = bvh.root

	hitAnything := false
	closestSoFar := tMax

	for stackSize > 0 {
		stackSize--
		node := &bvh.nodes[stack[stackSize]]

		if !node.box.Hit(ray, tMin, closestSoFar) {
			continue
		}

		if node.count > 0 {
			for i := node.start; i < node.start+node.count; i++ {
				if bvh.shapes[i].Hit(ray, tMin, closestSoFar, hit) {
					hitAnything = true
					closestSoFar = hit.T
				}
			}
			continue
		}

		// Visit the near child first so early hits shrink the interval
		// before the far child is tested
		near, far := node.left, node.right
		if ray.Direction.Axis(int(node.axis)) < 0 {
			near, far = far, near
		}
		stack[stackSize] = far
		stack[stackSize+1] = near
		stackSize += 2
	}

	return hitAnything
}

// BoundingBox returns the bounds of the whole hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.root < 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[bvh.root].box
}

// NodeCount returns the number of nodes in the arena
func (bvh *BVH) NodeCount() int {
	return len(bvh.nodes)
}
